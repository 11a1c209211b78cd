/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans

import (
	"fmt"
	"github.com/pkg/errors"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

var errorClass = reflect.TypeOf((*error)(nil)).Elem()

type BeanLifecycle int32

const (
	BeanCreated BeanLifecycle = iota
	BeanInitialized
	BeanDestroying
	BeanDestroyed
)

func (t BeanLifecycle) String() string {
	switch t {
	case BeanCreated:
		return "BeanCreated"
	case BeanInitialized:
		return "BeanInitialized"
	case BeanDestroying:
		return "BeanDestroying"
	case BeanDestroyed:
		return "BeanDestroyed"
	default:
		return "BeanUnknown"
	}
}

/**
Constructor is a function that produces instance of the class.

Supported signatures:
	func(Dep1, Dep2, ...) T
	func(Dep1, Dep2, ...) (T, error)
*/
type Constructor struct {
	fn           reflect.Value
	fnType       reflect.Type
	params       []reflect.Type
	injected     bool
	returnsError bool
}

type injectMarker struct {
	fn interface{}
}

/**
Marks constructor function as the explicit injection point of the class.

Example:
	beans.NewClass((*app.UserService)(nil), beans.WithConstructor(app.NewDefaultUserService, beans.Inject(app.NewUserService)))
*/
func Inject(fn interface{}) interface{} {
	return injectMarker{fn: fn}
}

func parseConstructor(classPtr reflect.Type, fn interface{}) (*Constructor, error) {
	var injected bool
	if marker, ok := fn.(injectMarker); ok {
		fn, injected = marker.fn, true
	}
	if fn == nil {
		return nil, errors.Errorf("nil constructor for class '%v'", classPtr)
	}
	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()
	if fnType.Kind() != reflect.Func {
		return nil, errors.Errorf("constructor of class '%v' must be a function, but was '%v'", classPtr, fnType)
	}
	if fnType.IsVariadic() {
		return nil, errors.Errorf("variadic constructor '%v' of class '%v' is not supported", fnType, classPtr)
	}
	numOut := fnType.NumOut()
	if numOut == 0 || numOut > 2 {
		return nil, errors.Errorf("constructor '%v' must return (T) or (T, error)", fnType)
	}
	if !fnType.Out(0).AssignableTo(classPtr) {
		return nil, errors.Errorf("constructor '%v' returns '%v' that is not assignable to class '%v'", fnType, fnType.Out(0), classPtr)
	}
	returnsError := false
	if numOut == 2 {
		if fnType.Out(1) != errorClass {
			return nil, errors.Errorf("second return value of constructor '%v' must be error", fnType)
		}
		returnsError = true
	}
	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}
	return &Constructor{
		fn:           fnValue,
		fnType:       fnType,
		params:       params,
		injected:     injected,
		returnsError: returnsError,
	}, nil
}

/**
Zero-parameter constructor for pointer to the struct
*/
func implicitConstructor(classPtr reflect.Type) *Constructor {
	fnType := reflect.FuncOf(nil, []reflect.Type{classPtr}, false)
	elem := classPtr.Elem()
	fn := reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{reflect.New(elem)}
	})
	return &Constructor{
		fn:     fn,
		fnType: fnType,
	}
}

func (t *Constructor) Params() []reflect.Type {
	return t.params
}

func (t *Constructor) Injected() bool {
	return t.injected
}

func (t *Constructor) String() string {
	if t.injected {
		return fmt.Sprintf("inject %v", t.fnType)
	}
	return t.fnType.String()
}

func (t *Constructor) invoke(args []reflect.Value) (obj interface{}, err error) {

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("constructor '%v' recovered with error %v", t.fnType, r)
		}
	}()

	results := t.fn.Call(args)
	if t.returnsError && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return valueOf(results[0], t.fnType)
}

func valueOf(result reflect.Value, producer reflect.Type) (interface{}, error) {
	switch result.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if result.IsNil() {
			return nil, errors.Errorf("'%v' returned nil", producer)
		}
	}
	return result.Interface(), nil
}

/**
Class describes the constructible type of the bean and the ways to create and initialize it.
*/
type Class struct {

	/**
	Type of the bean, usually the pointer to struct
	*/
	classPtr reflect.Type

	/**
	Registered constructors in registration order
	*/
	constructors []*Constructor

	/**
	Candidate names of lifecycle methods, the first found is used
	*/
	postConstruct []string
	preDestroy    []string
}

type ClassOption func(*Class) error

/**
Creates class, sample is the typed nil like (*app.UserService)(nil) or reflect.Type.

The pointer to struct without registered constructors gets zero-parameter constructor.
*/
func NewClass(sample interface{}, options ...ClassOption) (*Class, error) {
	var classPtr reflect.Type
	switch s := sample.(type) {
	case nil:
		return nil, errors.New("nil class sample")
	case reflect.Type:
		classPtr = s
	default:
		classPtr = reflect.TypeOf(sample)
	}
	t := &Class{classPtr: classPtr}
	for _, opt := range options {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	if len(t.constructors) == 0 {
		if classPtr.Kind() != reflect.Ptr || classPtr.Elem().Kind() != reflect.Struct {
			return nil, errors.Errorf("class '%v' has no constructors and is not a pointer to struct", classPtr)
		}
		t.constructors = []*Constructor{implicitConstructor(classPtr)}
	}
	return t, nil
}

func MustClass(sample interface{}, options ...ClassOption) *Class {
	class, err := NewClass(sample, options...)
	if err != nil {
		panic(err)
	}
	return class
}

/**
Class of the bean produced by factory method, never constructed directly
*/
func resultClass(typ reflect.Type) *Class {
	return &Class{classPtr: typ}
}

func WithConstructor(fns ...interface{}) ClassOption {
	return func(t *Class) error {
		for _, fn := range fns {
			ctor, err := parseConstructor(t.classPtr, fn)
			if err != nil {
				return err
			}
			t.constructors = append(t.constructors, ctor)
		}
		return nil
	}
}

/**
Names of methods with no parameters called after construction if bean does not implement InitializingBean
*/
func WithPostConstruct(methods ...string) ClassOption {
	return func(t *Class) error {
		t.postConstruct = append(t.postConstruct, methods...)
		return nil
	}
}

/**
Names of methods with no parameters called on registry close if bean does not implement DisposableBean
*/
func WithPreDestroy(methods ...string) ClassOption {
	return func(t *Class) error {
		t.preDestroy = append(t.preDestroy, methods...)
		return nil
	}
}

func (t *Class) Type() reflect.Type {
	return t.classPtr
}

func (t *Class) Name() string {
	return simpleName(t.classPtr)
}

func (t *Class) Constructors() []*Constructor {
	return t.constructors
}

/**
Returns true if class type is the required type or implements it
*/
func (t *Class) Implements(typ reflect.Type) bool {
	if t.classPtr == typ {
		return true
	}
	if typ.Kind() == reflect.Interface {
		return t.classPtr.Implements(typ)
	}
	return t.classPtr.AssignableTo(typ)
}

func (t *Class) String() string {
	return t.classPtr.String()
}

/**
Descriptor is the metadata of the bean: logical name and the way to create it.
The registry keeps its own copy, so changes after registration have no effect.
*/
type Descriptor struct {

	/**
	Unique name of the bean in registry
	*/
	Name string

	/**
	Constructible class, or class of the factory method result
	*/
	Class *Class

	/**
	Name of the bean that produces this bean by FactoryMethod
	*/
	FactoryOwner string

	/**
	Exported method name of the FactoryOwner bean
	*/
	FactoryMethod string
}

/**
Descriptor with the conventional bean name of the class, for example 'userService' for *app.UserService
*/
func Component(class *Class) *Descriptor {
	return &Descriptor{Name: BeanName(class.Type()), Class: class}
}

/**
Descriptor of the bean produced by the method of owner bean, the result class is taken from the method signature
*/
func FactoryMethod(name, owner string, ownerClass *Class, method string) (*Descriptor, error) {
	m, ok := ownerClass.Type().MethodByName(method)
	if !ok {
		return nil, errors.Errorf("factory method '%s' not found in '%v'", method, ownerClass.Type())
	}
	if err := validateFactoryMethod(m.Type, 1); err != nil {
		return nil, errors.Wrapf(err, "factory method '%s' of '%v'", method, ownerClass.Type())
	}
	return &Descriptor{
		Name:          name,
		Class:         resultClass(m.Type.Out(0)),
		FactoryOwner:  owner,
		FactoryMethod: method,
	}, nil
}

/**
First param is receiver for methods obtained from type and zero for bound methods
*/
func validateFactoryMethod(fnType reflect.Type, firstParam int) error {
	numOut := fnType.NumOut()
	if numOut == 0 || numOut > 2 {
		return errors.Errorf("must return (T) or (T, error), but was '%v'", fnType)
	}
	if numOut == 2 && fnType.Out(1) != errorClass {
		return errors.Errorf("second return value must be error, but was '%v'", fnType)
	}
	if fnType.IsVariadic() {
		return errors.Errorf("variadic '%v' is not supported", fnType)
	}
	for i := firstParam; i < fnType.NumIn(); i++ {
		switch fnType.In(i).Kind() {
		case reflect.Ptr, reflect.Interface:
		default:
			return errors.Errorf("parameter %d type '%v' is not a pointer or interface", i-firstParam, fnType.In(i))
		}
	}
	return nil
}

func (t *Descriptor) IsFactory() bool {
	return t.FactoryOwner != ""
}

func (t *Descriptor) validate() error {
	if t.Name == "" {
		return errors.New("empty bean name")
	}
	if t.Class == nil {
		return errors.Errorf("bean '%s' has no class", t.Name)
	}
	if t.IsFactory() {
		if t.FactoryMethod == "" {
			return errors.Errorf("bean '%s' has factory owner '%s', but no factory method", t.Name, t.FactoryOwner)
		}
	} else if len(t.Class.constructors) == 0 {
		return errors.Errorf("bean '%s' class '%v' has no constructors", t.Name, t.Class.classPtr)
	}
	return nil
}

func (t *Descriptor) String() string {
	if t.IsFactory() {
		return fmt.Sprintf("<Bean %s %v by %s.%s>", t.Name, t.Class, t.FactoryOwner, t.FactoryMethod)
	}
	return fmt.Sprintf("<Bean %s %v>", t.Name, t.Class)
}

/**
Bean record stored in the singleton cache
*/
type bean struct {
	name       string
	obj        interface{}
	descriptor *Descriptor
	lifecycle  BeanLifecycle
}

func (t *bean) String() string {
	return fmt.Sprintf("%v(%s)", t.descriptor, t.lifecycle)
}

/**
Simple name of the type without package and pointer marks
*/
func simpleName(typ reflect.Type) string {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if name := typ.Name(); name != "" {
		return name
	}
	name := typ.String()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

/**
Conventional bean name of the type: lower camel case of the simple name
*/
func BeanName(typ reflect.Type) string {
	return lowerFirst(simpleName(typ))
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}
