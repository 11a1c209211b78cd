/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans

import (
	"github.com/pkg/errors"
	"reflect"
)

/**
Beans under construction by one top-level call.

Created by every top-level Bean call and passed down
through the recursion, so unrelated callers never see each other.
*/
type creation struct {
	stack []creationEntry

	/**
	Construction of another creation this one waits for, guarded by registry mu
	*/
	waiting *pending
}

type creationEntry struct {
	name string
	/**
	Class type for constructor beans, nil for factory beans
	*/
	typ reflect.Type
}

func newCreation() *creation {
	return &creation{}
}

func (t *creation) depth() int {
	return len(t.stack)
}

func (t *creation) push(name string, typ reflect.Type) {
	t.stack = append(t.stack, creationEntry{name: name, typ: typ})
}

func (t *creation) pop() {
	t.stack = t.stack[:len(t.stack)-1]
}

/**
Returns position of the class type in construction stack or -1
*/
func (t *creation) indexOfType(typ reflect.Type) int {
	for i, e := range t.stack {
		if e.typ == typ {
			return i
		}
	}
	return -1
}

/**
Returns position of the bean in construction stack or -1
*/
func (t *creation) indexOfName(name string) int {
	for i, e := range t.stack {
		if e.name == name {
			return i
		}
	}
	return -1
}

func (t *creation) cycle(from int, name string) *CircularDependencyError {
	if from < 0 {
		from = 0
	}
	path := make([]string, 0, len(t.stack)-from+1)
	for _, e := range t.stack[from:] {
		path = append(path, e.name)
	}
	return &CircularDependencyError{Name: name, Path: append(path, name)}
}

func (t *registry) createFromConstructor(d *Descriptor, c *creation) (interface{}, error) {

	typ := d.Class.classPtr
	if i := c.indexOfType(typ); i >= 0 {
		return nil, c.cycle(i, d.Name)
	}

	c.push(d.Name, typ)
	defer c.pop()

	ctor, err := selectConstructor(d.Class)
	if err != nil {
		return nil, &BeanCreationError{Name: d.Name, Err: err}
	}

	t.log.Debug(indent(c.depth())+"Constructor", beanField(d), ctorField(ctor))

	args, err := t.resolveByName(ctor.params, c)
	if err != nil {
		return nil, creationFailed(d.Name, err)
	}

	obj, err := ctor.invoke(args)
	if err != nil {
		return nil, &BeanCreationError{Name: d.Name, Err: err}
	}
	return obj, nil
}

/**
Constructor parameters are resolved by the conventional bean name of the parameter type
*/
func (t *registry) resolveByName(params []reflect.Type, c *creation) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(params))
	for i, paramType := range params {
		name := BeanName(paramType)
		obj, err := t.getBean(name, c)
		if err != nil {
			return nil, err
		}
		if args[i], err = argument(obj, paramType, name); err != nil {
			return nil, err
		}
	}
	return args, nil
}

/**
Factory method parameters are resolved by type
*/
func (t *registry) resolveByType(params []reflect.Type, c *creation) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(params))
	for i, paramType := range params {
		name, err := t.uniqueName(paramType)
		if err != nil {
			return nil, err
		}
		obj, err := t.getBean(name, c)
		if err != nil {
			return nil, err
		}
		if args[i], err = argument(obj, paramType, name); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func argument(obj interface{}, paramType reflect.Type, name string) (reflect.Value, error) {
	value := reflect.ValueOf(obj)
	if !value.Type().AssignableTo(paramType) {
		return value, errors.Errorf("bean '%s' with type '%v' can not be assigned to parameter type '%v'", name, value.Type(), paramType)
	}
	return value, nil
}

/**
Circular dependency errors pass through untouched, everything else names the bean being built
*/
func creationFailed(name string, err error) error {
	var cycle *CircularDependencyError
	if errors.As(err, &cycle) {
		return err
	}
	return &BeanCreationError{Name: name, Err: err}
}
