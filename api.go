/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans

import (
	"github.com/pkg/errors"
	"reflect"
)

var RegistryClass = reflect.TypeOf((*Registry)(nil)).Elem()

/**
Registry owns bean descriptors and the singleton cache.

All beans are singletons created lazily on the first Bean or BeanOf call.
The registry is safe for concurrent use, constructors and hooks could call it back.
The registry itself is registered as bean 'registry'.
*/
type Registry interface {

	/**
	Inserts or overwrites the descriptor under its name.
	Never constructs anything, already cached instance stays untouched.
	*/
	Register(d *Descriptor) error

	/**
	Returns true if descriptor with the name is registered, does not look in to the cache
	*/
	Contains(name string) bool

	/**
	Gets bean by name, creates it and all dependencies on the first call.

	Example:
		obj, err := reg.Bean("userService")
		service := obj.(*app.UserService)
	*/
	Bean(name string) (interface{}, error)

	/**
	Gets single bean by type, that is a pointer to the structure or interface.
	Fails if none or more than one descriptor matches the type.

	Example:
		obj, err := reg.BeanOf(reflect.TypeOf((*app.MessageService)(nil)).Elem())
	*/
	BeanOf(typ reflect.Type) (interface{}, error)

	/**
	Returns sorted names of all registered descriptors
	*/
	Names() []string

	/**
	Returns all created singletons in creation order
	*/
	Instances() []interface{}

	/**
	Calls pre-destroy hooks of all created beans in reverse creation order.
	Hook errors do not stop the teardown, they are collected and returned.
	*/
	Close() error

	/**
	Returns information about the registry
	*/
	String() string
}

/**
Initializing bean is using to run required method on post-construct stage,
after all constructor dependencies are resolved
*/

var InitializingBeanClass = reflect.TypeOf((*InitializingBean)(nil)).Elem()

type InitializingBean interface {

	/**
	Runs this method automatically after construction and before the bean is returned
	*/

	PostConstruct() error
}

/**
This interface uses to select objects that could free resources after closing registry
*/
var DisposableBeanClass = reflect.TypeOf((*DisposableBean)(nil)).Elem()

type DisposableBean interface {

	/**
	During close registry would be called for each created bean.
	*/

	Destroy() error
}

/**
Get returns the bean by name casted to T.
*/
func Get[T any](reg Registry, name string) (T, error) {
	var empty T
	obj, err := reg.Bean(name)
	if err != nil {
		return empty, err
	}
	bean, ok := obj.(T)
	if !ok {
		return empty, errors.Errorf("bean '%s' has type '%T', but required '%v'", name, obj, typeOf[T]())
	}
	return bean, nil
}

/**
GetOf returns the single bean that is T or implements T.

Example:
	service, err := beans.GetOf[app.MessageService](reg)
*/
func GetOf[T any](reg Registry) (T, error) {
	var empty T
	typ := typeOf[T]()
	obj, err := reg.BeanOf(typ)
	if err != nil {
		return empty, err
	}
	return obj.(T), nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
