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
Creates bean by calling the factory method on the owner bean.

The owner is resolved by name, method parameters by type.
The bean stays pending by name during the call, so the method
that requires its own product fails instead of endless recursion.
*/
func (t *registry) createFromFactory(d *Descriptor, c *creation) (interface{}, error) {

	c.push(d.Name, nil)
	defer c.pop()

	owner, err := t.getBean(d.FactoryOwner, c)
	if err != nil {
		return nil, creationFailed(d.Name, err)
	}

	method := reflect.ValueOf(owner).MethodByName(d.FactoryMethod)
	if !method.IsValid() {
		return nil, &BeanCreationError{Name: d.Name, Err: errors.Errorf("factory method '%s' not found in owner bean '%s' with type '%T'", d.FactoryMethod, d.FactoryOwner, owner)}
	}
	methodType := method.Type()
	if err := validateFactoryMethod(methodType, 0); err != nil {
		return nil, &BeanCreationError{Name: d.Name, Err: errors.Wrapf(err, "factory method '%s'", d.FactoryMethod)}
	}

	t.log.Debug(indent(c.depth())+"FactoryMethod", beanField(d))

	params := make([]reflect.Type, methodType.NumIn())
	for i := range params {
		params[i] = methodType.In(i)
	}
	args, err := t.resolveByType(params, c)
	if err != nil {
		return nil, creationFailed(d.Name, err)
	}

	obj, err := callFactoryMethod(method, args)
	if err != nil {
		return nil, &BeanCreationError{Name: d.Name, Err: errors.Wrapf(err, "factory method '%s.%s'", d.FactoryOwner, d.FactoryMethod)}
	}
	return obj, nil
}

func callFactoryMethod(method reflect.Value, args []reflect.Value) (obj interface{}, err error) {

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("recovered with error %v", r)
		}
	}()

	results := method.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return valueOf(results[0], method.Type())
}

/**
Returns descriptors of configuration bean and beans produced by its methods.
Produced bean is named by the method in lower camel case, 'DatabaseConnection' gives 'databaseConnection'.

Example:
	list, err := beans.Configuration("appConfig", beans.MustClass((*AppConfig)(nil)), "DatabaseConnection", "UserDao")
*/
func Configuration(name string, class *Class, methods ...string) ([]*Descriptor, error) {
	if name == "" {
		name = BeanName(class.Type())
	}
	list := []*Descriptor{{Name: name, Class: class}}
	for _, method := range methods {
		d, err := FactoryMethod(lowerFirst(method), name, class, method)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, nil
}
