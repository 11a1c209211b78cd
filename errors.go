/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans

import (
	"fmt"
	"reflect"
	"strings"
)

/**
Name or type has no matching descriptor
*/
type NoSuchBeanError struct {
	Name string
	Type reflect.Type
}

func (e *NoSuchBeanError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf("no bean found with type '%v'", e.Type)
	}
	return fmt.Sprintf("no bean found with name '%s'", e.Name)
}

/**
Type based lookup matched more than one descriptor
*/
type AmbiguousBeanError struct {
	Type  reflect.Type
	Names []string
}

func (e *AmbiguousBeanError) Error() string {
	return fmt.Sprintf("expected single bean of type '%v', but found %d: %s", e.Type, len(e.Names), strings.Join(e.Names, ", "))
}

/**
Class has several constructors, none of them marked by Inject and no zero-parameter one
*/
type NoSuitableConstructorError struct {
	Type reflect.Type
}

func (e *NoSuitableConstructorError) Error() string {
	return fmt.Sprintf("no suitable constructor found for '%v'", e.Type)
}

type CircularDependencyError struct {
	Name string
	Path []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("circular dependency detected for bean '%s'", e.Name)
	}
	return fmt.Sprintf("circular dependency detected for bean '%s': %s", e.Name, strings.Join(e.Path, "->"))
}

/**
Lifecycle hook method must have no parameters
*/
type InvalidLifecycleMethodError struct {
	Type   reflect.Type
	Method string
}

func (e *InvalidLifecycleMethodError) Error() string {
	return fmt.Sprintf("lifecycle method '%s' in '%v' must have no parameters", e.Method, e.Type)
}

/**
Wraps any other failure happened during creation of the bean.
*/
type BeanCreationError struct {
	Name string
	Err  error
}

func (e *BeanCreationError) Error() string {
	return fmt.Sprintf("failed to create bean '%s', %v", e.Name, e.Err)
}

func (e *BeanCreationError) Unwrap() error {
	return e.Err
}

// used by github.com/pkg/errors.Cause
func (e *BeanCreationError) Cause() error {
	return e.Err
}
