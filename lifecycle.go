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
Runs post-construct hook of the bean if exist and returns its name.
InitializingBean has priority, then configured method names of the class.
Only the first found hook runs.
*/
func postConstruct(obj interface{}, class *Class) (string, error) {
	if init, ok := obj.(InitializingBean); ok {
		return "PostConstruct", safeCall(func() error {
			return init.PostConstruct()
		})
	}
	return invokeHook(obj, class.postConstruct)
}

/**
Runs pre-destroy hook of the bean if exist and returns its name.
*/
func preDestroy(obj interface{}, class *Class) (string, error) {
	if dis, ok := obj.(DisposableBean); ok {
		return "Destroy", safeCall(func() error {
			return dis.Destroy()
		})
	}
	return invokeHook(obj, class.preDestroy)
}

func invokeHook(obj interface{}, methods []string) (string, error) {
	if len(methods) == 0 {
		return "", nil
	}
	value := reflect.ValueOf(obj)
	for _, name := range methods {
		method := value.MethodByName(name)
		if !method.IsValid() {
			continue
		}
		methodType := method.Type()
		if methodType.NumIn() != 0 {
			return name, &InvalidLifecycleMethodError{Type: value.Type(), Method: name}
		}
		return name, safeCall(func() error {
			results := method.Call(nil)
			if n := len(results); n > 0 && methodType.Out(n-1) == errorClass && !results[n-1].IsNil() {
				return results[n-1].Interface().(error)
			}
			return nil
		})
	}
	return "", nil
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("recovered with error %v", r)
		}
	}()
	return fn()
}
