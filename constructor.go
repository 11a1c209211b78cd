/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans

/**
Selects constructor of the class in strict priority:
	1. constructor marked by Inject, the first one if marked several
	2. the only constructor
	3. zero-parameter constructor
*/
func selectConstructor(class *Class) (*Constructor, error) {
	for _, ctor := range class.constructors {
		if ctor.injected {
			return ctor, nil
		}
	}
	if len(class.constructors) == 1 {
		return class.constructors[0], nil
	}
	for _, ctor := range class.constructors {
		if len(ctor.params) == 0 {
			return ctor, nil
		}
	}
	return nil, &NoSuitableConstructorError{Type: class.classPtr}
}
