/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"io"
)

/**
Known classes referenced from definition files by simple name
*/
type ClassSet map[string]*Class

func NewClassSet(classes ...*Class) ClassSet {
	t := make(ClassSet, len(classes))
	for _, class := range classes {
		t[class.Name()] = class
	}
	return t
}

type definitionFile struct {
	Beans []definition `yaml:"beans"`
}

type definition struct {
	Name   string `yaml:"name"`
	Class  string `yaml:"class"`
	Owner  string `yaml:"owner"`
	Method string `yaml:"method"`
}

/**
Loads bean descriptors from YAML document.

Example:
	beans:
	  - class: UserRepository
	  - name: appConfig
	    class: AppConfig
	  - owner: appConfig
	    method: DatabaseConnection

Bean without name gets the conventional name of the class or of the method.
Factory beans refer to the owner defined in the same document.
*/
func LoadDefinitions(r io.Reader, classes ClassSet) ([]*Descriptor, error) {

	var file definitionFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, "decode bean definitions")
	}

	list := make([]*Descriptor, 0, len(file.Beans))
	owners := make(map[string]*Class)

	for i, def := range file.Beans {
		if def.Owner != "" || def.Method != "" {
			continue
		}
		if def.Class == "" {
			return nil, errors.Errorf("bean definition %d '%s' has no class", i, def.Name)
		}
		class, ok := classes[def.Class]
		if !ok {
			return nil, errors.Errorf("bean definition %d '%s' has unknown class '%s'", i, def.Name, def.Class)
		}
		name := def.Name
		if name == "" {
			name = BeanName(class.Type())
		}
		owners[name] = class
		list = append(list, &Descriptor{Name: name, Class: class})
	}

	for i, def := range file.Beans {
		if def.Owner == "" && def.Method == "" {
			continue
		}
		if def.Owner == "" || def.Method == "" {
			return nil, errors.Errorf("bean definition %d '%s' requires both owner and method", i, def.Name)
		}
		if def.Class != "" {
			return nil, errors.Errorf("bean definition %d '%s' has class and factory method at once", i, def.Name)
		}
		ownerClass, ok := owners[def.Owner]
		if !ok {
			return nil, errors.Errorf("bean definition %d '%s' has unknown owner '%s'", i, def.Name, def.Owner)
		}
		name := def.Name
		if name == "" {
			name = lowerFirst(def.Method)
		}
		d, err := FactoryMethod(name, def.Owner, ownerClass, def.Method)
		if err != nil {
			return nil, errors.Wrapf(err, "bean definition %d", i)
		}
		list = append(list, d)
	}

	return list, nil
}

/**
Registers all descriptors, stops on the first invalid one
*/
func RegisterAll(reg Registry, list []*Descriptor) error {
	for _, d := range list {
		if err := reg.Register(d); err != nil {
			return errors.Wrapf(err, "register bean '%s'", d.Name)
		}
	}
	return nil
}
