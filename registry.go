/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans

import (
	"reflect"
	"sort"
	"sync"
)

/**
	Holds descriptors of all registered beans.
	Written on registration, read on every lookup.
 */

type descriptors struct {
	sync.RWMutex
	byName map[string]*Descriptor
}

func newDescriptors() *descriptors {
	return &descriptors{
		byName: make(map[string]*Descriptor),
	}
}

// stores the copy, returns previous descriptor if exist
func (t *descriptors) put(d *Descriptor) (*Descriptor, bool) {
	cp := *d
	t.Lock()
	defer t.Unlock()
	prev, ok := t.byName[d.Name]
	t.byName[d.Name] = &cp
	return prev, ok
}

func (t *descriptors) findByName(name string) (*Descriptor, bool) {
	t.RLock()
	defer t.RUnlock()
	d, ok := t.byName[name]
	return d, ok
}

/**
	Returns sorted names of descriptors that have the type or implement it
 */
func (t *descriptors) findByType(typ reflect.Type) []string {
	t.RLock()
	defer t.RUnlock()
	var names []string
	for name, d := range t.byName {
		if d.Class.Implements(typ) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (t *descriptors) names() []string {
	t.RLock()
	defer t.RUnlock()
	list := make([]string, 0, len(t.byName))
	for name := range t.byName {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

func (t *descriptors) len() int {
	t.RLock()
	defer t.RUnlock()
	return len(t.byName)
}
