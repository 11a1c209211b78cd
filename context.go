/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans

import (
	"fmt"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"reflect"
	"sync"
	"time"
)

type registry struct {

	/**
	Registered bean descriptors
	*/
	descriptors *descriptors

	/**
	Created singletons, key is the bean name, value is *bean.
	Lock free reads, writes only under mu.
	*/
	singletons sync.Map

	/**
	Guards pending, created and closed. Never held while constructors or hooks run.
	*/
	mu sync.Mutex

	/**
	Beans under construction, key is the bean name
	*/
	pending map[string]*pending

	/**
	Created beans in creation order
	*/
	created []*bean
	closed  bool

	log     *zap.Logger
	metrics *metrics

	/**
	Guarantees that registry would be closed once
	*/
	closeOnce sync.Once
}

/**
Construction of the bean in progress, done is closed when the result is known
*/
type pending struct {
	owner *creation
	done  chan struct{}
}

/**
Returns true if the owner of this construction waits, directly or through
other constructions, for the creation c
*/
func (p *pending) waitsFor(c *creation) bool {
	for o := p.owner; o != nil; o = o.waiting.owner {
		if o == c {
			return true
		}
		if o.waiting == nil {
			return false
		}
	}
	return false
}

func New(options ...Option) (Registry, error) {
	t := &registry{
		descriptors: newDescriptors(),
		pending:     make(map[string]*pending),
		log:         defaultLogger(),
	}
	t.descriptors.put(&Descriptor{
		Name: BeanName(RegistryClass),
		Class: MustClass(RegistryClass, WithConstructor(func() Registry {
			return t
		})),
	})
	for _, opt := range options {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *registry) Register(d *Descriptor) error {
	if d == nil {
		return errors.New("nil descriptor")
	}
	if err := d.validate(); err != nil {
		return err
	}
	if prev, ok := t.descriptors.put(d); ok {
		t.log.Debug("Replace", beanField(d), zap.Stringer("previous", prev))
	} else {
		t.log.Debug("Register", beanField(d))
	}
	return nil
}

func (t *registry) Contains(name string) bool {
	_, ok := t.descriptors.findByName(name)
	return ok
}

// multi-threading safe, could be called from constructors and hooks
func (t *registry) Bean(name string) (interface{}, error) {

	if b, ok := t.singletons.Load(name); ok {
		return b.(*bean).obj, nil
	}

	obj, err := t.getBean(name, newCreation())
	if err != nil {
		t.metrics.observeFailure(err)
	}
	return obj, err
}

// multi-threading safe
func (t *registry) BeanOf(typ reflect.Type) (interface{}, error) {
	if typ == nil {
		return nil, errors.New("nil bean type")
	}
	name, err := t.uniqueName(typ)
	if err != nil {
		return nil, err
	}
	return t.Bean(name)
}

func (t *registry) uniqueName(typ reflect.Type) (string, error) {
	names := t.descriptors.findByType(typ)
	switch len(names) {
	case 0:
		return "", &NoSuchBeanError{Type: typ}
	case 1:
		return names[0], nil
	default:
		return "", &AmbiguousBeanError{Type: typ, Names: names}
	}
}

/**
Gets or creates bean on behalf of the creation c
*/
func (t *registry) getBean(name string, c *creation) (interface{}, error) {
	d, ok := t.descriptors.findByName(name)
	if !ok {
		return nil, &NoSuchBeanError{Name: name}
	}
	for {
		if b, ok := t.singletons.Load(name); ok {
			return b.(*bean).obj, nil
		}
		p, err := t.acquire(name, c)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return t.createBean(d, c, p)
		}
	}
}

/**
Marks the bean as pending for the creation c, or waits until the creation
that already builds it finishes. Returns nil pending after the wait, so the
caller looks in to the cache again.
*/
func (t *registry) acquire(name string, c *creation) (*pending, error) {

	t.mu.Lock()

	if t.closed {
		t.mu.Unlock()
		return nil, errors.Errorf("registry is closed, can not get bean '%s'", name)
	}
	if _, ok := t.singletons.Load(name); ok {
		t.mu.Unlock()
		return nil, nil
	}

	p, ok := t.pending[name]
	if !ok {
		p = &pending{owner: c, done: make(chan struct{})}
		t.pending[name] = p
		t.mu.Unlock()
		return p, nil
	}

	if p.owner == c {
		t.mu.Unlock()
		return nil, c.cycle(c.indexOfName(name), name)
	}
	if p.waitsFor(c) {
		t.mu.Unlock()
		return nil, c.cycle(0, name)
	}

	c.waiting = p
	t.mu.Unlock()

	<-p.done

	t.mu.Lock()
	c.waiting = nil
	t.mu.Unlock()
	return nil, nil
}

/**
Publishes the created bean and wakes up waiting creations, nil bean on failure
*/
func (t *registry) finish(name string, p *pending, b *bean) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, name)
	close(p.done)
	if b == nil {
		return nil
	}
	if t.closed {
		return errors.Errorf("registry closed during creation of bean '%s'", name)
	}
	t.singletons.Store(name, b)
	t.created = append(t.created, b)
	return nil
}

func (t *registry) createBean(d *Descriptor, c *creation, p *pending) (interface{}, error) {

	start := time.Now()
	t.log.Debug(indent(c.depth())+"Create", beanField(d))

	b, err := t.constructBean(d, c)
	if err == nil {
		err = t.initBean(b, c)
	}

	if err != nil {
		t.finish(d.Name, p, nil)
		t.log.Debug(indent(c.depth())+"Failed", beanField(d), zap.Error(err))
		return nil, err
	}

	if err := t.finish(d.Name, p, b); err != nil {
		return nil, err
	}
	t.metrics.observeCreated(time.Since(start))
	return b.obj, nil
}

func (t *registry) constructBean(d *Descriptor, c *creation) (*bean, error) {
	var obj interface{}
	var err error
	if d.IsFactory() {
		obj, err = t.createFromFactory(d, c)
	} else {
		obj, err = t.createFromConstructor(d, c)
	}
	if err != nil {
		return nil, err
	}
	return &bean{
		name:       d.Name,
		obj:        obj,
		descriptor: d,
		lifecycle:  BeanCreated,
	}, nil
}

func (t *registry) initBean(b *bean, c *creation) error {
	hook, err := postConstruct(b.obj, b.descriptor.Class)
	if hook != "" {
		t.log.Debug(indent(c.depth())+"PostConstruct", recordField(b), zap.String("method", hook))
	}
	if err != nil {
		if _, invalid := err.(*InvalidLifecycleMethodError); invalid {
			return err
		}
		return &BeanCreationError{Name: b.name, Err: errors.Wrapf(err, "post construct '%s'", hook)}
	}
	b.lifecycle = BeanInitialized
	return nil
}

func (t *registry) Names() []string {
	return t.descriptors.names()
}

func (t *registry) Instances() []interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	list := make([]interface{}, len(t.created))
	for i, b := range t.created {
		list[i] = b.obj
	}
	return list
}

// destroy in reverse creation order
func (t *registry) Close() (err error) {

	t.closeOnce.Do(func() {

		t.mu.Lock()
		list := t.created
		t.created = nil
		t.closed = true
		for _, b := range list {
			t.singletons.Delete(b.name)
		}
		t.mu.Unlock()

		for j := len(list) - 1; j >= 0; j-- {
			if e := t.destroyBean(list[j]); e != nil {
				t.log.Warn("Destroy failed", recordField(list[j]), zap.Error(e))
				err = multierr.Append(err, e)
			}
		}
	})

	return
}

func (t *registry) destroyBean(b *bean) error {
	b.lifecycle = BeanDestroying
	hook, err := preDestroy(b.obj, b.descriptor.Class)
	if hook != "" {
		t.log.Debug("PreDestroy", recordField(b), zap.String("method", hook))
	}
	if err != nil {
		return errors.Wrapf(err, "destroy bean '%s' by '%s'", b.name, hook)
	}
	b.lifecycle = BeanDestroyed
	return nil
}

func (t *registry) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fmt.Sprintf("Registry [descriptors=%d, singletons=%d, pending=%d, closed=%v]", t.descriptors.len(), len(t.created), len(t.pending), t.closed)
}
