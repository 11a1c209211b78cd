/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans_test

import (
	"github.com/codeallergy/beans"
	"github.com/stretchr/testify/require"
	"reflect"
	"sync/atomic"
	"testing"
)

type UserRepository struct {
	id int64
}

type UserService struct {
	Repository *UserRepository
}

type NotificationService struct {
	UserService *UserService
}

type OrderController struct {
	UserService         *UserService
	NotificationService *NotificationService
}

/**
Counts created instances of demo classes
*/
type counters struct {
	repository   int64
	service      int64
	notification int64
	controller   int64
}

func (t *counters) total() int64 {
	return atomic.LoadInt64(&t.repository) + atomic.LoadInt64(&t.service) + atomic.LoadInt64(&t.notification) + atomic.LoadInt64(&t.controller)
}

func (t *counters) descriptors() []*beans.Descriptor {
	return []*beans.Descriptor{
		beans.Component(beans.MustClass((*UserRepository)(nil), beans.WithConstructor(func() *UserRepository {
			return &UserRepository{id: atomic.AddInt64(&t.repository, 1)}
		}))),
		beans.Component(beans.MustClass((*UserService)(nil), beans.WithConstructor(func(repo *UserRepository) *UserService {
			atomic.AddInt64(&t.service, 1)
			return &UserService{Repository: repo}
		}))),
		beans.Component(beans.MustClass((*NotificationService)(nil), beans.WithConstructor(func(service *UserService) *NotificationService {
			atomic.AddInt64(&t.notification, 1)
			return &NotificationService{UserService: service}
		}))),
		beans.Component(beans.MustClass((*OrderController)(nil), beans.WithConstructor(func(service *UserService, notification *NotificationService) (*OrderController, error) {
			atomic.AddInt64(&t.controller, 1)
			return &OrderController{UserService: service, NotificationService: notification}, nil
		}))),
	}
}

func newDemoRegistry(t *testing.T, cnt *counters, options ...beans.Option) beans.Registry {
	options = append(options, beans.WithDescriptors(cnt.descriptors()...))
	reg, err := beans.New(options...)
	require.NoError(t, err)
	t.Cleanup(func() {
		reg.Close()
	})
	return reg
}

var MessageServiceClass = reflect.TypeOf((*MessageService)(nil)).Elem()

type MessageService interface {
	Send(to string) string
}

type EmailMessageService struct {
}

func (t *EmailMessageService) Send(to string) string {
	return "email to " + to
}

type SmsMessageService struct {
}

func (t *SmsMessageService) Send(to string) string {
	return "sms to " + to
}
