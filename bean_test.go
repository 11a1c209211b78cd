/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans_test

import (
	"github.com/codeallergy/beans"
	"github.com/stretchr/testify/require"
	"reflect"
	"testing"
)

func TestBeanName(t *testing.T) {

	require.Equal(t, "userService", beans.BeanName(reflect.TypeOf((*UserService)(nil))))
	require.Equal(t, "userService", beans.BeanName(reflect.TypeOf(UserService{})))
	require.Equal(t, "messageService", beans.BeanName(MessageServiceClass))
	require.Equal(t, "registry", beans.BeanName(beans.RegistryClass))
	require.Equal(t, "databaseConnection", beans.BeanName(reflect.TypeOf((**DatabaseConnection)(nil))))

}

func TestComponent(t *testing.T) {

	d := beans.Component(beans.MustClass((*OrderController)(nil)))
	require.Equal(t, "orderController", d.Name)
	require.False(t, d.IsFactory())
	require.Equal(t, "<Bean orderController *beans_test.OrderController>", d.String())

	list, err := beans.Configuration("", testConfigClass, "UserDao")
	require.NoError(t, err)
	require.Equal(t, "<Bean userDao *beans_test.UserDao by testConfig.UserDao>", list[1].String())

}

func TestClassImplements(t *testing.T) {

	email := beans.MustClass((*EmailMessageService)(nil))
	require.Equal(t, "EmailMessageService", email.Name())
	require.True(t, email.Implements(reflect.TypeOf((*EmailMessageService)(nil))))
	require.True(t, email.Implements(MessageServiceClass))
	require.False(t, email.Implements(reflect.TypeOf((*SmsMessageService)(nil))))
	require.False(t, email.Implements(beans.DisposableBeanClass))

	server := beans.MustClass((*beanServer)(nil))
	require.True(t, server.Implements(beans.InitializingBeanClass))
	require.True(t, server.Implements(beans.DisposableBeanClass))

}

func TestMessageServiceByInterface(t *testing.T) {

	reg, err := beans.New(beans.WithDescriptors(
		beans.Component(beans.MustClass((*EmailMessageService)(nil))),
		beans.Component(beans.MustClass((*UserRepository)(nil))),
	))
	require.NoError(t, err)
	defer reg.Close()

	service, err := beans.GetOf[MessageService](reg)
	require.NoError(t, err)
	require.Equal(t, "email to bob", service.Send("bob"))

	obj, err := reg.BeanOf(reflect.TypeOf((*EmailMessageService)(nil)))
	require.NoError(t, err)
	require.True(t, obj == service)

	_, err = reg.BeanOf(nil)
	require.Error(t, err)

	_, err = beans.Get[*UserService](reg, "emailMessageService")
	require.Error(t, err)
	require.Contains(t, err.Error(), "*beans_test.EmailMessageService")

}
