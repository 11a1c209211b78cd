/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans_test

import (
	"github.com/codeallergy/beans"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"testing"
)

func TestVerbose(t *testing.T) {

	core, logs := observer.New(zapcore.DebugLevel)

	prev := beans.Verbose(zap.New(core))
	defer beans.Verbose(prev)

	cnt := &counters{}
	reg := newDemoRegistry(t, cnt)

	require.Equal(t, 4, logs.FilterMessage("Register").Len())

	_, err := reg.Bean("orderController")
	require.NoError(t, err)
	require.Equal(t, 4, logs.FilterMessage("Create").Len())

	restored := beans.Verbose(prev)
	require.NotNil(t, restored)

}

func TestWithLogger(t *testing.T) {

	core, logs := observer.New(zapcore.DebugLevel)

	var events []string
	reg, err := beans.New(
		beans.WithLogger(zap.New(core)),
		beans.WithDescriptors(
			beans.Component(hooksClass(&events, beans.WithPostConstruct("Start"), beans.WithPreDestroy("Shutdown"))),
		))
	require.NoError(t, err)

	_, err = reg.Bean("namedHooks")
	require.NoError(t, err)

	hooks := logs.FilterMessage("PostConstruct").All()
	require.Len(t, hooks, 1)
	require.Equal(t, "<Bean namedHooks *beans_test.namedHooks>(BeanCreated)", hooks[0].ContextMap()["bean"])

	// same name again
	require.NoError(t, reg.Register(beans.Component(hooksClass(&events))))
	require.Equal(t, 1, logs.FilterMessage("Replace").Len())

	require.Error(t, reg.Close())

	failed := logs.FilterMessage("Destroy failed")
	require.Equal(t, 1, failed.Len())
	require.Equal(t, zapcore.WarnLevel, failed.All()[0].Level)
	require.Equal(t, "<Bean namedHooks *beans_test.namedHooks>(BeanDestroying)", failed.All()[0].ContextMap()["bean"])

	// closed once
	require.NoError(t, reg.Close())
	require.Equal(t, 1, logs.FilterMessage("Destroy failed").Len())

	_, err = beans.New(beans.WithLogger(nil))
	require.Error(t, err)

}
