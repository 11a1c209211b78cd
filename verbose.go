/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans

import (
	"go.uber.org/zap"
	"strings"
)

/**
Default logger of new registries, no-op if nil
*/
var verbose *zap.Logger

/**
Use this function to operate verbose logging of registries created after the call.
Registry option WithLogger has priority.
*/

func Verbose(log *zap.Logger) (prev *zap.Logger) {
	prev, verbose = verbose, log
	return
}

func defaultLogger() *zap.Logger {
	if verbose != nil {
		return verbose
	}
	return zap.NewNop()
}

func indent(n int) string {
	return strings.Repeat("  ", n)
}

func beanField(d *Descriptor) zap.Field {
	return zap.Stringer("bean", d)
}

func ctorField(ctor *Constructor) zap.Field {
	return zap.Stringer("constructor", ctor)
}

/**
Bean record with its lifecycle at the moment of logging
*/
func recordField(b *bean) zap.Field {
	return zap.String("bean", b.String())
}
