/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures registry on creation.
type Option func(*registry) error

func WithLogger(log *zap.Logger) Option {
	return func(t *registry) error {
		if log == nil {
			return errors.New("nil logger")
		}
		t.log = log
		return nil
	}
}

// WithMetrics registers creation metrics in reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(t *registry) (err error) {
		t.metrics, err = newMetrics(reg)
		return
	}
}

// WithDescriptors registers descriptors, same as Register for each of them.
func WithDescriptors(list ...*Descriptor) Option {
	return func(t *registry) error {
		for _, d := range list {
			if err := t.Register(d); err != nil {
				return err
			}
		}
		return nil
	}
}
