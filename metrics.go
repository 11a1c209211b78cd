/*
 * Copyright (c) 2023 Zander Schwid & Co. LLC.
 * SPDX-License-Identifier: BUSL-1.1
 */

package beans

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"time"
)

const (
	reasonNoSuchBean      = "no_such_bean"
	reasonAmbiguous       = "ambiguous_bean"
	reasonNoConstructor   = "no_suitable_constructor"
	reasonCircular        = "circular_dependency"
	reasonLifecycleMethod = "invalid_lifecycle_method"
	reasonCreation        = "creation_failed"
)

/**
Creation metrics, nil value does nothing
*/
type metrics struct {
	created  prometheus.Counter
	failures *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, errors.New("nil metrics registerer")
	}
	m := &metrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beans_created_total",
			Help: "Number of created singleton beans.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beans_creation_failures_total",
			Help: "Number of failed top-level bean requests by reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "beans_creation_duration_seconds",
			Help:    "Time to create bean including its dependencies.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	for _, c := range []prometheus.Collector{m.created, m.failures, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register beans metrics")
		}
	}
	return m, nil
}

func (m *metrics) observeCreated(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.created.Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *metrics) observeFailure(err error) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(failureReason(err)).Inc()
}

/**
The most specific reason found in the error chain
*/
func failureReason(err error) string {
	var (
		cycle     *CircularDependencyError
		noBean    *NoSuchBeanError
		ambiguous *AmbiguousBeanError
		noCtor    *NoSuitableConstructorError
		hook      *InvalidLifecycleMethodError
	)
	switch {
	case errors.As(err, &cycle):
		return reasonCircular
	case errors.As(err, &noBean):
		return reasonNoSuchBean
	case errors.As(err, &ambiguous):
		return reasonAmbiguous
	case errors.As(err, &noCtor):
		return reasonNoConstructor
	case errors.As(err, &hook):
		return reasonLifecycleMethod
	default:
		return reasonCreation
	}
}
