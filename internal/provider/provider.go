// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

// Package provider carries the resilience wrapper shared by all upstream
// provider clients: retries with exponential backoff behind a per-provider
// circuit breaker, with call counts and latency recorded as metrics.
package provider

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/skyscrub/skyscrub/internal/metrics"
)

const (
	// maxRetries bounds the backoff retries per call.
	maxRetries = 3
	// breakerTimeout is how long an open breaker stays open before probing.
	breakerTimeout = time.Minute
)

// Caller wraps upstream calls of one provider.
type Caller struct {
	name    string
	breaker *gobreaker.CircuitBreaker
}

// NewCaller returns a Caller for the named provider.
func NewCaller(name string) *Caller {
	return &Caller{
		name: name,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     breakerTimeout,
		}),
	}
}

// Call runs fn with retries behind the circuit breaker. The error returned is
// the last retry error, or the breaker's refusal when it is open.
func (c *Caller) Call(ctx context.Context, fn func(ctx context.Context) error) error {
	start := time.Now()
	_, err := c.breaker.Execute(func() (any, error) {
		policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
		return nil, backoff.Retry(func() error {
			return fn(ctx)
		}, policy)
	})

	metrics.ProviderLatency.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ProviderCallsTotal.WithLabelValues(c.name, status).Inc()
	return err
}
