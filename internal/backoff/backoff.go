// SPDX-License-Identifier: Apache-2.0

// Package backoff wraps the cenkalti backoff policies used to retry search
// store requests.
package backoff

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Backoff interface {
	RetryNotify(Operation, Notify) error
}

type (
	Operation func() error
	Notify    func(error, time.Duration)
)

// Config selects the retry policy. When neither policy is set requests are
// not retried.
type Config struct {
	Exponential *ExponentialConfig `mapstructure:"exponential"`
	Constant    *ConstantConfig    `mapstructure:"constant"`
}

type ExponentialConfig struct {
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	// MaxInterval is the maximum elapsed time across all the retries.
	MaxInterval time.Duration `mapstructure:"max_interval"`
	MaxRetries  uint          `mapstructure:"max_retries"`
}

type ConstantConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	MaxRetries uint          `mapstructure:"max_retries"`
}

// ErrPermanent stops the retries when wrapped by an operation error.
var ErrPermanent = errors.New("permanent error, do not retry")

type Provider func(ctx context.Context) Backoff

// NewProvider returns a backoff provider based on the config on input. If no
// policy is configured, a no retry backoff provider is returned instead.
func NewProvider(cfg *Config) Provider {
	switch {
	case cfg == nil:
		return func(context.Context) Backoff { return NewStopBackoff() }
	case cfg.Constant != nil:
		return func(ctx context.Context) Backoff {
			return NewConstantBackoff(ctx, cfg.Constant)
		}
	case cfg.Exponential != nil:
		return func(ctx context.Context) Backoff {
			return NewExponentialBackoff(ctx, cfg.Exponential)
		}
	default:
		return func(context.Context) Backoff { return NewStopBackoff() }
	}
}

// policy adapts a cenkalti backoff to the Backoff interface.
type policy struct {
	backoff.BackOff
}

func (p *policy) RetryNotify(op Operation, notify Notify) error {
	boOp := func() error {
		err := op()
		if errors.Is(err, ErrPermanent) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.RetryNotify(boOp, p.BackOff, backoff.Notify(notify))
}

func NewExponentialBackoff(ctx context.Context, cfg *ExponentialConfig) Backoff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.InitialInterval
	exp.MaxElapsedTime = cfg.MaxInterval
	return withLimits(ctx, exp, cfg.MaxRetries)
}

func NewConstantBackoff(ctx context.Context, cfg *ConstantConfig) Backoff {
	return withLimits(ctx, backoff.NewConstantBackOff(cfg.Interval), cfg.MaxRetries)
}

func NewStopBackoff() Backoff {
	return &policy{BackOff: &backoff.StopBackOff{}}
}

func withLimits(ctx context.Context, bo backoff.BackOff, maxRetries uint) Backoff {
	if maxRetries > 0 {
		bo = backoff.WithMaxRetries(bo, uint64(maxRetries))
	}
	return &policy{BackOff: backoff.WithContext(bo, ctx)}
}
