package services

import (
	"log/slog"
	"time"
)

// base carries the collaborators every service shares.
type base struct {
	policy ErrorPolicy
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*base)

func WithErrorPolicy(p ErrorPolicy) Option {
	return func(b *base) { b.policy = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *base) { b.logger = l }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

func newBase(opts []Option) base {
	b := base{
		policy: DefaultErrorPolicy(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
