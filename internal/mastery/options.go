package mastery

import (
	"log/slog"
	"time"
)

type options struct {
	locks  *RecordLocks
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Tracker or Propagator.
type Option func(*options)

// WithLocks shares a record lock table with other writers (the decay pass).
func WithLocks(l *RecordLocks) Option {
	return func(o *options) { o.locks = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.locks == nil {
		o.locks = NewRecordLocks()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
