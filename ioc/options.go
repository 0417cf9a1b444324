package ioc

import (
	"io"
	"log/slog"
)

type options struct {
	logger        *slog.Logger
	metrics       *Metrics
	allowOverride bool
}

// Option configures a Container.
type Option func(*options)

// WithLogger sets the logger used for registration and synthesis events.
// Events are logged at debug level. Without it, or with a nil l, the
// container is silent.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records registrations and resolutions on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithOverride lets a later registration replace an earlier one for the same
// service instead of failing with ErrDuplicateRegistration.
func WithOverride() Option {
	return func(o *options) { o.allowOverride = true }
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
