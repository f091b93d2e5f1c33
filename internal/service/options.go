package service

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"compliancedocs/internal/metrics"
)

var tracer trace.Tracer = otel.Tracer("compliancedocs/internal/service")

type options struct {
	now            func() time.Time
	log            *slog.Logger
	metrics        *metrics.Metrics
	presignTTL     time.Duration
	maxUploadBytes int64
}

// Option configures a service.
type Option func(*options)

// WithClock replaces time.Now. Derived statuses are computed against this clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithPresignTTL sets how long download URLs stay valid.
func WithPresignTTL(d time.Duration) Option {
	return func(o *options) { o.presignTTL = d }
}

// WithMaxUploadBytes rejects larger uploads. Zero disables the check.
func WithMaxUploadBytes(n int64) Option {
	return func(o *options) { o.maxUploadBytes = n }
}

func buildOptions(opts []Option) options {
	o := options{
		now:        time.Now,
		log:        slog.Default(),
		presignTTL: 15 * time.Minute,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
