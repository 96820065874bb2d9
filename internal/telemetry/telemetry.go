// Package telemetry wires structured logging and optional crash reporting.
// Components are tagged by name (e.g. "pageflip", "server") the way a
// bracketed log prefix would be, but backed by go.uber.org/zap's Named
// loggers instead of string prefixes, plus an optional Sentry hub for
// fatal backend construction failures.
package telemetry

import (
	"os"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// NewLogger builds the process-wide base logger. Production builds use
// zap's JSON production config; QAD_DEV_LOG=1 switches to the readable
// development console encoder, for readable output during local iteration.
func NewLogger() (*zap.Logger, error) {
	if os.Getenv("QAD_DEV_LOG") != "" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Component returns a logger tagged with name, a structured stand-in for a
// bracketed log prefix.
func Component(base *zap.Logger, name string) *zap.Logger {
	return base.Named(name)
}

// Reporter wraps an optional Sentry hub. It is always safe to call: when
// QAD_SENTRY_DSN is unset, every method is a no-op.
type Reporter struct {
	enabled bool
}

// NewReporter initializes Sentry from QAD_SENTRY_DSN if set. Initialization
// failure degrades to a disabled reporter rather than a fatal error. Crash
// reporting is diagnostics, not a load-bearing dependency.
func NewReporter(log *zap.Logger) *Reporter {
	dsn := os.Getenv("QAD_SENTRY_DSN")
	if dsn == "" {
		return &Reporter{enabled: false}
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
		log.Warn("sentry init failed, crash reporting disabled", zap.Error(err))
		return &Reporter{enabled: false}
	}
	return &Reporter{enabled: true}
}

// ReportFatal reports a fatal backend construction failure (DeviceUnavailable
// per spec §4.K). No-op when the reporter is disabled.
func (r *Reporter) ReportFatal(err error) {
	if r == nil || !r.enabled {
		return
	}
	sentry.CaptureException(err)
}

// Flush blocks briefly to let any queued Sentry events send before exit.
func (r *Reporter) Flush() {
	if r == nil || !r.enabled {
		return
	}
	sentry.Flush(2000000000)
}
