package application

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry initializes Sentry error reporting. A missing DSN disables
// reporting and is not an error; self-hosted deployments run without it.
func InitSentry(dsn string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}
