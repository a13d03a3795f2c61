package services

import (
	"context"
	"strings"
	"time"

	"github.com/medtrack/bp-monitor/internal/apperrors"
)

const (
	retryAttempts = 3
	retryBaseWait = 50 * time.Millisecond
)

// withRetry runs fn up to retryAttempts times, backing off between attempts
// when the failure looks like storage contention. After the last attempt the
// error surfaces as a transient-store error so the caller knows a retry with
// backoff may still succeed. Non-transient errors pass through untouched.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBaseWait * time.Duration(attempt)):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
	}
	return apperrors.NewTransientStoreError(err)
}

// isTransient recognizes contention and availability failures from the
// supported engines: sqlite busy/locked states and postgres connection
// drops. Anything else is treated as permanent.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"database is locked",
		"database table is locked",
		"sqlite_busy",
		"connection refused",
		"connection reset",
		"too many clients",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
