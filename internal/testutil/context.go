package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds helpers that are given no explicit timeout.
const DefaultTimeout = 5 * time.Second

// Context returns a context cancelled when the test ends or timeout passes.
// The timeout is shortened to leave a second before the go test deadline.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), budget(t, timeout))
	t.Cleanup(cancel)
	return ctx
}

func budget(t testing.TB, timeout time.Duration) time.Duration {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d, ok := t.(interface{ Deadline() (time.Time, bool) })
	if !ok {
		return timeout
	}
	deadline, ok := d.Deadline()
	if !ok {
		return timeout
	}
	if left := time.Until(deadline) - time.Second; left > 0 && left < timeout {
		return left
	}
	return timeout
}
