package testutil

import (
	"testing"
	"time"
)

// Eventually checks cond every interval and fails the test with msg when
// it is still false after timeout.
func Eventually(t testing.TB, timeout, interval time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			if msg == "" {
				msg = "condition not met within " + timeout.String()
			}
			t.Fatal(msg)
		}
		time.Sleep(interval)
	}
}
