package live

import (
	"errors"
	"strings"
	"testing"
	"time"

	"codebrush/internal/reconcile"
	"codebrush/internal/testutil"
)

// TestReduceRunLifecycle verifies rows move from pending through running to results.
func TestReduceRunLifecycle(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		start := time.Now()
		state := Reduce(State{}, sessionStart())
		if state.Counts.Pending != 3 {
			t.Fatalf("expected 3 pending rows, got %+v", state.Counts)
		}
		state = Reduce(state, Event{Kind: EventRunStart, At: start})
		if !state.Running || state.Counts.Running != 3 {
			t.Fatalf("expected running rows, got %+v", state.Counts)
		}
		state = Reduce(state, Event{Kind: EventRunResult, At: start.Add(1500 * time.Millisecond), Report: report()})

		if state.Running {
			t.Fatalf("expected run to be finished")
		}
		if state.LastDuration != 1500*time.Millisecond {
			t.Fatalf("unexpected duration %s", state.LastDuration)
		}
		want := []CaseStatus{CasePassed, CaseFailed, CaseNotRun}
		for i, status := range want {
			if state.Rows[i].Status != status {
				t.Fatalf("row %d: expected %s, got %s", i, status, state.Rows[i].Status)
			}
		}
		if state.Rows[1].Detail != "Expected: \"1\"" {
			t.Fatalf("expected failure detail, got %q", state.Rows[1].Detail)
		}
		if state.Headline != "1/3 tests passing" {
			t.Fatalf("unexpected headline %q", state.Headline)
		}
		if state.Runs != 1 {
			t.Fatalf("expected one run, got %d", state.Runs)
		}
	})
}

// TestReduceRunError verifies network errors reset rows without results.
func TestReduceRunError(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := Reduce(State{}, sessionStart())
		state = Reduce(state, Event{Kind: EventRunStart, At: time.Now()})
		state = Reduce(state, Event{Kind: EventRunError, Err: errors.New("connection refused")})
		if state.Error != "connection refused" {
			t.Fatalf("expected error to be recorded, got %q", state.Error)
		}
		if state.Counts.Pending != 3 || state.Headline != "" {
			t.Fatalf("expected rows reset to pending, got %+v %q", state.Counts, state.Headline)
		}
		state = Reduce(state, Event{Kind: EventRunStart, At: time.Now()})
		if state.Error != "" {
			t.Fatalf("expected error cleared on new run")
		}
	})
}

// TestReduceResultWithoutSession verifies rows are built from the report.
func TestReduceResultWithoutSession(t *testing.T) {
	state := Reduce(State{}, Event{Kind: EventRunResult, Report: report()})
	if len(state.Rows) != 3 || state.Rows[0].ID != "q1t1" {
		t.Fatalf("expected rows from report, got %+v", state.Rows)
	}
	if state.Counts.Passed != 1 || state.Counts.Failed != 1 || state.Counts.NotRun != 1 {
		t.Fatalf("unexpected counts %+v", state.Counts)
	}
}

// TestReduceFallbackEvent verifies the last event names fallback runs.
func TestReduceFallbackEvent(t *testing.T) {
	fallback := reconcile.Report{
		Fallback: true,
		Success:  true,
		Entries:  []reconcile.Entry{{ID: "q1t1", Passed: true, Executed: true}},
	}
	state := Reduce(Reduce(State{}, sessionStart()), Event{Kind: EventRunResult, Report: fallback})
	if !strings.Contains(state.LastEvent, "process succeeded") {
		t.Fatalf("unexpected last event %q", state.LastEvent)
	}
	if state.Rows[1].Status != CasePending {
		t.Fatalf("expected unmatched row to stay pending, got %s", state.Rows[1].Status)
	}
}

// TestViewRendersRows verifies the plain view includes rows and details.
func TestViewRendersRows(t *testing.T) {
	model := NewModel(nil, Options{NoColor: true})
	model = applyEvent(model, sessionStart())
	model = applyEvent(model, Event{Kind: EventRunResult, Report: report()})
	view := model.View()
	for _, want := range []string{"Question q1 | Counter", "✓ passed", "✕ failed", "1/3 tests passing", "    Expected: \"1\""} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, view)
		}
	}
}

// TestControllerSendAfterClose verifies late events are dropped.
func TestControllerSendAfterClose(t *testing.T) {
	c := &Controller{events: make(chan Event, 1), done: make(chan struct{}), now: time.Now}
	c.Close()
	c.OnRunStart()
	c.Close()
	var nilController *Controller
	nilController.OnRunStart()
	nilController.Wait()
}

func sessionStart() Event {
	return Event{
		Kind:       EventSessionStart,
		QuestionID: "q1",
		Title:      "Counter",
		Cases: []Case{
			{ID: "q1t1", Description: "renders zero"},
			{ID: "q1t2", Description: "increments"},
			{ID: "q1t3", Description: "decrements"},
		},
	}
}

func report() reconcile.Report {
	return reconcile.Report{
		QuestionID: "q1",
		Entries: []reconcile.Entry{
			{ID: "q1t1", Description: "renders zero", Passed: true, Executed: true, Records: 1},
			{ID: "q1t2", Description: "increments", Executed: true, Records: 1, Explanation: "Expected: \"1\""},
			{ID: "q1t3", Description: "decrements", Explanation: reconcile.NotExecuted},
		},
	}
}

// runWithTimeout executes a test body with a timeout.
func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	ctx := testutil.Context(t, timeout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timed out")
	}
}
