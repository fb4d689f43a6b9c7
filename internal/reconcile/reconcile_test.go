package reconcile

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"codebrush/internal/question"
	"codebrush/internal/testoutput"
	"codebrush/pkg/testrun"
)

var q1Cases = []question.TestCase{
	{ID: "q1t1", Description: "Component renders without crashing", ExpectedOutput: true},
	{ID: "q1t2", Description: "Initial count value is 0", ExpectedOutput: true},
	{ID: "q1t3", Description: "Clicking increment button increases count by 1", ExpectedOutput: true},
	{ID: "q1t4", Description: "Clicking decrement button decreases count by 1", ExpectedOutput: true},
}

func outcomeFor(raw string, success bool) testrun.RunOutcome {
	results := testoutput.Parse(raw)
	return testrun.RunOutcome{
		Success:     success,
		TestResults: results,
		Summary:     testoutput.Summarize(results, "q1"),
		RawOutput:   raw,
	}
}

// TestReconcileMixedResults verifies pass, fail, and missing cases.
func TestReconcileMixedResults(t *testing.T) {
	raw := "✓ [q1t1] renders\n✕ [q1t2] initial\n\n● Counter › [q1t2] initial\n\n  Expected: \"0\"\n  Received: \"1\"\n\n    at Object.<anonymous> (x.tsx:1:1)\n✓ [q1t3] increments\n"
	report := Reconcile(q1Cases, outcomeFor(raw, false))

	want := map[string]bool{"q1t1": true, "q1t2": false, "q1t3": true, "q1t4": false}
	if diff := cmp.Diff(want, report.Results); diff != "" {
		t.Fatalf("unexpected results (-want +got):\n%s", diff)
	}
	if report.Fallback {
		t.Fatalf("expected parsed results, not fallback")
	}
	failing := report.Entries[1]
	if failing.Explanation != "Expected: \"0\"\nReceived: \"1\"" || failing.Expected != "true" {
		t.Fatalf("unexpected failing entry: %+v", failing)
	}
	missing := report.Entries[3]
	if missing.Executed || missing.Explanation != NotExecuted {
		t.Fatalf("unexpected missing entry: %+v", missing)
	}
	if report.Headline() != "2/4 tests passing" {
		t.Fatalf("unexpected headline: %q", report.Headline())
	}
	if strings.Join(report.PassedIDs(), ",") != "q1t1,q1t3" {
		t.Fatalf("unexpected passed ids: %v", report.PassedIDs())
	}
}

// TestReconcileFailureWithoutBlock verifies the generic failure text.
func TestReconcileFailureWithoutBlock(t *testing.T) {
	report := Reconcile(q1Cases[:1], outcomeFor("✕ [q1t1] renders\n", false))
	if got := report.Entries[0].Explanation; got != testoutput.FailedFallback {
		t.Fatalf("expected fallback explanation, got %q", got)
	}
}

// TestReconcileEmptyResultsFollowSuccess verifies the no-markers fallback.
func TestReconcileEmptyResultsFollowSuccess(t *testing.T) {
	passed := Reconcile(q1Cases, outcomeFor("all good\n", true))
	if !passed.Fallback || !passed.AllPassed() {
		t.Fatalf("expected every case to pass on success fallback: %+v", passed)
	}
	if passed.Headline() != "All tests passed! (4/4)" {
		t.Fatalf("unexpected headline: %q", passed.Headline())
	}

	failed := Reconcile(q1Cases, outcomeFor("npm ERR! missing script: test\n", false))
	for _, entry := range failed.Entries {
		if entry.Passed || entry.Explanation != testoutput.FailedFallback {
			t.Fatalf("expected failing fallback entry, got %+v", entry)
		}
	}
}

// TestReconcileDuplicatesFailClosed verifies any failing record fails the ID.
func TestReconcileDuplicatesFailClosed(t *testing.T) {
	raw := "✓ [q1t1] first\n✕ [q1t1] second\n✓ [q1t2] once\n✓ [q1t2] twice\n"
	report := Reconcile(q1Cases[:2], outcomeFor(raw, false))
	if report.Results["q1t1"] {
		t.Fatalf("expected q1t1 to fail closed")
	}
	if !report.Results["q1t2"] {
		t.Fatalf("expected q1t2 to pass when every record passed")
	}
	if report.Entries[0].Records != 2 {
		t.Fatalf("expected two records for q1t1, got %d", report.Entries[0].Records)
	}
}

// TestReconcileEveryCaseHasEntry verifies unknown IDs never add entries.
func TestReconcileEveryCaseHasEntry(t *testing.T) {
	raw := "✓ [q9t1] stray\n✓ [q1t1] renders\n✕ [q9t1] again\n✓ [zz] other\n"
	report := Reconcile(q1Cases, outcomeFor(raw, true))
	if len(report.Results) != len(q1Cases) || len(report.Entries) != len(q1Cases) {
		t.Fatalf("expected one entry per case, got %d/%d", len(report.Results), len(report.Entries))
	}
	if diff := cmp.Diff([]string{"q9t1", "zz"}, report.Unknown); diff != "" {
		t.Fatalf("unexpected unknown ids (-want +got):\n%s", diff)
	}
	if report.QuestionID != "q1" {
		t.Fatalf("unexpected question id %q", report.QuestionID)
	}
}

// TestReconcileNoCases verifies an empty case list never reports success.
func TestReconcileNoCases(t *testing.T) {
	report := Reconcile(nil, outcomeFor("", true))
	if report.AllPassed() || len(report.Results) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
