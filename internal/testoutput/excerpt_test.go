package testoutput

import (
	"strings"
	"testing"
)

// TestExtractFailurePrefersNamedBlock verifies the block mentioning the ID is used.
func TestExtractFailurePrefersNamedBlock(t *testing.T) {
	excerpt, ok := ExtractFailure(jestOutput, "q1t4")
	if !ok {
		t.Fatalf("expected excerpt for q1t4")
	}
	want := "TestingLibraryElementError: Unable to find an element with the text: -\n" +
		"Tests:       2 failed, 2 passed, 4 total"
	if excerpt != want {
		t.Fatalf("unexpected excerpt: %q", excerpt)
	}
}

// TestExtractFailureSkipsStackFrames verifies stack frames and blanks are dropped.
func TestExtractFailureSkipsStackFrames(t *testing.T) {
	excerpt, ok := ExtractFailure(jestOutput, "q1t2")
	if !ok {
		t.Fatalf("expected excerpt for q1t2")
	}
	want := strings.Join([]string{
		"expect(received).toBe(expected) // Object.is equality",
		`Expected: "0"`,
		`Received: "1"`,
	}, "\n")
	if excerpt != want {
		t.Fatalf("unexpected excerpt:\n%s\nwant:\n%s", excerpt, want)
	}
}

// TestExtractFailureFallsBackToNextBlock verifies an unnamed block is used.
func TestExtractFailureFallsBackToNextBlock(t *testing.T) {
	output := "✕ [t9] breaks\n\n● suite › breaks\n\nboom\n"
	excerpt, ok := ExtractFailure(output, "t9")
	if !ok || excerpt != "boom" {
		t.Fatalf("expected boom, got %q (ok=%v)", excerpt, ok)
	}
}

// TestExtractFailureCapsLines verifies at most five lines are collected.
func TestExtractFailureCapsLines(t *testing.T) {
	output := "✕ [t1] x\n● t1\nl1\nl2\nat frame\nl3\nl4\nl5\nl6\n"
	excerpt, ok := ExtractFailure(output, "t1")
	if !ok {
		t.Fatalf("expected excerpt")
	}
	if excerpt != "l1\nl2\nl3\nl4\nl5" {
		t.Fatalf("unexpected excerpt: %q", excerpt)
	}
}

// TestExtractFailureStopsAtResultLine verifies collection stops at the next marker.
func TestExtractFailureStopsAtResultLine(t *testing.T) {
	output := "✕ [t1] x\n● t1\nfirst\n✓ [t2] y\nsecond\n"
	excerpt, ok := ExtractFailure(output, "t1")
	if !ok || excerpt != "first" {
		t.Fatalf("expected first, got %q (ok=%v)", excerpt, ok)
	}
}

// TestExtractFailureMissing verifies the fallback paths.
func TestExtractFailureMissing(t *testing.T) {
	cases := []struct {
		name   string
		output string
		id     string
	}{
		{name: "no fail line", output: "✓ [t1] ok\n● t1\nboom\n", id: "t1"},
		{name: "no error block", output: "✕ [t1] broken\nTests: 1 failed\n", id: "t1"},
		{name: "empty block", output: "✕ [t1] broken\n● t1\n\n   \n", id: "t1"},
		{name: "unknown id", output: jestOutput, id: "q9t9"},
		{name: "empty id", output: jestOutput, id: ""},
	}
	for _, tc := range cases {
		if excerpt, ok := ExtractFailure(tc.output, tc.id); ok {
			t.Fatalf("%s: expected no excerpt, got %q", tc.name, excerpt)
		}
		if msg := DefaultGrammar().FailureMessage(tc.output, tc.id); msg != FailedFallback {
			t.Fatalf("%s: expected fallback message, got %q", tc.name, msg)
		}
	}
}

// TestExtractFailureSkipsOtherTestsBlocks verifies each ID gets its own block when blocks trail the result lines.
func TestExtractFailureSkipsOtherTestsBlocks(t *testing.T) {
	output := "✕ [q1t1] a\n✕ [q1t2] b\n● [q1t1]\nerr one\n● [q1t2]\nerr two\n"
	for id, want := range map[string]string{"q1t1": "err one", "q1t2": "err two"} {
		excerpt, ok := ExtractFailure(output, id)
		if !ok || excerpt != want {
			t.Fatalf("%s: expected %q, got %q (ok=%v)", id, want, excerpt, ok)
		}
	}
}
