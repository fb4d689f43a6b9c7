// Package reconcile maps parsed test results back onto a question's known test cases.
package reconcile

import (
	"encoding/json"
	"fmt"

	"codebrush/internal/question"
	"codebrush/internal/testoutput"
	"codebrush/pkg/testrun"
)

// NotExecuted explains a known test case that produced no parsed result.
const NotExecuted = "Test was not executed or could not be matched in the test output"

// Entry is the reconciled state of one known test case.
type Entry struct {
	ID          string
	Description string
	Passed      bool
	// Executed is false when the case had no record in the parsed output.
	Executed bool
	// Records counts parsed records for the ID; above one means duplicates.
	Records int
	// Explanation is the failure excerpt or reason; empty for passing cases.
	Explanation string
	Expected    string
}

// Report is the reconciled outcome of one run.
type Report struct {
	QuestionID string
	Results    map[string]bool
	Entries    []Entry
	// Unknown lists parsed IDs that match no known test case, in first-seen order.
	Unknown []string
	// Fallback is true when no results were parsed and every case took the run's success.
	Fallback bool
	Success  bool
}

// Reconcile builds a Report for cases from outcome using the default grammar.
func Reconcile(cases []question.TestCase, outcome testrun.RunOutcome) Report {
	return WithGrammar(testoutput.DefaultGrammar(), cases, outcome)
}

// WithGrammar builds a Report using g to extract failure excerpts.
func WithGrammar(g testoutput.Grammar, cases []question.TestCase, outcome testrun.RunOutcome) Report {
	report := Report{
		QuestionID: outcome.Summary.QuestionID,
		Results:    make(map[string]bool, len(cases)),
		Entries:    make([]Entry, 0, len(cases)),
		Success:    outcome.Success,
		Fallback:   len(outcome.TestResults) == 0,
	}

	type tally struct {
		records int
		allPass bool
	}
	seen := make(map[string]*tally, len(outcome.TestResults))
	for _, result := range outcome.TestResults {
		t, ok := seen[result.ID]
		if !ok {
			t = &tally{allPass: true}
			seen[result.ID] = t
		}
		t.records++
		t.allPass = t.allPass && result.Passed()
	}

	known := make(map[string]struct{}, len(cases))
	for _, tc := range cases {
		known[tc.ID] = struct{}{}
		entry := Entry{ID: tc.ID, Description: tc.Description, Expected: formatExpected(tc.ExpectedOutput)}
		switch t, ok := seen[tc.ID]; {
		case report.Fallback:
			entry.Executed = true
			entry.Passed = outcome.Success
			if !entry.Passed {
				entry.Explanation = testoutput.FailedFallback
			}
		case !ok:
			entry.Explanation = NotExecuted
		default:
			entry.Executed = true
			entry.Records = t.records
			entry.Passed = t.allPass
			if !entry.Passed {
				entry.Explanation = g.FailureMessage(outcome.RawOutput, tc.ID)
			}
		}
		report.Results[tc.ID] = entry.Passed
		report.Entries = append(report.Entries, entry)
	}

	for _, result := range outcome.TestResults {
		if _, ok := known[result.ID]; ok {
			continue
		}
		known[result.ID] = struct{}{}
		report.Unknown = append(report.Unknown, result.ID)
	}
	return report
}

// PassedIDs returns the passing case IDs in case order.
func (r Report) PassedIDs() []string {
	ids := make([]string, 0, len(r.Entries))
	for _, entry := range r.Entries {
		if entry.Passed {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

// PassedCount returns how many known cases passed.
func (r Report) PassedCount() int {
	return len(r.PassedIDs())
}

// AllPassed reports whether every known case passed; an empty report never passes.
func (r Report) AllPassed() bool {
	return len(r.Entries) > 0 && r.PassedCount() == len(r.Entries)
}

// Headline summarizes the report in one line.
func (r Report) Headline() string {
	passed, total := r.PassedCount(), len(r.Entries)
	if r.AllPassed() {
		return fmt.Sprintf("All tests passed! (%d/%d)", passed, total)
	}
	return fmt.Sprintf("%d/%d tests passing", passed, total)
}

func formatExpected(value any) string {
	if value == nil {
		return ""
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}
