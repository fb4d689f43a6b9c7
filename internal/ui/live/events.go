package live

import (
	"time"

	"codebrush/internal/reconcile"
)

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventSessionStart announces the question and its test cases.
	EventSessionStart EventKind = iota
	// EventRunStart signals that a test run was requested.
	EventRunStart
	// EventRunResult delivers a reconciled run.
	EventRunResult
	// EventRunError reports a run that produced no results.
	EventRunError
	// EventSaved reports that progress was written.
	EventSaved
	// EventEnd closes the UI.
	EventEnd
)

// Case is a test case shown before any run.
type Case struct {
	ID          string
	Description string
}

// Event carries a UI update payload.
type Event struct {
	Kind       EventKind
	At         time.Time
	QuestionID string
	Title      string
	Cases      []Case
	Report     reconcile.Report
	Err        error
	Message    string
}
