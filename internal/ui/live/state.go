package live

import "time"

// CaseStatus is the display state of one test case.
type CaseStatus string

const (
	CasePending CaseStatus = "pending"
	CaseRunning CaseStatus = "running"
	CasePassed  CaseStatus = "passed"
	CaseFailed  CaseStatus = "failed"
	CaseNotRun  CaseStatus = "not run"
)

// CaseRow holds UI state for a single test case.
type CaseRow struct {
	ID          string
	Description string
	Status      CaseStatus
	Detail      string
}

// StatusCounts aggregates rows by status.
type StatusCounts struct {
	Pending int
	Running int
	Passed  int
	Failed  int
	NotRun  int
}

// State captures the live UI state for a practice session.
type State struct {
	QuestionID   string
	Title        string
	Running      bool
	Runs         int
	RunStartedAt time.Time
	LastDuration time.Duration
	Headline     string
	Error        string
	LastEvent    string
	Rows         []CaseRow
	Counts       StatusCounts
}
