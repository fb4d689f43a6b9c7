// Package progress persists per-question practice progress on the learner's machine.
package progress

import (
	"context"
	"errors"
	"time"
)

// ErrMissingQuestionID reports a record without a question ID.
var ErrMissingQuestionID = errors.New("progress: question id is required")

// Progress is the saved state of one question.
type Progress struct {
	QuestionID      string        `json:"questionId"`
	Completed       bool          `json:"completed"`
	TimeSpent       time.Duration `json:"-"`
	LastAttempt     time.Time     `json:"lastAttemptDate"`
	PassedTestCases []string      `json:"passedTestCases"`
}

// TimeSpentMs returns the time spent in whole milliseconds.
func (p Progress) TimeSpentMs() int64 {
	return p.TimeSpent.Milliseconds()
}

// Attempt records one test run for a question.
type Attempt struct {
	ID         string
	QuestionID string
	Passed     int
	Total      int
	Success    bool
	ErrorKind  string
	Duration   time.Duration
	At         time.Time
}

// Store reads and writes progress records.
type Store interface {
	// Save inserts or replaces the record for p.QuestionID.
	Save(ctx context.Context, p Progress) error
	// Get returns the record for questionID, or nil when none is saved.
	Get(ctx context.Context, questionID string) (*Progress, error)
	// List returns all records in first-saved order.
	List(ctx context.Context) ([]Progress, error)
	Clear(ctx context.Context, questionID string) error
	ClearAll(ctx context.Context) error
	// RecordAttempt stores a run, assigning an ID and timestamp when missing.
	RecordAttempt(ctx context.Context, a Attempt) (Attempt, error)
	// Attempts returns runs for questionID, oldest first.
	Attempts(ctx context.Context, questionID string) ([]Attempt, error)
	Close() error
}

func normalize(p Progress) (Progress, error) {
	if p.QuestionID == "" {
		return Progress{}, ErrMissingQuestionID
	}
	if p.TimeSpent < 0 {
		p.TimeSpent = 0
	}
	passed := make([]string, 0, len(p.PassedTestCases))
	seen := make(map[string]struct{}, len(p.PassedTestCases))
	for _, id := range p.PassedTestCases {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		passed = append(passed, id)
	}
	p.PassedTestCases = passed
	if !p.LastAttempt.IsZero() {
		p.LastAttempt = p.LastAttempt.UTC().Truncate(time.Microsecond)
	}
	return p, nil
}
