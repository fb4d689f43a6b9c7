// Package session drives one learner's practice on a single question.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"codebrush/internal/progress"
	"codebrush/internal/question"
	"codebrush/internal/reconcile"
	"codebrush/pkg/testrun"
)

// DefaultAutosaveInterval is the practice time between automatic saves.
const DefaultAutosaveInterval = 30 * time.Second

// ErrRunInProgress reports a run started while another is still running.
var ErrRunInProgress = errors.New("a test run is already in progress")

// State is the lifecycle of the session's test runs.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateError   State = "error"
)

// TestRunner requests a test run from the server.
type TestRunner interface {
	RunTests(ctx context.Context, req testrun.RunTestsRequest) (testrun.RunOutcome, error)
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Config wires a Session.
type Config struct {
	Question question.Question
	// Catalog resolves the next question for Skip and Submit; nil means no next question.
	Catalog *question.Catalog
	Store   progress.Store
	Runner  TestRunner
	Clock   Clock
	// AutosaveInterval is the practice time between saves; zero uses DefaultAutosaveInterval.
	AutosaveInterval time.Duration
	Logger           hclog.Logger
}

// Session holds the practice state for one question.
type Session struct {
	question question.Question
	catalog  *question.Catalog
	store    progress.Store
	runner   TestRunner
	clock    Clock
	autosave time.Duration
	logger   hclog.Logger

	mu        sync.Mutex
	state     State
	record    progress.Progress
	report    *reconcile.Report
	outcome   *testrun.RunOutcome
	lastErr   error
	timer     timer
	lastSaved time.Duration
}

// New loads saved progress for cfg.Question, or starts fresh.
func New(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Question.ID == "" {
		return nil, errors.New("session: question is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("session: progress store is required")
	}
	s := &Session{
		question: cfg.Question,
		catalog:  cfg.Catalog,
		store:    cfg.Store,
		runner:   cfg.Runner,
		clock:    cfg.Clock,
		autosave: cfg.AutosaveInterval,
		logger:   cfg.Logger,
		state:    StateIdle,
	}
	if s.clock == nil {
		s.clock = systemClock{}
	}
	if s.autosave <= 0 {
		s.autosave = DefaultAutosaveInterval
	}
	if s.logger == nil {
		s.logger = hclog.NewNullLogger()
	}
	s.logger = s.logger.With("question_id", cfg.Question.ID)

	saved, err := cfg.Store.Get(ctx, cfg.Question.ID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if saved != nil {
		s.record = *saved
	} else {
		s.record = progress.Progress{QuestionID: cfg.Question.ID, PassedTestCases: []string{}}
	}
	s.timer = timer{base: s.record.TimeSpent}
	s.lastSaved = s.record.TimeSpent
	if !s.record.Completed {
		s.timer.start(s.clock.Now())
	}
	return s, nil
}

// Question returns the question being practiced.
func (s *Session) Question() question.Question {
	return s.question
}

// State returns the current run lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Progress returns a snapshot of the record as it would be saved now.
func (s *Session) Progress() progress.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(false)
}

// Report returns the last reconciled run, if any.
func (s *Session) Report() (reconcile.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return reconcile.Report{}, false
	}
	return *s.report, true
}

// Outcome returns the raw outcome of the last successful request, if any.
func (s *Session) Outcome() (testrun.RunOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return testrun.RunOutcome{}, false
	}
	return *s.outcome, true
}

// Err returns the error that put the session into StateError.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Run requests a test run and reconciles the outcome with the question's test cases.
//
// A network failure moves the session to StateError and discards any previous
// report; the run may be retried.
func (s *Session) Run(ctx context.Context) (reconcile.Report, error) {
	if s.runner == nil {
		return reconcile.Report{}, errors.New("session: test runner is required")
	}
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return reconcile.Report{}, ErrRunInProgress
	}
	s.state = StateRunning
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Debug("requesting test run")
	outcome, err := s.runner.RunTests(ctx, testrun.RunTestsRequest{QuestionID: s.question.ID})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.lastErr = err
		s.report = nil
		s.outcome = nil
		s.logger.Warn("test run failed", "error", err)
		return reconcile.Report{}, err
	}

	report := reconcile.Reconcile(s.question.TestCases, outcome)
	s.report = &report
	s.outcome = &outcome
	s.state = StateDone
	s.record.PassedTestCases = report.PassedIDs()
	s.record.LastAttempt = s.clock.Now()
	s.logger.Info("test run reconciled", "passed", report.PassedCount(), "total", len(report.Entries))

	if err := s.saveLocked(ctx); err != nil {
		return report, err
	}
	if _, err := s.store.RecordAttempt(ctx, progress.Attempt{
		QuestionID: s.question.ID,
		Passed:     report.PassedCount(),
		Total:      len(report.Entries),
		Success:    outcome.Success,
		ErrorKind:  string(outcome.Error),
		Duration:   time.Duration(outcome.DurationMs) * time.Millisecond,
		At:         s.record.LastAttempt,
	}); err != nil {
		return report, fmt.Errorf("record attempt: %w", err)
	}
	return report, nil
}

// AllPassed reports whether every test case of the question has passed.
func (s *Session) AllPassed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allPassedLocked()
}

func (s *Session) allPassedLocked() bool {
	total := len(s.question.TestCases)
	return total > 0 && len(s.record.PassedTestCases) == total
}

// Submit stops the timer and saves; the question is completed only when every case passed.
func (s *Session) Submit(ctx context.Context) (progress.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	s.timer.stop(now)
	if s.allPassedLocked() {
		s.record.Completed = true
	}
	s.record.LastAttempt = now
	if err := s.saveLocked(ctx); err != nil {
		return progress.Progress{}, err
	}
	return s.snapshotLocked(false), nil
}

// Skip saves progress and returns the next question in the catalog.
func (s *Session) Skip(ctx context.Context) (question.Question, bool, error) {
	if err := s.Save(ctx); err != nil {
		return question.Question{}, false, err
	}
	next, ok := s.Next()
	return next, ok, nil
}

// Next returns the question after this one, if any.
func (s *Session) Next() (question.Question, bool) {
	if s.catalog == nil {
		return question.Question{}, false
	}
	return s.catalog.Next(s.question.ID)
}

// Home saves progress before leaving the question.
func (s *Session) Home(ctx context.Context) error {
	return s.Save(ctx)
}

// Save writes the current record with the elapsed time.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.LastAttempt = s.clock.Now()
	return s.saveLocked(ctx)
}

// Tick saves when at least one autosave interval of practice time has passed
// since the last save, and reports whether it saved.
func (s *Session) Tick(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := s.timer.elapsed(s.clock.Now())
	if elapsed-s.lastSaved < s.autosave {
		return false, nil
	}
	s.record.LastAttempt = s.clock.Now()
	if err := s.saveLocked(ctx); err != nil {
		return false, err
	}
	s.logger.Debug("progress autosaved", "elapsed", elapsed)
	return true, nil
}

// Autosave calls Tick every interval of wall time until ctx is done.
func (s *Session) Autosave(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				s.logger.Warn("autosave failed", "error", err)
			}
		}
	}
}

func (s *Session) saveLocked(ctx context.Context) error {
	record := s.snapshotLocked(true)
	if err := s.store.Save(ctx, record); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	s.lastSaved = record.TimeSpent
	return nil
}

func (s *Session) snapshotLocked(commit bool) progress.Progress {
	record := s.record
	record.TimeSpent = s.timer.elapsed(s.clock.Now())
	record.PassedTestCases = append([]string{}, s.record.PassedTestCases...)
	if commit {
		s.record.TimeSpent = record.TimeSpent
	}
	return record
}
