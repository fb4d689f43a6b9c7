package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store.
type Memory struct {
	mu       sync.Mutex
	order    []string
	records  map[string]Progress
	attempts map[string][]Attempt
	now      func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records:  map[string]Progress{},
		attempts: map[string][]Attempt{},
		now:      time.Now,
	}
}

func (m *Memory) Save(_ context.Context, p Progress) error {
	p, err := normalize(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[p.QuestionID]; !ok {
		m.order = append(m.order, p.QuestionID)
	}
	m.records[p.QuestionID] = cloneProgress(p)
	return nil
}

func (m *Memory) Get(_ context.Context, questionID string) (*Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[questionID]
	if !ok {
		return nil, nil
	}
	out := cloneProgress(p)
	return &out, nil
}

func (m *Memory) List(_ context.Context) ([]Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Progress, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, cloneProgress(m.records[id]))
	}
	return out, nil
}

func (m *Memory) Clear(_ context.Context, questionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[questionID]; !ok {
		return nil
	}
	delete(m.records, questionID)
	delete(m.attempts, questionID)
	for i, id := range m.order {
		if id == questionID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = nil
	m.records = map[string]Progress{}
	m.attempts = map[string][]Attempt{}
	return nil
}

func (m *Memory) RecordAttempt(_ context.Context, a Attempt) (Attempt, error) {
	a, err := fillAttempt(a, m.now)
	if err != nil {
		return Attempt{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.QuestionID] = append(m.attempts[a.QuestionID], a)
	return a, nil
}

func (m *Memory) Attempts(_ context.Context, questionID string) ([]Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Attempt{}, m.attempts[questionID]...), nil
}

func (m *Memory) Close() error {
	return nil
}

func fillAttempt(a Attempt, now func() time.Time) (Attempt, error) {
	if a.QuestionID == "" {
		return Attempt{}, ErrMissingQuestionID
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.At.IsZero() {
		a.At = now()
	}
	a.At = a.At.UTC().Truncate(time.Microsecond)
	return a, nil
}

func cloneProgress(p Progress) Progress {
	p.PassedTestCases = append([]string{}, p.PassedTestCases...)
	return p
}
