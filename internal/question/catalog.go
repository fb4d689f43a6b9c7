package question

import (
	"strings"
)

// Catalog is an ordered, read-only set of questions.
type Catalog struct {
	questions []Question
	index     map[string]int
}

// Filters narrows a catalog listing; zero values match everything.
type Filters struct {
	Difficulty Difficulty
	Topic      Topic
	Search     string
}

// NewCatalog validates spec and builds a catalog from it.
func NewCatalog(spec Spec) (*Catalog, error) {
	normalized, err := NormalizeSpec(spec)
	if err != nil {
		return nil, err
	}
	return newCatalog(normalized), nil
}

func newCatalog(spec Spec) *Catalog {
	c := &Catalog{
		questions: append([]Question(nil), spec.Questions...),
		index:     make(map[string]int, len(spec.Questions)),
	}
	for i, q := range c.questions {
		c.index[q.ID] = i
	}
	return c
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// Get returns the question with id.
func (c *Catalog) Get(id string) (Question, bool) {
	i, ok := c.index[strings.TrimSpace(id)]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// List returns every question in catalog order.
func (c *Catalog) List() []Question {
	return append([]Question(nil), c.questions...)
}

// Next returns the question after id; the last question has no successor.
func (c *Catalog) Next(id string) (Question, bool) {
	i, ok := c.index[strings.TrimSpace(id)]
	if !ok || i+1 >= len(c.questions) {
		return Question{}, false
	}
	return c.questions[i+1], true
}

// Filter returns the questions matching every set field of f, in catalog order.
func (c *Catalog) Filter(f Filters) []Question {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Question, 0, len(c.questions))
	for _, q := range c.questions {
		if f.Difficulty != "" && q.Difficulty != f.Difficulty {
			continue
		}
		if f.Topic != "" && !q.HasTopic(f.Topic) {
			continue
		}
		if search != "" && !matchesSearch(q, search) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func matchesSearch(q Question, needle string) bool {
	if strings.Contains(strings.ToLower(q.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(q.Description), needle) {
		return true
	}
	for _, topic := range q.Topics {
		if strings.Contains(strings.ToLower(string(topic)), needle) {
			return true
		}
	}
	return false
}
