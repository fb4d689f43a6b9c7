package question

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultCatalog verifies the built-in catalog loads and is ordered.
func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if catalog.Len() != 5 {
		t.Fatalf("expected 5 questions, got %d", catalog.Len())
	}
	ids := make([]string, 0, catalog.Len())
	for _, q := range catalog.List() {
		ids = append(ids, q.ID)
	}
	if strings.Join(ids, ",") != "q1,q2,q3,q4,q5" {
		t.Fatalf("unexpected order: %v", ids)
	}
	q2, ok := catalog.Get("q2")
	if !ok {
		t.Fatalf("expected q2")
	}
	if q2.Title != "Toggle Component with useEffect" || q2.Difficulty != DifficultyMedium {
		t.Fatalf("unexpected q2: %+v", q2)
	}
	if strings.Join(q2.TestCaseIDs(), ",") != "q2t1,q2t2,q2t3,q2t4" {
		t.Fatalf("unexpected q2 cases: %v", q2.TestCaseIDs())
	}
	if !strings.Contains(q2.Solution, "Toggle changed to: ${isOn ? 'ON' : 'OFF'}") {
		t.Fatalf("expected q2 solution to keep template literal")
	}
	if q2.TestCases[0].ExpectedOutput != true {
		t.Fatalf("expected default expected output true, got %v", q2.TestCases[0].ExpectedOutput)
	}
	q5, _ := catalog.Get("q5")
	if len(q5.TestCases) != 5 {
		t.Fatalf("expected 5 cases for q5, got %d", len(q5.TestCases))
	}
}

// TestLoadCatalogEmptyPathUsesDefault verifies the built-in fallback.
func TestLoadCatalogEmptyPathUsesDefault(t *testing.T) {
	catalog, err := LoadCatalog("  ")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if _, ok := catalog.Get("q1"); !ok {
		t.Fatalf("expected built-in q1")
	}
}

// TestLoadSpecYAML verifies YAML catalogs load and normalize properly.
func TestLoadSpecYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.yml")
	payload := `version: 1
questions:
  - id: " q7 "
    title: "  Forms  "
    difficulty: easy
    topics: [Event Handling]
    test_cases:
      - id: q7t1
        description: " renders "
    hints:
      - id: q7h1
        text: " use onChange "
    solution: "export default Form;"
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	q, ok := catalog.Get("q7")
	if !ok {
		t.Fatalf("expected q7")
	}
	if q.Title != "Forms" || q.TestCases[0].Description != "renders" || q.Hints[0].Text != "use onChange" {
		t.Fatalf("expected trimmed fields, got %+v", q)
	}
	if q.Solution != "export default Form;" {
		t.Fatalf("unexpected solution: %q", q.Solution)
	}
}

// TestLoadSpecJSONKeepsSolution verifies JSON catalogs carry solutions.
func TestLoadSpecJSONKeepsSolution(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.json")
	payload := `{"version":1,"questions":[{"id":"q8","title":"Memo","difficulty":"hard","topics":["Performance"],"averageTimeMin":4,"starterCode":"","testCases":[{"id":"q8t1","description":"memoizes"}],"hints":[],"solution":"useMemo"}]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	if spec.Questions[0].Solution != "useMemo" || spec.Questions[0].AverageTimeMin != 4 {
		t.Fatalf("unexpected question: %+v", spec.Questions[0])
	}
}

// TestLoadSpecUnknownField verifies unknown YAML fields are rejected.
func TestLoadSpecUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.yml")
	payload := `version: 1
questions:
  - id: q1
    title: Counter
    difficulty: easy
    answers: [a]
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := LoadSpec(path); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

// TestNormalizeSpecIssues verifies validation collects every problem.
func TestNormalizeSpecIssues(t *testing.T) {
	spec := Spec{
		Version: 2,
		Questions: []Question{
			{
				ID:         "q1",
				Title:      "Counter",
				Difficulty: "trivial",
				Topics:     []Topic{"Redux"},
				TestCases:  []TestCase{{ID: "q2t1"}, {ID: "q1-t2"}},
				Hints:      []Hint{{ID: "h1", Text: "a"}, {ID: "h1", Text: ""}},
			},
			{ID: "q1", Title: "", Difficulty: DifficultyEasy},
		},
	}
	_, err := NormalizeSpec(spec)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, issue := range validationErr.Issues {
		fields[issue.Field] = true
	}
	for _, field := range []string{
		"version",
		"questions[0].difficulty",
		"questions[0].topics[0]",
		"questions[0].test_cases[0].id",
		"questions[0].test_cases[1].id",
		"questions[0].hints[1].id",
		"questions[0].hints[1].text",
		"questions[1].id",
		"questions[1].title",
		"questions[1].test_cases",
	} {
		if !fields[field] {
			t.Fatalf("expected issue for %s, got %+v", field, validationErr.Issues)
		}
	}
}
