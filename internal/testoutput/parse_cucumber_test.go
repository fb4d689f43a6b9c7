//go:build cucumber

package testoutput

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/cucumber/godog"

	"codebrush/pkg/testrun"
)

// TestParseScenarios runs the test output feature scenarios.
func TestParseScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "features", "test-output.feature")
	suite := godog.TestSuite{
		Name:                "test-output",
		ScenarioInitializer: InitializeParseScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeParseScenario wires steps for test output scenarios.
func InitializeParseScenario(ctx *godog.ScenarioContext) {
	state := &parseScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^the test output:$`, state.givenOutput)
	ctx.Step(`^the output is parsed for question "([^"]+)"$`, state.whenParsed)
	ctx.Step(`^the failure excerpt for "([^"]+)" is extracted$`, state.whenExcerptExtracted)
	ctx.Step(`^there are (\d+) results$`, state.thenResultCount)
	ctx.Step(`^result (\d+) has id "([^"]+)" and status "([^"]+)"$`, state.thenResult)
	ctx.Step(`^the summary is (\d+) total, (\d+) passed, (\d+) failed$`, state.thenSummary)
	ctx.Step(`^the excerpt is:$`, state.thenExcerpt)
}

type parseScenarioState struct {
	output  string
	results []testrun.TestResult
	summary testrun.Summary
	excerpt string
}

// reset clears scenario state.
func (s *parseScenarioState) reset() {
	*s = parseScenarioState{}
}

func (s *parseScenarioState) givenOutput(doc *godog.DocString) error {
	s.output = doc.Content
	return nil
}

func (s *parseScenarioState) whenParsed(questionID string) error {
	s.results = Parse(s.output)
	s.summary = Summarize(s.results, questionID)
	return nil
}

func (s *parseScenarioState) whenExcerptExtracted(id string) error {
	excerpt, ok := ExtractFailure(s.output, id)
	if !ok {
		return fmt.Errorf("no excerpt for %q", id)
	}
	s.excerpt = excerpt
	return nil
}

func (s *parseScenarioState) thenResultCount(count int) error {
	if len(s.results) != count {
		return fmt.Errorf("expected %d results, got %d", count, len(s.results))
	}
	return nil
}

func (s *parseScenarioState) thenResult(position int, id, status string) error {
	if position < 1 || position > len(s.results) {
		return fmt.Errorf("no result at position %d", position)
	}
	got := s.results[position-1]
	if got.ID != id || string(got.Status) != status {
		return fmt.Errorf("expected %s/%s, got %s/%s", id, status, got.ID, got.Status)
	}
	return nil
}

func (s *parseScenarioState) thenSummary(total, passed, failed int) error {
	if s.summary.Total != total || s.summary.Passed != passed || s.summary.Failed != failed {
		return fmt.Errorf("unexpected summary %+v", s.summary)
	}
	return nil
}

func (s *parseScenarioState) thenExcerpt(doc *godog.DocString) error {
	if s.excerpt != doc.Content {
		return fmt.Errorf("expected excerpt %q, got %q", doc.Content, s.excerpt)
	}
	return nil
}
