package testoutput

import (
	"strings"

	"codebrush/pkg/testrun"
)

// Parse extracts per-test results from output using the default grammar.
func Parse(output string) []testrun.TestResult {
	return DefaultGrammar().Parse(output)
}

// Parse extracts per-test results from output in line order.
//
// The returned slice is never nil so that it encodes as an empty JSON array.
func (g Grammar) Parse(output string) []testrun.TestResult {
	g = g.withDefaults()
	results := []testrun.TestResult{}
	for _, line := range splitLines(output) {
		status, ok := g.classify(line)
		if !ok {
			continue
		}
		match := testIDPattern.FindStringSubmatch(line)
		if len(match) < 2 || match[1] == "" {
			continue
		}
		results = append(results, testrun.TestResult{
			ID:          match[1],
			Status:      status,
			Description: line,
		})
	}
	return results
}

// Summarize counts results for a question.
func Summarize(results []testrun.TestResult, questionID string) testrun.Summary {
	summary := testrun.Summary{Total: len(results), QuestionID: questionID}
	for _, result := range results {
		if result.Passed() {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// classify reports the status carried by a trimmed line's leading glyph.
func (g Grammar) classify(line string) (testrun.Status, bool) {
	switch {
	case strings.HasPrefix(line, g.PassGlyph):
		return testrun.StatusPassed, true
	case strings.HasPrefix(line, g.FailGlyph):
		return testrun.StatusFailed, true
	default:
		return "", false
	}
}

// splitLines strips ANSI codes and returns the trimmed lines of output.
func splitLines(output string) []string {
	if output == "" {
		return nil
	}
	raw := strings.Split(stripANSICodes(output), "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
