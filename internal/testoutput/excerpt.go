package testoutput

import "strings"

// ExtractFailure returns the failure excerpt for a test ID using the default grammar.
func ExtractFailure(output, testID string) (string, bool) {
	return DefaultGrammar().ExtractFailure(output, testID)
}

// FailureMessage returns the excerpt for testID or FailedFallback.
func (g Grammar) FailureMessage(output, testID string) string {
	if excerpt, ok := g.ExtractFailure(output, testID); ok {
		return excerpt
	}
	return FailedFallback
}

// ExtractFailure locates the failing line for testID and returns up to
// MaxExcerptLines lines from the error block that follows it.
//
// Stack frames are skipped. Collection stops at the next error marker or
// result line. The error block naming the ID is preferred over the first block
// after the failing line.
func (g Grammar) ExtractFailure(output, testID string) (string, bool) {
	g = g.withDefaults()
	if testID == "" {
		return "", false
	}
	lines := splitLines(output)
	token := "[" + testID + "]"

	failLine := -1
	for i, line := range lines {
		if strings.Contains(line, token) && strings.Contains(line, g.FailGlyph) {
			failLine = i
			break
		}
	}
	if failLine < 0 {
		return "", false
	}

	block := g.findErrorBlock(lines, failLine+1, token)
	if block < 0 {
		return "", false
	}

	excerpt := make([]string, 0, g.MaxExcerptLines)
	for i := block + 1; i < len(lines) && len(excerpt) < g.MaxExcerptLines; i++ {
		line := lines[i]
		if line == "" {
			continue
		}
		if strings.Contains(line, g.ErrorMarker) {
			break
		}
		if _, ok := g.classify(line); ok {
			break
		}
		if strings.HasPrefix(line, g.StackPrefix) {
			continue
		}
		excerpt = append(excerpt, line)
	}
	if len(excerpt) == 0 {
		return "", false
	}
	return strings.Join(excerpt, "\n"), true
}

// findErrorBlock returns the index of the error marker line for token at or
// after start, falling back to the first marker line after start.
func (g Grammar) findErrorBlock(lines []string, start int, token string) int {
	first := -1
	for i := start; i < len(lines); i++ {
		if !strings.Contains(lines[i], g.ErrorMarker) {
			continue
		}
		if strings.Contains(lines[i], token) {
			return i
		}
		if first < 0 {
			first = i
		}
	}
	return first
}
