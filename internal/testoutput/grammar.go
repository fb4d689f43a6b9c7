// Package testoutput turns the console output of an external test runner into
// structured per-test results.
//
// The runner output is an external protocol that this package only parses:
//
//	line     = ws* glyph rest
//	glyph    = PassGlyph | FailGlyph
//	rest     = any text containing at least one "[" word-chars "]" token
//
// Lines that do not start with a glyph, or that carry no bracketed ID, are not
// result lines. Failure details follow in blocks introduced by ErrorMarker.
//
// Duplicate IDs are kept: every matching line yields one result and is counted
// in the summary, in the order the lines appear.
package testoutput

import "regexp"

const (
	// DefaultPassGlyph prefixes a passing test line.
	DefaultPassGlyph = "✓"
	// DefaultFailGlyph prefixes a failing test line.
	DefaultFailGlyph = "✕"
	// DefaultErrorMarker introduces a failure detail block.
	DefaultErrorMarker = "●"
	// DefaultStackPrefix starts a stack-frame line inside a failure block.
	DefaultStackPrefix = "at "
	// DefaultMaxExcerptLines caps the lines kept in a failure excerpt.
	DefaultMaxExcerptLines = 5
	// FailedFallback is shown when no failure excerpt can be extracted.
	FailedFallback = "Test failed"
)

// testIDPattern matches the first bracket-delimited test ID on a line.
var testIDPattern = regexp.MustCompile(`\[(\w+)\]`)

// Grammar describes the markers used by the test runner output.
type Grammar struct {
	PassGlyph       string
	FailGlyph       string
	ErrorMarker     string
	StackPrefix     string
	MaxExcerptLines int
}

// DefaultGrammar returns the Jest-style grammar.
func DefaultGrammar() Grammar {
	return Grammar{
		PassGlyph:       DefaultPassGlyph,
		FailGlyph:       DefaultFailGlyph,
		ErrorMarker:     DefaultErrorMarker,
		StackPrefix:     DefaultStackPrefix,
		MaxExcerptLines: DefaultMaxExcerptLines,
	}
}

// withDefaults fills empty grammar fields from DefaultGrammar.
func (g Grammar) withDefaults() Grammar {
	def := DefaultGrammar()
	if g.PassGlyph == "" {
		g.PassGlyph = def.PassGlyph
	}
	if g.FailGlyph == "" {
		g.FailGlyph = def.FailGlyph
	}
	if g.ErrorMarker == "" {
		g.ErrorMarker = def.ErrorMarker
	}
	if g.StackPrefix == "" {
		g.StackPrefix = def.StackPrefix
	}
	if g.MaxExcerptLines <= 0 {
		g.MaxExcerptLines = def.MaxExcerptLines
	}
	return g
}
