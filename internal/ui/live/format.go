package live

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"codebrush/internal/reconcile"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// truncate shortens text to limit runes with an ellipsis.
func truncate(text string, limit int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	runes := []rune(normalized)
	if limit <= 3 || len(runes) <= limit {
		return normalized
	}
	return string(runes[:limit-3]) + "..."
}

// firstLine returns the first line of a multi-line detail.
func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}

func formatRunResult(report reconcile.Report) string {
	if report.Fallback {
		if report.Success {
			return "no test markers in output; process succeeded"
		}
		return "no test markers in output; process failed"
	}
	return report.Headline()
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(10 * time.Millisecond).String()
}

// statusGlyph renders the status with its marker.
func statusGlyph(status CaseStatus) string {
	switch status {
	case CasePassed:
		return "✓ passed"
	case CaseFailed:
		return "✕ failed"
	case CaseRunning:
		return "… running"
	case CaseNotRun:
		return "- not run"
	default:
		return "○ pending"
	}
}

func statusColor(status CaseStatus) lipgloss.Color {
	switch status {
	case CasePassed:
		return lipgloss.Color("42")
	case CaseFailed:
		return lipgloss.Color("196")
	case CaseNotRun:
		return lipgloss.Color("214")
	case CaseRunning:
		return lipgloss.Color("39")
	default:
		return lipgloss.Color("244")
	}
}
