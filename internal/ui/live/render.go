package live

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the question header line.
func renderHeader(state State, noColor bool) string {
	line := "Question " + state.QuestionID
	if state.Title != "" {
		line += " | " + state.Title
	}
	if state.Runs > 0 {
		line += " | Runs: " + fmtInt(state.Runs)
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, now time.Time, spinner string, noColor bool) string {
	counts := state.Counts
	line := "Passed: " + fmtInt(counts.Passed) +
		" Failed: " + fmtInt(counts.Failed) +
		" Not run: " + fmtInt(counts.NotRun) +
		" Pending: " + fmtInt(counts.Pending)
	if state.Running {
		line = spinner + " running " + formatDuration(now.Sub(state.RunStartedAt)) + " | " + line
	} else if state.LastDuration > 0 {
		line += " | Last run: " + formatDuration(state.LastDuration)
	}
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderHeadline renders the pass summary or the last error.
func renderHeadline(state State, noColor bool) string {
	if state.Error != "" {
		return stylize("Error: "+state.Error, noColor, lipgloss.Color("196"))
	}
	if state.Headline == "" {
		return ""
	}
	color := lipgloss.Color("214")
	if state.Counts.Passed > 0 && state.Counts.Passed == len(state.Rows) {
		color = lipgloss.Color("42")
	}
	return stylize(state.Headline, noColor, color)
}

// renderDetails renders the failure excerpts below the table.
func renderDetails(state State, noColor bool) string {
	var b strings.Builder
	for _, row := range state.Rows {
		if row.Detail == "" || (row.Status != CaseFailed && row.Status != CaseNotRun) {
			continue
		}
		b.WriteString(stylize(statusGlyph(row.Status)+" "+row.ID, noColor, statusColor(row.Status)))
		b.WriteString("\n")
		for _, line := range strings.Split(row.Detail, "\n") {
			b.WriteString("    " + line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
