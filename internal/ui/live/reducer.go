package live

import (
	"codebrush/internal/reconcile"
)

// Reduce applies an event to the UI state.
func Reduce(state State, event Event) State {
	switch event.Kind {
	case EventSessionStart:
		state = State{QuestionID: event.QuestionID, Title: event.Title}
		state.Rows = make([]CaseRow, 0, len(event.Cases))
		for _, c := range event.Cases {
			state.Rows = append(state.Rows, CaseRow{ID: c.ID, Description: c.Description, Status: CasePending})
		}
		state.LastEvent = "loaded " + event.QuestionID
	case EventRunStart:
		state.Running = true
		state.Runs++
		state.RunStartedAt = event.At
		state.Error = ""
		for i := range state.Rows {
			state.Rows[i].Status = CaseRunning
			state.Rows[i].Detail = ""
		}
		state.LastEvent = "running tests"
	case EventRunResult:
		state.Running = false
		if !state.RunStartedAt.IsZero() && !event.At.IsZero() {
			state.LastDuration = event.At.Sub(state.RunStartedAt)
		}
		state.Rows = rowsFromReport(state.Rows, event.Report)
		state.Headline = event.Report.Headline()
		state.LastEvent = formatRunResult(event.Report)
	case EventRunError:
		state.Running = false
		for i := range state.Rows {
			state.Rows[i].Status = CasePending
			state.Rows[i].Detail = ""
		}
		state.Headline = ""
		if event.Err != nil {
			state.Error = event.Err.Error()
		}
		state.LastEvent = "run failed"
	case EventSaved:
		state.LastEvent = "progress saved"
		if event.Message != "" {
			state.LastEvent = event.Message
		}
	case EventEnd:
		state.Running = false
	}
	state.Counts = recount(state.Rows)
	return state
}

// rowsFromReport replaces row statuses with reconciled entries, keeping case order.
func rowsFromReport(rows []CaseRow, report reconcile.Report) []CaseRow {
	if len(rows) == 0 {
		rows = make([]CaseRow, 0, len(report.Entries))
		for _, entry := range report.Entries {
			rows = append(rows, CaseRow{ID: entry.ID, Description: entry.Description})
		}
	}
	byID := make(map[string]reconcile.Entry, len(report.Entries))
	for _, entry := range report.Entries {
		byID[entry.ID] = entry
	}
	out := make([]CaseRow, len(rows))
	for i, row := range rows {
		entry, ok := byID[row.ID]
		switch {
		case !ok:
			row.Status = CasePending
			row.Detail = ""
		case entry.Passed:
			row.Status = CasePassed
			row.Detail = ""
		case !entry.Executed:
			row.Status = CaseNotRun
			row.Detail = entry.Explanation
		default:
			row.Status = CaseFailed
			row.Detail = entry.Explanation
		}
		out[i] = row
	}
	return out
}

func recount(rows []CaseRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case CasePending:
			counts.Pending++
		case CaseRunning:
			counts.Running++
		case CasePassed:
			counts.Passed++
		case CaseFailed:
			counts.Failed++
		case CaseNotRun:
			counts.NotRun++
		}
	}
	return counts
}
