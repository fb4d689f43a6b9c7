package live

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the table columns for an 80-column terminal.
func defaultColumns() []table.Column {
	return columnsForWidth(80)
}

// columnsForWidth sizes the description and detail columns to the terminal.
func columnsForWidth(width int) []table.Column {
	const idWidth, statusWidth = 8, 12
	flexible := width - idWidth - statusWidth - 8
	if flexible < 20 {
		flexible = 20
	}
	description := flexible / 2
	return []table.Column{
		{Title: "Test", Width: idWidth},
		{Title: "Status", Width: statusWidth},
		{Title: "Description", Width: description},
		{Title: "Detail", Width: flexible - description},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252")).Bold(true)
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, columns []table.Column) []table.Row {
	descWidth, detailWidth := 40, 40
	if len(columns) == 4 {
		descWidth, detailWidth = columns[2].Width, columns[3].Width
	}
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			row.ID,
			statusGlyph(row.Status),
			truncate(row.Description, descWidth),
			truncate(firstLine(row.Detail), detailWidth),
		})
	}
	return rows
}
