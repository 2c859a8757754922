// Package ui provides plain-text rendering helpers for the CLI.
package ui

import (
	"strings"
	"unicode/utf8"
)

const tableCellMaxWidth = 50
const tableCellEllipsis = "..."

// TableBuilder collects rows and renders an aligned two-space-gutter table.
type TableBuilder struct {
	headers []string
	rows    [][]string
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	all := make([][]string, 0, len(builder.rows)+1)
	all = append(all, normalizeRow(builder.headers))
	for _, row := range builder.rows {
		all = append(all, normalizeRow(row))
	}

	widths := make([]int, len(all[0]))
	for _, row := range all {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if width := utf8.RuneCountInString(cell); width > widths[i] {
				widths[i] = width
			}
		}
	}

	var out strings.Builder
	for _, row := range all {
		for i, cell := range row {
			out.WriteString(cell)
			if i == len(row)-1 {
				out.WriteByte('\n')
				continue
			}
			out.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)+2))
		}
	}
	return out.String()
}

// TruncateTableCell limits a cell to a displayable width.
func TruncateTableCell(value string) string {
	value = normalizeCell(value)
	if utf8.RuneCountInString(value) <= tableCellMaxWidth {
		return value
	}
	runes := []rune(value)
	return string(runes[:tableCellMaxWidth-len(tableCellEllipsis)]) + tableCellEllipsis
}

func normalizeRow(row []string) []string {
	normalized := make([]string, len(row))
	for i, cell := range row {
		normalized[i] = normalizeCell(cell)
	}
	return normalized
}

func normalizeCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}
