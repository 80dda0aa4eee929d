package output

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table prints rows as a pretty table on stdout.
func Table(headers []string, rows [][]any) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.SetStyle(table.StyleLight)
	t.Render()
}
