package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	tgsparser "github.com/tgs-lang/parser-sdk-go"
)

// renderDiagnostics formats parser errors as a rounded table.
// Lines are shown 1-based to match editor conventions.
func renderDiagnostics(path string, diags []tgsparser.Diagnostic) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Line", "Error"})

	for _, d := range diags {
		tw.AppendRow(table.Row{path, strconv.Itoa(d.Line + 1), d.Message})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
