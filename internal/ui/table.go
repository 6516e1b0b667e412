package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"pwpm/pkg/manager/catalog"
)

// Table wraps tabwriter for consistent styling.
type Table struct {
	writer *tabwriter.Writer
}

// NewTable creates a table on stdout.
func NewTable(header []string) *Table {
	return NewTableWriter(os.Stdout, header)
}

// NewTableWriter creates a table that writes to w. The header row is
// written first, upper-cased and bold.
func NewTableWriter(w io.Writer, header []string) *Table {
	t := &Table{writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	if len(header) > 0 {
		row := make([]string, len(header))
		for i, h := range header {
			row[i] = Bold(strings.ToUpper(h))
		}
		t.AddRow(row)
	}
	return t
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row []string) {
	fmt.Fprintln(t.writer, strings.Join(row, "\t"))
}

// Render flushes the table.
func (t *Table) Render() {
	t.writer.Flush()
}

func styledStatus(s catalog.Status) string {
	switch s {
	case catalog.StatusUsable:
		return Usable.Sprint(SymbolSuccess + " " + s.String())
	case catalog.StatusInstallable:
		return Installable.Sprint(SymbolPending + " " + s.String())
	}
	return Unusable.Sprint(SymbolError + " " + s.String())
}

// PrintBackends prints the backend listing to w.
func PrintBackends(w io.Writer, reports []catalog.Report) {
	if len(reports) == 0 {
		MutedMsg("No package managers")
		return
	}

	t := NewTableWriter(w, []string{"backend", "status", "category", "aliases", "reason"})
	for _, r := range reports {
		t.AddRow([]string{
			BackendName.Sprint(r.Name),
			styledStatus(r.Status),
			string(r.Capability.Category),
			strings.Join(r.Aliases, ", "),
			r.Detail(),
		})
	}
	t.Render()
}

// PrintField prints a single labelled value.
func PrintField(label, value string) {
	fmt.Printf("  %s: %s\n", Cyan(label), value)
}
