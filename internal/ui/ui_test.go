package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"pwpm/pkg/manager"
	"pwpm/pkg/manager/catalog"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		answer     string
		defaultYes bool
		want       bool
	}{
		{"y", false, true},
		{"YES", false, true},
		{" n ", true, false},
		{"", true, true},
		{"", false, false},
		{"maybe", true, false},
	}

	for _, tt := range tests {
		if got := parseAnswer(tt.answer, tt.defaultYes); got != tt.want {
			t.Errorf("parseAnswer(%q, %v) = %v, want %v", tt.answer, tt.defaultYes, got, tt.want)
		}
	}
}

func TestTableHeaderFirst(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	table := NewTableWriter(&buf, []string{"name", "status"})
	table.AddRow([]string{"apt", "usable"})
	table.Render()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("header should come first: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "apt") {
		t.Errorf("unexpected row: %q", lines[1])
	}
}

func TestPrintBackends(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	PrintBackends(&buf, []catalog.Report{
		{Name: "apt", Aliases: []string{"apt", "nala"}, Capability: manager.Capability{Category: manager.CategoryOS}, Status: catalog.StatusUsable},
		{Name: "brew", Aliases: []string{"brew"}, Status: catalog.StatusInstallable, Reason: manager.ReasonMissingCommand, Missing: []string{"brew"}},
		{Name: "winget", Status: catalog.StatusUnusable, Reason: manager.ReasonPlatform},
	})

	out := buf.String()
	for _, want := range []string{"BACKEND", "apt, nala", "installable", "missing brew", "unusable", manager.ReasonPlatform.String()} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
