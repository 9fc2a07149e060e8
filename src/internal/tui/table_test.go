package tui

import (
	"strings"
	"testing"
)

func TestTableRender(t *testing.T) {
	table := NewTable("Alias", "Version")
	table.SetTitle("yarn")
	table.AddActiveRow("latest", "1.22.19")
	table.AddRow("berry", RenderVersion("4.0.2"))

	output := table.Render()

	for _, want := range []string{"yarn", "Alias", "Version", "latest", "1.22.19", "berry", "4.0.2"} {
		if !strings.Contains(output, want) {
			t.Errorf("Render() output is missing %q:\n%s", want, output)
		}
	}
	if table.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", table.RowCount())
	}
}

func TestTableRender_NoHeaders(t *testing.T) {
	if got := NewTable().Render(); got != "" {
		t.Errorf("Render() of a table without headers = %q, want empty", got)
	}
}

func TestTableRender_HiddenHeader(t *testing.T) {
	table := NewTable("Hidden")
	table.HideHeader()
	table.SetMinWidth(40)
	table.AddRow("content")

	output := table.Render()
	if strings.Contains(output, "Hidden") {
		t.Errorf("Render() shows a hidden header:\n%s", output)
	}
	if !strings.Contains(output, "content") {
		t.Errorf("Render() is missing the row:\n%s", output)
	}
}

func TestAddRowPadsMissingCells(t *testing.T) {
	table := NewTable("A", "B", "C")
	table.AddRow("only")

	if len(table.rows[0].cells) != 3 {
		t.Errorf("AddRow() stored %d cells, want 3", len(table.rows[0].cells))
	}
}
