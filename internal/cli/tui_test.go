package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/chartwire/pkg/store"
)

func testEntries() []*store.Entry {
	now := time.Now()
	return []*store.Entry{
		{ID: "growth", Type: "scatter", UpdatedAt: now.Add(-2 * time.Hour)},
		{ID: "sales", Type: "bar", Title: "Quarterly sales", UpdatedAt: now.Add(-3 * 24 * time.Hour)},
		{ID: "visits", Type: "line", Title: "Daily visits", UpdatedAt: now},
	}
}

func update(m ChartListModel, msg tea.Msg) (ChartListModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(ChartListModel), cmd
}

func TestChartListNavigateAndSelect(t *testing.T) {
	m := NewChartListModel(testEntries())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 0 {
		t.Errorf("cursor should stay at the top, got %d", m.Cursor)
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor != 2 {
		t.Errorf("cursor should stop at the last entry, got %d", m.Cursor)
	}

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected == nil || m.Selected.ID != "visits" {
		t.Fatalf("expected visits to be selected, got %+v", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestChartListFilter(t *testing.T) {
	m := NewChartListModel(testEntries())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("quart")})
	if len(m.Visible()) != 1 || m.Visible()[0].ID != "sales" {
		t.Fatalf("filter should match the title, got %d entries", len(m.Visible()))
	}
	if !strings.Contains(m.View(), "filter: quart") {
		t.Error("view should show the filter")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zz")})
	if len(m.Visible()) != 0 {
		t.Errorf("expected no matches, got %d", len(m.Visible()))
	}
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != nil || cmd != nil {
		t.Error("enter with no matches should do nothing")
	}
	if !strings.Contains(m.View(), "no charts match") {
		t.Error("view should say nothing matches")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if len(m.Visible()) != 1 {
		t.Errorf("backspace should widen the filter again, got %d", len(m.Visible()))
	}
}

func TestChartListQuit(t *testing.T) {
	m := NewChartListModel(testEntries())
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Selected != nil {
		t.Error("esc should not select")
	}
	if cmd == nil {
		t.Error("esc should quit")
	}
}

func TestChartListView(t *testing.T) {
	view := NewChartListModel(testEntries()).View()
	for _, want := range []string{"Select Chart", "growth", "Quarterly sales", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "—"},
		{now, "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-2 * 24 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}
