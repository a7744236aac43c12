package tui_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kjhansen/streamcapture/internal/tui"
	"github.com/kjhansen/streamcapture/pkg/schedcache"
)

func samplePlan() schedcache.Plan {
	return schedcache.Plan{
		Strategy: "round-robin",
		Nodes: []schedcache.NodePlan{
			{ID: "root", Level: 0, Idx: 0, Stream: 0, HasEvent: true},
			{ID: "left", Level: 1, Idx: 0, Stream: 0},
			{ID: "right", Level: 1, Idx: 1, Stream: 1, HasEvent: true},
			{ID: "join", Level: 2, Idx: 0, Stream: 0},
		},
	}
}

func TestModel_viewShowsFirstLevel(t *testing.T) {
	m := tui.New(samplePlan())
	view := m.View()

	if !strings.Contains(view, "root") {
		t.Fatalf("expected level 0 to show node %q, got:\n%s", "root", view)
	}
	if strings.Contains(view, "join") {
		t.Fatalf("did not expect level 2 node on first view:\n%s", view)
	}
}

func TestModel_advancesLevelOnRight(t *testing.T) {
	m := tui.New(samplePlan())
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	next := updated.(tui.Model)

	view := next.View()
	if !strings.Contains(view, "left") || !strings.Contains(view, "right") {
		t.Fatalf("expected level 1 nodes after advancing, got:\n%s", view)
	}
}

func TestModel_quitsOnQ(t *testing.T) {
	m := tui.New(samplePlan())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestModel_doesNotAdvancePastLastLevel(t *testing.T) {
	m := tui.New(samplePlan())
	for i := 0; i < 10; i++ {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
		m = updated.(tui.Model)
	}
	view := m.View()
	if !strings.Contains(view, "join") {
		t.Fatalf("expected to land on last level, got:\n%s", view)
	}
}
