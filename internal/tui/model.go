// Package tui implements an interactive, level-by-level viewer for a
// computed schedule: it steps through the levelized graph showing which
// stream each node lands on and where cross-stream events appear.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kjhansen/streamcapture/pkg/schedcache"
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleLevel    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	styleNode     = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleEvent    = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	styleHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	streamPalette = []lipgloss.Color{"36", "35", "220", "75", "167", "212", "99", "214"}
)

func streamStyle(stream int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(streamPalette[stream%len(streamPalette)])
}

// Model is a bubbletea model stepping through plan.Nodes one level at a
// time. It groups nodes by Level, matching the order a round-robin
// schedule was computed in.
type Model struct {
	plan   schedcache.Plan
	levels [][]schedcache.NodePlan
	cursor int
}

// New builds a Model from a computed Plan.
func New(plan schedcache.Plan) Model {
	levels := groupByLevel(plan.Nodes)
	return Model{plan: plan, levels: levels}
}

func groupByLevel(nodes []schedcache.NodePlan) [][]schedcache.NodePlan {
	maxLevel := 0
	for _, n := range nodes {
		if n.Level > maxLevel {
			maxLevel = n.Level
		}
	}
	levels := make([][]schedcache.NodePlan, maxLevel+1)
	for _, n := range nodes {
		levels[n.Level] = append(levels[n.Level], n)
	}
	return levels
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n", " ":
			if m.cursor < len(m.levels)-1 {
				m.cursor++
			}
		case "left", "h", "p":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.levels) - 1
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", styleTitle.Render(fmt.Sprintf("schedule: %s", m.plan.Strategy)))

	if len(m.levels) == 0 {
		b.WriteString("(empty schedule)\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s (%d/%d)\n", styleLevel.Render(fmt.Sprintf("level %d", m.cursor)), m.cursor+1, len(m.levels))
	for _, n := range m.levels[m.cursor] {
		line := streamStyle(n.Stream).Render(fmt.Sprintf("stream %d", n.Stream))
		b.WriteString("  " + styleNode.Render(n.ID) + "  " + line)
		if n.HasEvent {
			b.WriteString("  " + styleEvent.Render("records event"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + styleHelp.Render("←/→ move between levels · g/G first/last · q quit") + "\n")
	return b.String()
}
