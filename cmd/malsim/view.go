package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-malsim/pkg/controls"
	"github.com/dd0wney/cluso-malsim/pkg/simulation"
	"github.com/dd0wney/cluso-malsim/pkg/visualization"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ef4444")).
			MarginLeft(2).
			MarginTop(1)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e5e7eb")).
			MarginLeft(2)

	graphBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6b7280")).
			Padding(0, 1).
			Width(40)

	headingStyle = lipgloss.NewStyle().Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))

	runningStyle = lipgloss.NewStyle().Foreground(colorHealthy).Bold(true)
	pausedStyle  = lipgloss.NewStyle().Foreground(colorCompromised).Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorInfected).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorHealthy)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

// Canvas bounds in terminal cells.
const (
	minCanvasW, maxCanvasW = 30, 110
	minCanvasH, maxCanvasH = 10, 32
	sidePanelWidth         = 46
	chromeHeight           = 20
)

type modeInfo struct {
	title string
	blurb string
}

var modeDescriptions = map[simulation.Mode]modeInfo{
	simulation.ModeWorms: {
		"Worms: autonomous spread",
		"Worms travel automatically through the network, scanning and infecting nearby nodes. Adjust infection and patch values to experiment with defenses.",
	},
	simulation.ModeTrojan: {
		"Trojan Horse: user deception",
		"Trojan samples appear benign until user interaction. Demonstrates social engineering principles and endpoint risk.",
	},
	simulation.ModeVirus: {
		"Virus: hybrid infection",
		"Combines automatic and manual infection routes, ideal for exploring compound malware spread.",
	},
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("MalSim: malware propagation over a random network"))
	s.WriteString("\n")
	s.WriteString(barStyle.Render(m.renderStatusBar()))
	s.WriteString("\n\n")

	cw, ch := m.canvasSize()
	graph := graphBoxStyle.Render(renderGraph(m.snap, m.selected, cw, ch))
	side := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(m.renderModeInfo()),
		panelStyle.Render(m.renderStats()),
		panelStyle.Render(m.renderTooltip()),
		panelStyle.Render(m.renderSliders()),
	)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  ", graph, " ", side))
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(
		graphBoxStyle.Render(headingStyle.Render("Last "+fmt.Sprint(len(m.snap.Window))+" samples") + "\n" + renderChart(m.snap.Window)),
	))

	if m.message != "" {
		s.WriteString("\n")
		if m.messageErr {
			s.WriteString(errorStyle.MarginLeft(2).Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.MarginLeft(2).Render("› " + m.message))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return s.String()
}

func (m model) canvasSize() (int, int) {
	w := min(max(m.width-sidePanelWidth-8, minCanvasW), maxCanvasW)
	h := min(max(m.height-chromeHeight, minCanvasH), maxCanvasH)
	return w, h
}

func (m model) renderStatusBar() string {
	st := m.snap.State
	clock := pausedStyle.Render("■ paused")
	if st.Running {
		clock = runningStyle.Render("▶ running")
	}
	return fmt.Sprintf("Mode: %s   Tick: %d   %s   Run: %s",
		headingStyle.Render(capitalize(st.Mode.String())), st.TickCounter, clock, shortID(st.RunID))
}

func (m model) renderModeInfo() string {
	info := modeDescriptions[m.snap.State.Mode]
	return headingStyle.Render(info.title) + "\n" + dimStyle.Render(info.blurb)
}

func (m model) renderStats() string {
	latest := simulation.Sample{}
	if n := len(m.snap.Window); n > 0 {
		latest = m.snap.Window[n-1]
	}
	row := func(c lipgloss.Color, name string, v int) string {
		return lipgloss.NewStyle().Foreground(c).Render(fmt.Sprintf("● %-12s %3d", name, v))
	}
	return strings.Join([]string{
		headingStyle.Render(fmt.Sprintf("Network: %d nodes, %d edges", len(m.snap.Nodes), len(m.snap.Edges))),
		row(colorHealthy, "Healthy", latest.Healthy),
		row(colorInfected, "Infected", latest.Infected),
		row(colorCompromised, "Compromised", latest.Compromised),
		row(colorPatched, "Patched", latest.Patched),
	}, "\n")
}

// renderTooltip describes the selected node.
func (m model) renderTooltip() string {
	if m.selected >= len(m.snap.Nodes) {
		return dimStyle.Render("No node selected")
	}
	n := m.snap.Nodes[m.selected]
	lines := []string{
		headingStyle.Render(fmt.Sprintf("Node N%d", n.ID)),
		"Status: " + palette[nodeInk(n)].Render(strings.ToUpper(n.Status.String())),
	}
	if n.Patched {
		lines = append(lines, palette[inkPatched].Render("Patched"))
	}
	if n.TrojanPresent {
		lines = append(lines, palette[inkTrojan].Render("Trojan present"))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderSliders() string {
	lines := make([]string, 0, len(controls.Sliders)+1)
	for i, s := range controls.Sliders {
		cursor := "  "
		style := dimStyle
		if i == m.slider {
			cursor = "› "
			style = headingStyle
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%-14s %6s", cursor, s.String(), m.panel.Label(s))))
	}
	auto := "OFF"
	if m.panel.AutoSeed() {
		auto = "ON"
	}
	lines = append(lines, dimStyle.Render("  Auto-seed      "+fmt.Sprintf("%6s", auto)))
	return strings.Join(lines, "\n")
}

// renderGraph draws edges then nodes onto a w x h canvas.
func renderGraph(snap simulation.Snapshot, selected, w, h int) string {
	c := newCanvas(w, h)
	if len(snap.Positions) == 0 {
		return c.String()
	}

	pts := visualization.FitToCanvas(snap.Positions, float64(w-1), float64(h-1), 1)
	cellAt := func(id int) (int, int) {
		return int(math.Round(pts[id].X)), int(math.Round(pts[id].Y))
	}

	for _, e := range snap.Edges {
		if e.A >= len(pts) || e.B >= len(pts) {
			continue
		}
		x0, y0 := cellAt(e.A)
		x1, y1 := cellAt(e.B)
		c.line(x0, y0, x1, y1, '·', inkEdge)
	}

	for _, n := range snap.Nodes {
		if n.ID >= len(pts) {
			continue
		}
		x, y := cellAt(n.ID)
		c.set(x, y, nodeGlyph(n), nodeInk(n))
		if n.ID == selected {
			c.set(x-1, y, '[', inkSelected)
			c.set(x+1, y, ']', inkSelected)
		}
	}
	return c.String()
}

func nodeGlyph(n simulation.Node) rune {
	switch n.Status {
	case simulation.StatusInfected:
		return 'X'
	case simulation.StatusCompromised:
		return '!'
	default:
		if n.TrojanPresent {
			return 'T'
		}
		return 'o'
	}
}

// nodeInk colours by patch state first, then status.
func nodeInk(n simulation.Node) ink {
	switch {
	case n.Patched:
		return inkPatched
	case n.Status == simulation.StatusInfected:
		return inkInfected
	case n.Status == simulation.StatusCompromised:
		return inkCompromised
	case n.TrojanPresent:
		return inkTrojan
	default:
		return inkHealthy
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
