package main

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-malsim/pkg/controls"
	"github.com/dd0wney/cluso-malsim/pkg/logging"
	"github.com/dd0wney/cluso-malsim/pkg/simulation"
)

// idleScheduler never fires, so tests drive ticks by hand.
type idleScheduler struct{}

type idleTask struct{}

func (idleTask) Cancel() {}

func (idleScheduler) Every(time.Duration, func()) simulation.Task { return idleTask{} }

func newTestModel(t *testing.T) (model, *simulation.Controller, *controls.Panel) {
	t.Helper()
	panel := controls.NewPanel(simulation.RateConfig{WormRate: 0.25, TrojanRate: 1, PatchRate: 0}, 600*time.Millisecond, 12, true)
	ctrl := simulation.NewController(panel,
		simulation.WithScheduler(idleScheduler{}),
		simulation.WithRandom(simulation.NewRandomSource(11)),
	)
	t.Cleanup(ctrl.Close)

	sub, err := ctrl.Subscribe(context.Background())
	require.NoError(t, err)

	m := newModel(ctrl, panel, sub, logging.NewNopLogger())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	return next.(model), ctrl, panel
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestModelInitialSession(t *testing.T) {
	m, _, _ := newTestModel(t)

	assert.Len(t, m.snap.Nodes, 12)
	require.Len(t, m.snap.Window, 1)
	assert.Equal(t, 1, m.snap.Window[0].Infected)
	assert.Equal(t, simulation.ModeWorms, m.snap.State.Mode)
	assert.NotNil(t, m.Init())
}

func TestModelModeKeys(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m = press(t, m, "2")
	assert.Equal(t, simulation.ModeTrojan, ctrl.State().Mode)
	m = press(t, m, "3")
	assert.Equal(t, simulation.ModeVirus, ctrl.State().Mode)
	m = press(t, m, "1")
	assert.Equal(t, simulation.ModeWorms, m.snap.State.Mode)
}

func TestModelStartPauseStep(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m = press(t, m, "space")
	assert.True(t, ctrl.State().Running)
	assert.True(t, m.snap.State.Running)

	m = press(t, m, "n", "n")
	assert.Equal(t, 2, m.snap.State.TickCounter)

	m = press(t, m, "space")
	assert.False(t, ctrl.State().Running)

	m = press(t, m, "r")
	assert.Equal(t, 0, m.snap.State.TickCounter)
	assert.Len(t, m.snap.Window, 1)
}

func TestModelSelectionWraps(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "left")
	assert.Equal(t, 11, m.selected)
	m = press(t, m, "right", "right")
	assert.Equal(t, 1, m.selected)
}

func TestModelTrojanClick(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m = press(t, m, "2", "t")
	target := -1
	for _, n := range m.snap.Nodes {
		if n.TrojanPresent {
			target = n.ID
		}
	}
	require.GreaterOrEqual(t, target, 0, "a trojan should have been planted")

	m.selected = target
	m = press(t, m, "enter")

	node, _ := ctrl.Node(target)
	assert.False(t, node.TrojanPresent)
	assert.Equal(t, simulation.StatusCompromised, node.Status, "trojan rate is 1")
	assert.Contains(t, m.message, "trojan")
}

func TestModelSliders(t *testing.T) {
	m, _, panel := newTestModel(t)

	m = press(t, m, "+", "+")
	assert.InDelta(t, 0.27, panel.Rates().WormRate, 1e-9)

	m = press(t, m, "tab", "tab", "tab")
	assert.Equal(t, controls.SliderSpeed, controls.Sliders[m.slider])
	m = press(t, m, "-")
	assert.Equal(t, 550*time.Millisecond, panel.TickInterval())

	m = press(t, m, "tab", "+")
	assert.Equal(t, 13, panel.NodeCount())
	assert.Contains(t, m.message, "applied on reset")
	assert.Len(t, m.snap.Nodes, 12)

	m = press(t, m, "r")
	assert.Len(t, m.snap.Nodes, 13)

	m = press(t, m, "a")
	assert.False(t, panel.AutoSeed())
}

func TestModelSeedAndSpawnExhaustion(t *testing.T) {
	m, _, _ := newTestModel(t)

	for i := 0; i < 15; i++ {
		m = press(t, m, "s")
	}
	assert.True(t, m.messageErr)
	assert.Equal(t, 12, m.ctrl.Sample().Infected)
}

func TestModelEventRefresh(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	ctrl.Step()
	msg := m.Init()()
	ev, ok := msg.(eventMsg)
	require.True(t, ok, "expected an event, got %T", msg)
	assert.Equal(t, simulation.EventTick, ev.Type)

	next, cmd := m.Update(msg)
	m = next.(model)
	assert.Equal(t, 1, m.snap.State.TickCounter)
	assert.NotNil(t, cmd, "model keeps listening for events")
}

func TestModelView(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "3")

	out := ansi.Strip(m.View())
	for _, want := range []string{"Mode: Virus", "Tick: 0", "Virus: hybrid infection", "Node N0", "Worm rate", "healthy"} {
		assert.True(t, strings.Contains(out, want), "view missing %q", want)
	}

	var empty model
	assert.Equal(t, "Initializing...", empty.View())
}

func TestModelQuit(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m = press(t, m, "space")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, ctrl.State().Running)
}
