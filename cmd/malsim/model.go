package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-malsim/pkg/controls"
	"github.com/dd0wney/cluso-malsim/pkg/logging"
	"github.com/dd0wney/cluso-malsim/pkg/pubsub"
	"github.com/dd0wney/cluso-malsim/pkg/simulation"
)

// eventMsg carries a controller event into the bubbletea loop.
type eventMsg simulation.Event

// eventsClosedMsg reports that the controller shut its event stream.
type eventsClosedMsg struct{}

// waitForEvent blocks on the subscription and hands the next event to Update.
func waitForEvent(sub *pubsub.Subscription[simulation.Event]) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.C()
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

type model struct {
	ctrl   *simulation.Controller
	panel  *controls.Panel
	sub    *pubsub.Subscription[simulation.Event]
	logger logging.Logger

	snap     simulation.Snapshot
	selected int
	slider   int

	keys       keyMap
	help       help.Model
	width      int
	height     int
	message    string
	messageErr bool
}

func newModel(ctrl *simulation.Controller, panel *controls.Panel, sub *pubsub.Subscription[simulation.Event], logger logging.Logger) model {
	m := model{
		ctrl:   ctrl,
		panel:  panel,
		sub:    sub,
		logger: logger,
		keys:   keys,
		help:   help.New(),
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	return waitForEvent(m.sub)
}

// refresh pulls a fresh snapshot and keeps the selection in range.
func (m *model) refresh() {
	m.snap = m.ctrl.Snapshot()
	if n := len(m.snap.Nodes); n == 0 {
		m.selected = 0
	} else if m.selected >= n {
		m.selected = n - 1
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case eventMsg:
		m.refresh()
		return m, waitForEvent(m.sub)

	case eventsClosedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Worms):
		m.setMode(simulation.ModeWorms)
	case key.Matches(msg, m.keys.Trojan):
		m.setMode(simulation.ModeTrojan)
	case key.Matches(msg, m.keys.Virus):
		m.setMode(simulation.ModeVirus)

	case key.Matches(msg, m.keys.StartPause):
		if m.ctrl.State().Running {
			m.ctrl.Stop()
			m.info("paused")
		} else {
			m.ctrl.Start()
			m.info(fmt.Sprintf("running every %d ms", m.panel.TickInterval().Milliseconds()))
		}

	case key.Matches(msg, m.keys.Step):
		res := m.ctrl.Step()
		m.info(fmt.Sprintf("step: %d spread, %d escalated, %d patched", len(res.Spread), len(res.Escalated), len(res.Patched)))

	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
		m.info(fmt.Sprintf("network rebuilt with %d nodes", m.panel.NodeCount()))

	case key.Matches(msg, m.keys.Seed):
		if ids := m.ctrl.InfectRandom(1); len(ids) > 0 {
			m.info(fmt.Sprintf("N%d infected", ids[0]))
		} else {
			m.fail("no healthy unpatched node to infect")
		}

	case key.Matches(msg, m.keys.Spawn):
		if id, ok := m.ctrl.SpawnTrojan(); ok {
			m.info(fmt.Sprintf("trojan planted on N%d", id))
		} else {
			m.fail("no healthy node without a trojan")
		}

	case key.Matches(msg, m.keys.Prev):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Next):
		m.moveSelection(1)

	case key.Matches(msg, m.keys.Click):
		m.click()

	case key.Matches(msg, m.keys.Slider):
		m.slider = (m.slider + 1) % len(controls.Sliders)
	case key.Matches(msg, m.keys.SliderBack):
		m.slider = (m.slider + len(controls.Sliders) - 1) % len(controls.Sliders)
	case key.Matches(msg, m.keys.Increase):
		m.nudge(1)
	case key.Matches(msg, m.keys.Decrease):
		m.nudge(-1)

	case key.Matches(msg, m.keys.AutoSeed):
		if m.panel.ToggleAutoSeed() {
			m.info("auto-seed on")
		} else {
			m.info("auto-seed off")
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.refresh()
	return m, nil
}

func (m *model) setMode(mode simulation.Mode) {
	m.ctrl.SetMode(mode)
	m.info("mode: " + mode.String())
}

func (m *model) moveSelection(delta int) {
	n := len(m.snap.Nodes)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+delta)%n + n) % n
}

func (m *model) click() {
	res := m.ctrl.Interact(m.selected)
	if res.Branch == simulation.BranchNone {
		m.info(fmt.Sprintf("N%d: nothing happens in %s mode", m.selected, m.snap.State.Mode))
		return
	}
	outcome := "no change"
	if res.Changed {
		outcome = strings.ToUpper(res.Node.Status.String())
	}
	m.info(fmt.Sprintf("N%d %s: %s", m.selected, res.Branch, outcome))
}

func (m *model) nudge(steps int) {
	s := controls.Sliders[m.slider]
	m.panel.Nudge(s, steps)

	switch s {
	case controls.SliderSpeed:
		// The clock reads its interval at start.
		if m.ctrl.State().Running {
			m.ctrl.Stop()
			m.ctrl.Start()
		}
	case controls.SliderNetSize:
		m.info(fmt.Sprintf("%s %s, applied on reset", strings.ToLower(s.String()), m.panel.Label(s)))
		return
	}
	m.info(fmt.Sprintf("%s %s", strings.ToLower(s.String()), m.panel.Label(s)))
}

func (m *model) info(msg string) {
	m.message = msg
	m.messageErr = false
}

func (m *model) fail(msg string) {
	m.message = msg
	m.messageErr = true
	m.logger.Debug("action had no effect", logging.String("reason", msg))
}
