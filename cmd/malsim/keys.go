package main

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Worms      key.Binding
	Trojan     key.Binding
	Virus      key.Binding
	StartPause key.Binding
	Step       key.Binding
	Reset      key.Binding
	Seed       key.Binding
	Spawn      key.Binding
	Prev       key.Binding
	Next       key.Binding
	Click      key.Binding
	Slider     key.Binding
	SliderBack key.Binding
	Increase   key.Binding
	Decrease   key.Binding
	AutoSeed   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Worms: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "worms"),
	),
	Trojan: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "trojan"),
	),
	Virus: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "virus"),
	),
	StartPause: key.NewBinding(
		key.WithKeys(" ", "space", "p"),
		key.WithHelp("space", "start/pause"),
	),
	Step: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "step"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Seed: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "seed infected"),
	),
	Spawn: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "spawn trojan"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev node"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next node"),
	),
	Click: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "click node"),
	),
	Slider: key.NewBinding(
		key.WithKeys("tab", "down", "j"),
		key.WithHelp("tab", "next slider"),
	),
	SliderBack: key.NewBinding(
		key.WithKeys("shift+tab", "up", "k"),
		key.WithHelp("shift+tab", "prev slider"),
	),
	Increase: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "increase"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "decrease"),
	),
	AutoSeed: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "auto-seed"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartPause, k.Step, k.Reset, k.Click, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Worms, k.Trojan, k.Virus},
		{k.StartPause, k.Step, k.Reset},
		{k.Seed, k.Spawn, k.AutoSeed},
		{k.Prev, k.Next, k.Click},
		{k.Slider, k.SliderBack, k.Increase, k.Decrease},
		{k.Help, k.Quit},
	}
}
