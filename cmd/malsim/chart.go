package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-malsim/pkg/simulation"
)

var bars = []rune("▁▂▃▄▅▆▇█")

type series struct {
	name  string
	color lipgloss.Color
	value func(simulation.Sample) int
}

var chartSeries = []series{
	{"healthy", colorHealthy, func(s simulation.Sample) int { return s.Healthy }},
	{"infected", colorInfected, func(s simulation.Sample) int { return s.Infected }},
	{"compromised", colorCompromised, func(s simulation.Sample) int { return s.Compromised }},
	{"patched", colorPatched, func(s simulation.Sample) int { return s.Patched }},
}

// chartScale is the largest count in the window, at least 1.
func chartScale(window []simulation.Sample) int {
	scale := 1
	for _, s := range window {
		scale = max(scale, s.Max())
	}
	return scale
}

// sparkline maps each value onto one of eight bar heights relative to scale.
func sparkline(values []int, scale int) string {
	if scale < 1 {
		scale = 1
	}
	out := make([]rune, len(values))
	for i, v := range values {
		idx := v * (len(bars) - 1) / scale
		out[i] = bars[min(max(idx, 0), len(bars)-1)]
	}
	return string(out)
}

// renderChart draws one sparkline per series over the window.
func renderChart(window []simulation.Sample) string {
	scale := chartScale(window)
	latest := simulation.Sample{}
	if len(window) > 0 {
		latest = window[len(window)-1]
	}

	lines := make([]string, 0, len(chartSeries))
	for _, s := range chartSeries {
		values := make([]int, len(window))
		for i, sample := range window {
			values[i] = s.value(sample)
		}
		style := lipgloss.NewStyle().Foreground(s.color)
		label := style.Bold(true).Render(fmt.Sprintf("%-12s", s.name))
		lines = append(lines, label+style.Render(sparkline(values, scale))+
			" "+style.Render(strconv.Itoa(s.value(latest))))
	}
	return strings.Join(lines, "\n")
}
