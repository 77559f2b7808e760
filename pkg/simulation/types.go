package simulation

import (
	"fmt"
	"math/rand"
	"strings"
)

// Status is the infection state of a node.
type Status int

const (
	// StatusHealthy nodes have not been compromised or infected
	StatusHealthy Status = iota
	// StatusCompromised nodes were reached by a trojan and escalate to infected over time
	StatusCompromised
	// StatusInfected nodes spread the worm to their neighbours
	StatusInfected
)

// String returns the lower-case name of a status
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusCompromised:
		return "compromised"
	case StatusInfected:
		return "infected"
	default:
		return "unknown"
	}
}

// Mode selects which interaction rule a click applies.
type Mode int

const (
	// ModeWorms is autonomous spread; clicks occasionally infect healthy nodes
	ModeWorms Mode = iota
	// ModeTrojan is user-triggered spread through baited nodes
	ModeTrojan
	// ModeVirus combines the trojan rules with a small chance of direct infection
	ModeVirus
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeWorms, ModeTrojan, ModeVirus}

// String returns the lower-case name of a mode
func (m Mode) String() string {
	switch m {
	case ModeWorms:
		return "worms"
	case ModeTrojan:
		return "trojan"
	case ModeVirus:
		return "virus"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "worms", "worm":
		return ModeWorms, nil
	case "trojan":
		return ModeTrojan, nil
	case "virus":
		return ModeVirus, nil
	default:
		return ModeWorms, fmt.Errorf("unknown mode %q", s)
	}
}

// Node is a single host in the simulated network.
type Node struct {
	ID            int
	Status        Status
	TrojanPresent bool
	Patched       bool
}

// Edge is an undirected link between two nodes. Duplicates are allowed.
type Edge struct {
	A int
	B int
}

// RateConfig holds the tunable probabilities, each expected in [0,1].
// Values are not validated here; the control panel clamps them.
type RateConfig struct {
	WormRate   float64
	TrojanRate float64
	PatchRate  float64
}

// State is the lifecycle state of a simulation run.
type State struct {
	TickCounter int
	Running     bool
	Mode        Mode
	RunID       string
}

// RandomSource produces floats in [0,1).
type RandomSource func() float64

// NewRandomSource returns a RandomSource backed by math/rand. A zero seed
// uses the global generator.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		return rand.Float64
	}
	return rand.New(rand.NewSource(seed)).Float64
}

// Fixed probabilities of the infection rules.
const (
	EdgeProbability      = 0.15
	CompromiseEscalation = 0.3
	WormClickChance      = 0.25
	VirusClickChance     = 0.06
	MinNodes             = 2
)
