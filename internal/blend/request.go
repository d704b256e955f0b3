package blend

import (
	"fmt"
	"strings"
)

// Tab names the three ways a blend can be requested.
type Tab int

const (
	FromTanks Tab = iota
	FromTarget
	Random
)

var tabNames = [...]string{"tanks", "target", "random"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return fmt.Sprintf("Tab(%d)", int(t))
	}
	return tabNames[t]
}

// ParseTab accepts the lower-case tab name.
func ParseTab(name string) (Tab, error) {
	for i, n := range tabNames {
		if strings.EqualFold(name, n) {
			return Tab(i), nil
		}
	}
	return 0, invalid("tab", "unknown value %q", name)
}

func (t Tab) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tab) UnmarshalText(text []byte) error {
	parsed, err := ParseTab(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// RandomMode selects a sampling strategy.
type RandomMode int

const (
	FullRandomMode RandomMode = iota
	SelectedRandomMode
	BestOfRandomMode
)

var randomModeNames = [...]string{"full", "selected", "best"}

func (m RandomMode) String() string {
	if m < 0 || int(m) >= len(randomModeNames) {
		return fmt.Sprintf("RandomMode(%d)", int(m))
	}
	return randomModeNames[m]
}

// ParseRandomMode accepts the lower-case mode name.
func ParseRandomMode(name string) (RandomMode, error) {
	for i, n := range randomModeNames {
		if strings.EqualFold(name, n) {
			return RandomMode(i), nil
		}
	}
	return 0, invalid("mode", "unknown value %q", name)
}

func (m RandomMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *RandomMode) UnmarshalText(text []byte) error {
	parsed, err := ParseRandomMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Request is a single blend calculation. Only the fields of the chosen tab
// are read.
type Request struct {
	Tab Tab

	// FromTanks
	Allocations []Allocation

	// FromTarget
	Target     TargetSpec
	Constraint Constraint

	// Random
	Mode       RandomMode
	TankIDs    []string
	Iterations int
	ToShow     int
}

// Outcome carries the result of whichever tab ran.
type Outcome struct {
	Tab        Tab           `json:"tab"`
	Components []Component   `json:"components,omitempty"`
	Mix        *Result       `json:"mix,omitempty"`
	Search     *SearchResult `json:"search,omitempty"`
	Random     []RandomBlend `json:"random,omitempty"`
}

// Run dispatches req against cellar.
func (e *Engine) Run(cellar Cellar, req Request) (Outcome, error) {
	out := Outcome{Tab: req.Tab}
	switch req.Tab {
	case FromTanks:
		components, result, err := e.MixAllocations(cellar, req.Allocations)
		if err != nil {
			return out, err
		}
		out.Components = components
		out.Mix = &result
	case FromTarget:
		search, err := e.SearchTargets(cellar, req.Target, req.Constraint)
		if err != nil {
			return out, err
		}
		out.Search = &search
	case Random:
		blends, err := e.runRandom(cellar, req)
		if err != nil {
			return out, err
		}
		out.Random = blends
	default:
		return out, invalid("tab", "unknown value %d", int(req.Tab))
	}
	return out, nil
}

func (e *Engine) runRandom(cellar Cellar, req Request) ([]RandomBlend, error) {
	switch req.Mode {
	case FullRandomMode:
		b, err := e.FullRandom(cellar)
		if err != nil {
			return nil, err
		}
		return []RandomBlend{b}, nil
	case SelectedRandomMode:
		b, err := e.SelectedRandom(cellar, req.TankIDs)
		if err != nil {
			return nil, err
		}
		return []RandomBlend{b}, nil
	case BestOfRandomMode:
		return e.BestOfRandom(cellar, req.Iterations, req.ToShow)
	default:
		return nil, invalid("mode", "unknown value %d", int(req.Mode))
	}
}
