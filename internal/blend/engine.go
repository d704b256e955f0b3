package blend

import (
	"math/rand/v2"
	"time"
)

const (
	DefaultTopK          = 5
	DefaultMaxIterations = 100
)

// Options configure an Engine. Zero values fall back to defaults.
type Options struct {
	TopK          int
	MaxIterations int
	Weights       Weights
	Balance       *BalancePolicy
	// Rand drives the random modes. Supply a seeded generator for
	// reproducible results.
	Rand *rand.Rand
}

// Engine runs blend calculations over cellar snapshots. It keeps no state
// between calls apart from its random source, so one Engine should serve a
// single request or goroutine at a time.
type Engine struct {
	topK          int
	maxIterations int
	weights       Weights
	balance       BalancePolicy
	rng           *rand.Rand
}

// NewEngine builds an Engine from opts.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		topK:          opts.TopK,
		maxIterations: opts.MaxIterations,
		weights:       opts.Weights,
		rng:           opts.Rand,
	}
	if e.topK <= 0 {
		e.topK = DefaultTopK
	}
	if e.maxIterations <= 0 {
		e.maxIterations = DefaultMaxIterations
	}
	if e.weights == nil {
		e.weights = DefaultWeights()
	}
	if opts.Balance != nil {
		e.balance = *opts.Balance
	} else {
		e.balance = DefaultBalancePolicy()
	}
	if e.rng == nil {
		e.rng = NewRand(0)
	}
	return e
}

// NewRand returns a generator seeded with seed, or with the clock when seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// TopK is the number of target-mode combinations presented.
func (e *Engine) TopK() int {
	return e.topK
}

// Allocation asks for a volume of one tank in a hand-picked blend.
type Allocation struct {
	TankID string  `json:"tankId"`
	Volume float64 `json:"volume"`
	Unit   Unit    `json:"unit,omitempty"`
}

// Rate scores an already mixed blend: against spec when one is given,
// otherwise on balance alone.
func (e *Engine) Rate(components []Component, result Result, spec *TargetSpec) (float64, error) {
	if spec == nil {
		return e.balance.BalanceScore(components, result), nil
	}
	if err := spec.validate(); err != nil {
		return 0, err
	}
	return Score(Combination{Feasible: true, Result: result}, *spec, e.weights), nil
}

// MixAllocations resolves allocations against the cellar and mixes them.
func (e *Engine) MixAllocations(cellar Cellar, allocations []Allocation) ([]Component, Result, error) {
	if len(allocations) < 2 {
		return nil, Result{}, invalid("allocations", "needs at least 2 tanks, got %d", len(allocations))
	}
	ids := make([]string, len(allocations))
	for i, a := range allocations {
		ids[i] = a.TankID
	}
	tanks, err := cellar.Select(ids)
	if err != nil {
		return nil, Result{}, err
	}

	components := make([]Component, len(tanks))
	for i, t := range tanks {
		unit := allocations[i].Unit
		if unit == "" {
			unit = Liters
		}
		if !unit.Valid() {
			return nil, Result{}, invalid("unit", "unknown unit %q for tank %q", unit, t.ID)
		}
		components[i] = Component{Tank: t, BlendVolume: ToLiters(allocations[i].Volume, unit)}
	}
	result, err := Mix(components)
	if err != nil {
		return nil, Result{}, err
	}
	return components, result, nil
}
