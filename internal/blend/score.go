package blend

import "math"

const (
	maxScore          = 100.0
	infeasiblePenalty = 30.0
)

// Range bounds a reading. A nil side is unbounded.
type Range struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Declared reports whether at least one bound is set.
func (r Range) Declared() bool {
	return r.Min != nil || r.Max != nil
}

// Contains reports whether v violates neither declared bound.
func (r Range) Contains(v float64) bool {
	return r.Distance(v) == 0
}

// Distance is how far v lies outside the range, zero when inside.
func (r Range) Distance(v float64) float64 {
	if r.Min != nil && v < *r.Min {
		return *r.Min - v
	}
	if r.Max != nil && v > *r.Max {
		return v - *r.Max
	}
	return 0
}

// TargetSpec is what a target-mode search aims for: an alcohol value plus
// optional ranges on the other readings.
type TargetSpec struct {
	Alcohol float64         `json:"alcohol"`
	Ranges  map[Field]Range `json:"ranges,omitempty"`
}

func (s TargetSpec) validate() error {
	for _, f := range Fields {
		r, ok := s.Ranges[f]
		if !ok {
			continue
		}
		for _, b := range []*float64{r.Min, r.Max} {
			if b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0)) {
				return invalid("ranges", "%s bound must be a finite number", f)
			}
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return invalid("ranges", "%s min %g is above max %g", f, *r.Min, *r.Max)
		}
	}
	return nil
}

// Range returns the declared range for f.
func (s TargetSpec) Range(f Field) (Range, bool) {
	r, ok := s.Ranges[f]
	if !ok || !r.Declared() {
		return Range{}, false
	}
	return r, true
}

// Weights are the points subtracted per unit a reading lies outside its range.
type Weights map[Field]float64

// DefaultWeights scale each reading by its typical sensitivity so that pH
// (a ~1 unit span) and SO2 (tens of mg/L) weigh comparably.
func DefaultWeights() Weights {
	return Weights{
		TotalAcidity:    5,
		VolatileAcidity: 10,
		PH:              20,
		ResidualSugars:  3,
		FreeSO2:         0.5,
		TotalSO2:        0.3,
	}
}

// Score rates a solved combination against the target ranges, in [0,100].
func Score(c Combination, spec TargetSpec, weights Weights) float64 {
	score := maxScore
	if !c.Feasible {
		score -= infeasiblePenalty
	}
	for _, f := range Fields {
		r, ok := spec.Range(f)
		if !ok {
			continue
		}
		v := c.Result.Reading(f)
		if v == nil {
			continue
		}
		score -= r.Distance(*v) * weights[f]
	}
	return clamp(score, 0, maxScore)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
