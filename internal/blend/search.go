package blend

import (
	"math"
	"sort"
)

// SearchResult holds the best combinations of a target search.
type SearchResult struct {
	Combinations []Combination `json:"combinations"`
	TotalFound   int           `json:"totalFound"`
}

// SearchTargets solves every eligible tank pair for spec and returns the top
// scoring combinations. With a DrainMode constraint only pairs containing the
// drained tank are considered.
func (e *Engine) SearchTargets(cellar Cellar, spec TargetSpec, c Constraint) (SearchResult, error) {
	if cellar.Len() < 2 {
		return SearchResult{}, invalid("tanks", "needs at least 2 tanks, got %d", cellar.Len())
	}
	if math.IsNaN(spec.Alcohol) || spec.Alcohol < 0 || spec.Alcohol > 100 {
		return SearchResult{}, invalid("alcohol", "must be between 0 and 100")
	}
	if err := spec.validate(); err != nil {
		return SearchResult{}, err
	}
	drainID := ""
	if d, ok := c.(DrainMode); ok {
		if _, found := cellar.Find(d.TankID); !found {
			return SearchResult{}, invalid("drainTankId", "references unknown tank %q", d.TankID)
		}
		drainID = d.TankID
	}

	tanks := cellar.tanks
	var found []Combination
	for i := 0; i < len(tanks); i++ {
		for j := i + 1; j < len(tanks); j++ {
			if drainID != "" && tanks[i].ID != drainID && tanks[j].ID != drainID {
				continue
			}
			combo, ok := SolvePair(tanks[i], tanks[j], spec.Alcohol, c)
			if !ok {
				continue
			}
			combo.Score = Score(combo, spec, e.weights)
			found = append(found, combo)
		}
	}
	if len(found) == 0 {
		return SearchResult{}, ErrNoCombinations
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Score != found[j].Score {
			return found[i].Score > found[j].Score
		}
		return found[i].Feasible && !found[j].Feasible
	})

	result := SearchResult{TotalFound: len(found)}
	if len(found) > e.topK {
		found = found[:e.topK]
	}
	result.Combinations = found
	return result, nil
}
