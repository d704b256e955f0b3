package blend

import (
	"gonum.org/v1/gonum/floats"
)

// Band is a closed interval on a reading.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether v lies within the band, bounds included.
func (b Band) Contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

func (b Band) distance(v float64) float64 {
	switch {
	case v < b.Low:
		return b.Low - v
	case v > b.High:
		return v - b.High
	default:
		return 0
	}
}

// BalancePolicy holds the empirical constants of the balance heuristic used
// to rank randomly generated blends. They are cellar preferences, not chemistry.
type BalancePolicy struct {
	Base     float64
	MaxScore float64

	// DominantShare is the component share above which the blend is
	// considered lopsided; each point of share above it costs DominantPenalty.
	DominantShare   float64
	DominantPenalty float64
	// EvenSpread is the max-min share difference under which EvenBonus applies.
	EvenSpread float64
	EvenBonus  float64

	AlcoholIdeal      Band
	AlcoholAcceptable Band
	AlcoholIdealBonus float64
	AlcoholOKBonus    float64
	AlcoholPenalty    float64 // per %vol outside AlcoholAcceptable

	PHIdeal      Band
	PHAcceptable Band
	PHIdealBonus float64
	PHOKBonus    float64

	AcidityIdeal Band
	AcidityBonus float64

	VolatileBest      float64
	VolatileOK        float64
	VolatileBestBonus float64
	VolatileOKBonus   float64
	VolatilePenalty   float64 // per g/L above VolatileOK
}

// DefaultBalancePolicy returns the constants the cellar tool shipped with.
func DefaultBalancePolicy() BalancePolicy {
	return BalancePolicy{
		Base:     100,
		MaxScore: 200,

		DominantShare:   0.8,
		DominantPenalty: 100,
		EvenSpread:      0.3,
		EvenBonus:       10,

		AlcoholIdeal:      Band{Low: 11, High: 14},
		AlcoholAcceptable: Band{Low: 10, High: 15},
		AlcoholIdealBonus: 20,
		AlcoholOKBonus:    10,
		AlcoholPenalty:    10,

		PHIdeal:      Band{Low: 3.2, High: 3.8},
		PHAcceptable: Band{Low: 3.0, High: 4.0},
		PHIdealBonus: 15,
		PHOKBonus:    5,

		AcidityIdeal: Band{Low: 5, High: 7},
		AcidityBonus: 10,

		VolatileBest:      0.6,
		VolatileOK:        0.9,
		VolatileBestBonus: 10,
		VolatileOKBonus:   5,
		VolatilePenalty:   50,
	}
}

// BalanceScore rates how harmonious a blend looks without any target,
// in [0, p.MaxScore].
func (p BalancePolicy) BalanceScore(components []Component, result Result) float64 {
	score := p.Base

	shares := Proportions(components)
	if len(shares) > 0 {
		largest := floats.Max(shares)
		if largest > p.DominantShare {
			score -= (largest - p.DominantShare) * p.DominantPenalty
		}
		if largest-floats.Min(shares) < p.EvenSpread {
			score += p.EvenBonus
		}
	}

	switch alcohol := result.AlcoholPercent; {
	case p.AlcoholIdeal.Contains(alcohol):
		score += p.AlcoholIdealBonus
	case p.AlcoholAcceptable.Contains(alcohol):
		score += p.AlcoholOKBonus
	default:
		score -= p.AlcoholAcceptable.distance(alcohol) * p.AlcoholPenalty
	}

	if ph := result.PH; ph != nil {
		switch {
		case p.PHIdeal.Contains(*ph):
			score += p.PHIdealBonus
		case p.PHAcceptable.Contains(*ph):
			score += p.PHOKBonus
		}
	}

	if ta := result.TotalAcidity; ta != nil && p.AcidityIdeal.Contains(*ta) {
		score += p.AcidityBonus
	}

	if va := result.VolatileAcid; va != nil {
		switch {
		case *va <= p.VolatileBest:
			score += p.VolatileBestBonus
		case *va <= p.VolatileOK:
			score += p.VolatileOKBonus
		default:
			score -= (*va - p.VolatileOK) * p.VolatilePenalty
		}
	}

	return clamp(score, 0, p.MaxScore)
}
