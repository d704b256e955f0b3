package blend

import "math"

const (
	// minAlcoholSpread below which two tanks have no unique mixing solution.
	minAlcoholSpread = 0.01
	// notionalTotal is the batch size free-mode ratios are expressed against.
	notionalTotal = 100.0
	volumeEpsilon = 1e-9
)

// Constraint selects how the pairwise solver fixes volumes.
// It is either FreeMode or DrainMode.
type Constraint interface {
	constraint()
}

// FreeMode solves the mixing ratio on a notional 100 L batch.
type FreeMode struct{}

// DrainMode requires the named tank to be emptied completely.
type DrainMode struct {
	TankID string
}

func (FreeMode) constraint()  {}
func (DrainMode) constraint() {}

// Combination is a solved two-tank blend.
type Combination struct {
	TankA    Tank    `json:"tankA"`
	TankB    Tank    `json:"tankB"`
	VolumeA  float64 `json:"volumeA"`
	VolumeB  float64 `json:"volumeB"`
	PercentA float64 `json:"percentA"`
	PercentB float64 `json:"percentB"`
	Result   Result  `json:"result"`
	Score    float64 `json:"score"`
	Feasible bool    `json:"feasible"`
}

// Components returns the combination as mixable components.
func (c Combination) Components() []Component {
	return []Component{
		{Tank: c.TankA, BlendVolume: c.VolumeA},
		{Tank: c.TankB, BlendVolume: c.VolumeB},
	}
}

// SolvePair finds the volumes of a and b whose blend reaches targetAlcohol.
// ok is false when no usable solution exists; that is not an error.
func SolvePair(a, b Tank, targetAlcohol float64, c Constraint) (Combination, bool) {
	alcA, alcB := a.AlcoholPercent, b.AlcoholPercent
	if math.Abs(alcA-alcB) < minAlcoholSpread {
		return Combination{}, false
	}
	if targetAlcohol < math.Min(alcA, alcB) || targetAlcohol > math.Max(alcA, alcB) {
		return Combination{}, false
	}

	availA, availB := a.AvailableLiters(), b.AvailableLiters()

	var volA, volB float64
	switch mode := c.(type) {
	case DrainMode:
		switch mode.TankID {
		case a.ID:
			var ok bool
			volA = availA
			volB, ok = partnerVolume(volA, alcA, alcB, targetAlcohol, availB)
			if !ok {
				return Combination{}, false
			}
		case b.ID:
			var ok bool
			volB = availB
			volA, ok = partnerVolume(volB, alcB, alcA, targetAlcohol, availA)
			if !ok {
				return Combination{}, false
			}
		default:
			var ok bool
			volA, volB, ok = freeVolumes(alcA, alcB, targetAlcohol)
			if !ok {
				return Combination{}, false
			}
		}
	case FreeMode, nil:
		var ok bool
		volA, volB, ok = freeVolumes(alcA, alcB, targetAlcohol)
		if !ok {
			return Combination{}, false
		}
	default:
		panic("blend: unknown constraint")
	}

	total := volA + volB
	combo := Combination{
		TankA:    a,
		TankB:    b,
		VolumeA:  volA,
		VolumeB:  volB,
		PercentA: volA / total * 100,
		PercentB: volB / total * 100,
		Feasible: volA <= availA+volumeEpsilon && volB <= availB+volumeEpsilon,
	}
	combo.Result = mix(combo.Components())
	return combo, true
}

// freeVolumes splits the notional batch between a and b.
func freeVolumes(alcA, alcB, target float64) (float64, float64, bool) {
	denominator := alcA - target
	if denominator == 0 {
		return 0, 0, false
	}
	ratio := (target - alcB) / denominator
	if ratio <= 0 || math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		return 0, 0, false
	}
	volA := notionalTotal * ratio / (1 + ratio)
	return volA, notionalTotal - volA, true
}

// partnerVolume solves the liters of the partner tank needed when fixed
// liters of the drained tank go into the blend.
func partnerVolume(fixed, fixedAlcohol, partnerAlcohol, target, partnerAvailable float64) (float64, bool) {
	denominator := target - partnerAlcohol
	if denominator == 0 {
		return 0, false
	}
	volume := fixed * (fixedAlcohol - target) / denominator
	if !(volume > 0) || volume > partnerAvailable+volumeEpsilon {
		return 0, false
	}
	return volume, true
}
