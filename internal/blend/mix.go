package blend

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mix computes the blended chemistry of the given components.
func Mix(components []Component) (Result, error) {
	if len(components) < 2 {
		return Result{}, invalid("components", "needs at least 2 tanks, got %d", len(components))
	}
	for _, c := range components {
		if !(c.BlendVolume > 0) {
			return Result{}, invalid("blendVolume", "for tank %q must be greater than zero", c.Tank.Name)
		}
	}
	return mix(components), nil
}

// mix assumes validated components.
func mix(components []Component) Result {
	volumes := make([]float64, len(components))
	alcohol := make([]float64, len(components))
	for i, c := range components {
		volumes[i] = c.BlendVolume
		alcohol[i] = c.Tank.AlcoholPercent
	}
	total := floats.Sum(volumes)
	if !(total > 0) {
		panic("blend: mix called with non-positive total volume")
	}

	result := Result{
		TotalVolume:    total,
		AlcoholPercent: stat.Mean(alcohol, volumes),
	}
	for _, f := range Fields {
		result.set(f, blendField(components, volumes, f))
	}
	return result
}

// blendField folds one optional reading across all components. The first
// missing reading makes the whole field absent.
func blendField(components []Component, volumes []float64, f Field) *float64 {
	values := make([]float64, 0, len(components))
	for _, c := range components {
		v := c.Tank.Reading(f)
		if v == nil {
			return nil
		}
		if f == PH {
			values = append(values, math.Pow(10, -*v))
			continue
		}
		values = append(values, *v)
	}

	mean := stat.Mean(values, volumes)
	if f == PH {
		mean = -math.Log10(mean)
	}
	return &mean
}

// Proportions returns each component's share of the total volume, in [0,1].
func Proportions(components []Component) []float64 {
	shares := make([]float64, len(components))
	for i, c := range components {
		shares[i] = c.BlendVolume
	}
	total := floats.Sum(shares)
	if total <= 0 {
		return shares
	}
	floats.Scale(1/total, shares)
	return shares
}
