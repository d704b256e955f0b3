package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withPH(ph float64, feasible bool) Combination {
	return Combination{Feasible: feasible, Result: Result{PH: Float(ph)}}
}

func TestScorePHMonotonic(t *testing.T) {
	t.Parallel()

	spec := TargetSpec{Alcohol: 13, Ranges: map[Field]Range{PH: {Min: Float(3.2), Max: Float(3.8)}}}
	weights := DefaultWeights()

	inside := Score(withPH(3.5, true), spec, weights)
	outside := Score(withPH(4.2, true), spec, weights)
	further := Score(withPH(4.5, true), spec, weights)

	assert.Equal(t, 100.0, inside)
	assert.GreaterOrEqual(t, inside, outside)
	assert.GreaterOrEqual(t, outside, further)
	assert.InDelta(t, 100-0.4*20, outside, 1e-9)
}

func TestScorePenalisesInfeasible(t *testing.T) {
	t.Parallel()

	spec := TargetSpec{Alcohol: 13}
	assert.Equal(t, 70.0, Score(withPH(3.5, false), spec, DefaultWeights()))
}

func TestScoreIgnoresMissingReadingsAndClamps(t *testing.T) {
	t.Parallel()

	spec := TargetSpec{Alcohol: 13, Ranges: map[Field]Range{
		TotalAcidity: {Min: Float(5)},
		PH:           {Max: Float(3.0)},
	}}

	assert.Equal(t, 100.0, Score(Combination{Feasible: true}, spec, DefaultWeights()))
	assert.Equal(t, 0.0, Score(withPH(9, false), spec, DefaultWeights()))
}

func TestBalanceScore(t *testing.T) {
	t.Parallel()

	policy := DefaultBalancePolicy()
	a := tank("a", 100, 12)
	b := tank("b", 100, 13)
	components := []Component{{Tank: a, BlendVolume: 50}, {Tank: b, BlendVolume: 50}}
	result := Result{
		TotalVolume:    100,
		AlcoholPercent: 12.5,
		PH:             Float(3.5),
		TotalAcidity:   Float(6),
		VolatileAcid:   Float(0.4),
	}

	// base 100 + even 10 + alcohol 20 + pH 15 + TA 10 + VA 10
	assert.Equal(t, 165.0, policy.BalanceScore(components, result))

	lopsided := []Component{{Tank: a, BlendVolume: 95}, {Tank: b, BlendVolume: 5}}
	hot := Result{TotalVolume: 100, AlcoholPercent: 17, VolatileAcid: Float(1.1)}
	// 100 - 15 - 20 - 10
	assert.InDelta(t, 55, policy.BalanceScore(lopsided, hot), 1e-9)
}

func TestScoreWeightsEachField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field  Field
		weight float64
	}{
		{field: TotalAcidity, weight: 5},
		{field: VolatileAcidity, weight: 10},
		{field: PH, weight: 20},
		{field: ResidualSugars, weight: 3},
		{field: FreeSO2, weight: 0.5},
		{field: TotalSO2, weight: 0.3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.field.String(), func(t *testing.T) {
			t.Parallel()

			spec := TargetSpec{Alcohol: 13, Ranges: map[Field]Range{tt.field: {Min: Float(10), Max: Float(20)}}}
			for _, v := range []float64{9, 21} {
				var c Combination
				c.Feasible = true
				c.Result.set(tt.field, Float(v))
				assert.InDelta(t, 100-tt.weight, Score(c, spec, DefaultWeights()), 1e-9, "reading %v", v)
			}
		})
	}
}

func TestEngineRate(t *testing.T) {
	t.Parallel()

	engine := seeded()
	a := tank("a", 100, 12)
	b := tank("b", 100, 13)
	components := []Component{{Tank: a, BlendVolume: 50}, {Tank: b, BlendVolume: 50}}
	result := Result{TotalVolume: 100, AlcoholPercent: 12.5, PH: Float(3.5), TotalAcidity: Float(6), VolatileAcid: Float(0.4)}

	balance, err := engine.Rate(components, result, nil)
	assert.NoError(t, err)
	assert.Equal(t, 165.0, balance)

	spec := &TargetSpec{Alcohol: 12.5, Ranges: map[Field]Range{PH: {Max: Float(3.3)}}}
	targeted, err := engine.Rate(components, result, spec)
	assert.NoError(t, err)
	assert.InDelta(t, 96, targeted, 1e-9)

	_, err = engine.Rate(components, result, &TargetSpec{Ranges: map[Field]Range{PH: {Min: Float(4), Max: Float(3)}}})
	assert.True(t, IsValidation(err))
}
