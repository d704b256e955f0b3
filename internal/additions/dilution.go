package additions

import "fmt"

// MaxRecommendedDilution is the water addition, in percent of the starting
// volume, above which a dilution is flagged.
const MaxRecommendedDilution = 20.0

type WaterInput struct {
	Volume    float64 `json:"volume"`
	Current   float64 `json:"currentValue"`
	Target    float64 `json:"targetValue"`
	Parameter string  `json:"parameter,omitempty"`
}

type WaterResult struct {
	WaterVolume        float64 `json:"waterVolume"`
	FinalVolume        float64 `json:"finalVolume"`
	FinalConcentration float64 `json:"finalConcentration"`
	DilutionPercent    float64 `json:"dilutionPercent"`
	WithinLimit        bool    `json:"isWithinRecommendation"`
	MaxRecommended     float64 `json:"maxRecommended"`
	Parameter          string  `json:"parameter,omitempty"`
}

// Water solves C1·V1 = C2·V2 for the water that brings Current down to Target.
func Water(in WaterInput) (WaterResult, error) {
	if err := requireVolume(in.Volume); err != nil {
		return WaterResult{}, err
	}
	if err := requirePositive("currentValue", in.Current); err != nil {
		return WaterResult{}, err
	}
	if err := requirePositive("targetValue", in.Target); err != nil {
		return WaterResult{}, err
	}
	if in.Target >= in.Current {
		return WaterResult{}, fmt.Errorf("%w: %g >= %g", ErrTargetNotBelow, in.Target, in.Current)
	}

	final := in.Current * in.Volume / in.Target
	water := final - in.Volume
	percent := water / in.Volume * 100
	return WaterResult{
		WaterVolume:        round(water, 2),
		FinalVolume:        round(final, 2),
		FinalConcentration: round(in.Current*in.Volume/final, 2),
		DilutionPercent:    round(percent, 1),
		WithinLimit:        percent <= MaxRecommendedDilution,
		MaxRecommended:     MaxRecommendedDilution,
		Parameter:          in.Parameter,
	}, nil
}
