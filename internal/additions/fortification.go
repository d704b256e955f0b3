package additions

import "fmt"

const DefaultSpiritStrength = 96.0

type FortificationInput struct {
	Volume         float64 `json:"volume"`
	CurrentAlcohol float64 `json:"currentAlcohol"`
	TargetAlcohol  float64 `json:"targetAlcohol"`
	// SpiritStrength defaults to DefaultSpiritStrength when zero.
	SpiritStrength float64 `json:"spiritStrength,omitempty"`
}

type FortificationResult struct {
	SpiritVolume    float64 `json:"spiritVolume"`
	FinalVolume     float64 `json:"finalVolume"`
	FinalAlcohol    float64 `json:"finalAlcohol"`
	AbsoluteAlcohol float64 `json:"absoluteAlcohol"`
	DilutionFactor  float64 `json:"dilutionFactor"`
	SpiritStrength  float64 `json:"spiritStrength"`
}

// Fortification solves the Pearson square for the spirit that lifts Volume
// liters from CurrentAlcohol to TargetAlcohol.
func Fortification(in FortificationInput) (FortificationResult, error) {
	spirit := in.SpiritStrength
	if spirit == 0 {
		spirit = DefaultSpiritStrength
	}
	if err := requireVolume(in.Volume); err != nil {
		return FortificationResult{}, err
	}
	if in.TargetAlcohol <= in.CurrentAlcohol {
		return FortificationResult{}, fmt.Errorf("%w: %g <= %g %%vol", ErrTargetNotAbove, in.TargetAlcohol, in.CurrentAlcohol)
	}
	if spirit <= in.TargetAlcohol {
		return FortificationResult{}, ErrSpiritTooWeak
	}
	if in.CurrentAlcohol < 0 || in.CurrentAlcohol > 100 {
		return FortificationResult{}, fmt.Errorf("%w: currentAlcohol must be between 0 and 100", ErrOutOfRange)
	}
	if in.TargetAlcohol < 0 || in.TargetAlcohol > 100 {
		return FortificationResult{}, fmt.Errorf("%w: targetAlcohol must be between 0 and 100", ErrOutOfRange)
	}

	spiritVolume := in.Volume * (in.TargetAlcohol - in.CurrentAlcohol) / (spirit - in.TargetAlcohol)
	final := in.Volume + spiritVolume
	return FortificationResult{
		SpiritVolume:    round(spiritVolume, 3),
		FinalVolume:     round(final, 3),
		FinalAlcohol:    round((in.Volume*in.CurrentAlcohol+spiritVolume*spirit)/final, 2),
		AbsoluteAlcohol: round(spiritVolume*spirit/100, 3),
		DilutionFactor:  round(final/in.Volume, 3),
		SpiritStrength:  spirit,
	}, nil
}
