package additions

import "fmt"

type CreamOfTartarInput struct {
	// Rate of potassium bitartrate in mg/L.
	Rate   float64 `json:"additionRate"`
	Volume float64 `json:"volume"`
}

type CreamOfTartarResult struct {
	Kilograms float64 `json:"amountKg"`
}

// CreamOfTartar seeds cold stabilization with potassium bitartrate.
func CreamOfTartar(in CreamOfTartarInput) (CreamOfTartarResult, error) {
	if err := requirePositive("additionRate", in.Rate); err != nil {
		return CreamOfTartarResult{}, err
	}
	if err := requireVolume(in.Volume); err != nil {
		return CreamOfTartarResult{}, err
	}
	return CreamOfTartarResult{Kilograms: round(in.Rate*in.Volume/1e6, 3)}, nil
}

// Ascorbic acid limits, in g/hL, and the free SO2 it needs alongside, in mg/L.
const (
	AscorbicLegalMax       = 25.0
	ascorbicRecommendedMax = 20.0
	ascorbicRecommendedMin = 5.0
	AscorbicMinFreeSO2     = 20.0
	// ascorbicSO2Consumption is the free SO2 consumed per mg/L of ascorbic acid.
	ascorbicSO2Consumption = 0.5
)

type AscorbicInput struct {
	Volume float64 `json:"volume"`
	Dosage float64 `json:"dosage"`
	// Unit is "g/hl" (default) or "mg/l".
	Unit string `json:"unit,omitempty"`
	// FreeSO2 is the current free SO2 in mg/L.
	FreeSO2 float64 `json:"currentSO2"`
}

type Warning struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type AscorbicResult struct {
	Grams              float64   `json:"ascorbicAmount"`
	Milligrams         float64   `json:"ascorbicAmountMg"`
	DosageGPerHL       float64   `json:"dosageRate"`
	ConcentrationMgL   float64   `json:"concentrationMgL"`
	Legal              bool      `json:"isLegal"`
	InRecommendedRange bool      `json:"isInRecommendedRange"`
	SufficientSO2      bool      `json:"hasSufficientSO2"`
	MinRequiredSO2     float64   `json:"minRequiredSO2"`
	CurrentSO2         float64   `json:"currentSO2"`
	SO2Consumption     float64   `json:"estimatedSO2Consumption"`
	FinalSO2           float64   `json:"estimatedFinalSO2"`
	Warnings           []Warning `json:"warnings"`
}

// AscorbicAcid doses ascorbic acid and checks the free SO2 left to back it.
func AscorbicAcid(in AscorbicInput) (AscorbicResult, error) {
	if err := requireVolume(in.Volume); err != nil {
		return AscorbicResult{}, err
	}
	if err := requirePositive("dosage", in.Dosage); err != nil {
		return AscorbicResult{}, err
	}
	if in.FreeSO2 < 0 {
		return AscorbicResult{}, fmt.Errorf("%w: currentSO2 %g", ErrOutOfRange, in.FreeSO2)
	}

	dosage := in.Dosage
	switch in.Unit {
	case "", "g/hl":
	case "mg/l":
		dosage /= 10
	default:
		return AscorbicResult{}, fmt.Errorf("%w: unit %q", ErrOutOfRange, in.Unit)
	}

	grams := dosage * in.Volume / 100
	concentration := dosage * 10
	consumption := concentration * ascorbicSO2Consumption
	final := in.FreeSO2 - consumption
	return AscorbicResult{
		Grams:              round(grams, 2),
		Milligrams:         round(grams*1000, 0),
		DosageGPerHL:       round(dosage, 1),
		ConcentrationMgL:   round(concentration, 0),
		Legal:              dosage <= AscorbicLegalMax,
		InRecommendedRange: dosage >= ascorbicRecommendedMin && dosage <= ascorbicRecommendedMax,
		SufficientSO2:      in.FreeSO2 >= AscorbicMinFreeSO2,
		MinRequiredSO2:     AscorbicMinFreeSO2,
		CurrentSO2:         in.FreeSO2,
		SO2Consumption:     round(consumption, 0),
		FinalSO2:           round(final, 0),
		Warnings:           ascorbicWarnings(dosage, in.FreeSO2, final),
	}, nil
}

func ascorbicWarnings(dosage, freeSO2, finalSO2 float64) []Warning {
	var out []Warning
	switch {
	case dosage > AscorbicLegalMax:
		out = append(out, Warning{"ERROR", "dosage exceeds the 25 g/hL legal maximum in most regions"})
	case dosage > ascorbicRecommendedMax:
		out = append(out, Warning{"WARNING", "high dosage may cause off-flavors and haze"})
	case dosage < ascorbicRecommendedMin:
		out = append(out, Warning{"INFO", "low dosage gives minimal antioxidant protection"})
	}
	switch {
	case freeSO2 == 0:
		out = append(out, Warning{"CRITICAL", "no free SO2 given; ascorbic acid without SO2 causes oxidation and browning"})
	case freeSO2 < AscorbicMinFreeSO2:
		out = append(out, Warning{"CRITICAL", fmt.Sprintf("free SO2 of %g mg/L is below the 20 mg/L minimum; add SO2 first", freeSO2)})
	case finalSO2 < 15:
		out = append(out, Warning{"WARNING", fmt.Sprintf("free SO2 drops to %g mg/L after the addition", round(finalSO2, 0))})
	default:
		out = append(out, Warning{"OK", fmt.Sprintf("free SO2 of %g mg/L protects the addition", freeSO2)})
	}
	return out
}

type AscorbicDegradationInput struct {
	// Dosage at addition, in g/hL.
	Dosage      float64 `json:"initialDosage"`
	Months      float64 `json:"monthsStored"`
	Temperature float64 `json:"temperature"`
	FreeSO2     float64 `json:"so2Level"`
}

type AscorbicDegradationResult struct {
	MonthlyLossPercent float64 `json:"degradationRate"`
	RemainingPercent   float64 `json:"remainingPercent"`
	RemainingDosage    float64 `json:"remainingDosage"`
	Effective          bool    `json:"isStillEffective"`
	Recommendation     string  `json:"recommendation"`
}

// AscorbicDegradation estimates how much ascorbic acid survives storage.
// Loss is linear per month: faster above 20 °C, slower with good free SO2.
func AscorbicDegradation(in AscorbicDegradationInput) (AscorbicDegradationResult, error) {
	if err := requirePositive("initialDosage", in.Dosage); err != nil {
		return AscorbicDegradationResult{}, err
	}
	if !(in.Months >= 0) {
		return AscorbicDegradationResult{}, fmt.Errorf("%w: monthsStored %g", ErrOutOfRange, in.Months)
	}

	var monthly float64
	switch {
	case in.Temperature > 20:
		monthly = 15 + (in.Temperature-20)*2
	case in.FreeSO2 > 20:
		monthly = 7
	default:
		monthly = 12
	}
	remaining := max(0, 100-monthly*in.Months)
	res := AscorbicDegradationResult{
		MonthlyLossPercent: monthly,
		RemainingPercent:   round(remaining, 0),
		RemainingDosage:    round(in.Dosage*remaining/100, 1),
		Effective:          remaining > 30,
		Recommendation:     "still providing protection",
	}
	if remaining < 30 {
		res.Recommendation = "consider additional SO2 protection"
	}
	return res, nil
}
