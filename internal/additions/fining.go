package additions

import "fmt"

// cuSulfateCopperShare is the copper mass fraction of CuSO4·5H2O.
const cuSulfateCopperShare = 0.2545

// bentoniteWaterRatio is the hydration water per gram of bentonite.
const bentoniteWaterRatio = 10.0

type BentoniteInput struct {
	Volume float64 `json:"volume"`
	// Dosage in g/hL.
	Dosage float64 `json:"dosage"`
}

type BentoniteResult struct {
	Grams      float64 `json:"bentoniteAmount"`
	Kilograms  float64 `json:"bentoniteAmountKg"`
	WaterGrams float64 `json:"waterAmount"`
	WaterLiter float64 `json:"waterAmountL"`
	Note       string  `json:"notes"`
}

func Bentonite(in BentoniteInput) (BentoniteResult, error) {
	if err := requireVolume(in.Volume); err != nil {
		return BentoniteResult{}, err
	}
	if err := requirePositive("dosage", in.Dosage); err != nil {
		return BentoniteResult{}, err
	}
	grams := in.Dosage * in.Volume / 100
	water := grams * bentoniteWaterRatio
	return BentoniteResult{
		Grams:      round(grams, 1),
		Kilograms:  round(grams/1000, 2),
		WaterGrams: round(water, 0),
		WaterLiter: round(water/1000, 2),
		Note:       bentoniteNote(in.Dosage),
	}, nil
}

func bentoniteNote(dosage float64) string {
	switch {
	case dosage < 20:
		return "low dosage, for wines with minimal protein instability"
	case dosage <= 50:
		return "standard dosage for most white wines"
	case dosage <= 80:
		return "high dosage, for wines with significant protein haze risk"
	default:
		return "very high dosage, run bench trials first"
	}
}

// CopperInput doses Cu2+ from a CuSO4·5H2O stock solution into a small volume.
type CopperInput struct {
	// Rate of Cu2+ in mg/L.
	Rate   float64 `json:"copperRate"`
	Volume float64 `json:"volume"`
	// VolumeUnit is "mL" or "L".
	VolumeUnit string  `json:"volumeUnit"`
	Stock      float64 `json:"stockConcentration"`
	// StockUnit is "percent" or "gPerL".
	StockUnit string `json:"stockUnit"`
}

type CopperResult struct {
	Milliliters float64 `json:"solutionVolumeMl"`
	Microliters float64 `json:"solutionVolumeUl"`
}

func CopperSulfate(in CopperInput) (CopperResult, error) {
	if err := requirePositive("copperRate", in.Rate); err != nil {
		return CopperResult{}, err
	}
	if err := requireVolume(in.Volume); err != nil {
		return CopperResult{}, err
	}
	if err := requirePositive("stockConcentration", in.Stock); err != nil {
		return CopperResult{}, err
	}

	liters := in.Volume
	switch in.VolumeUnit {
	case "mL":
		liters /= 1000
	case "", "L":
	default:
		return CopperResult{}, fmt.Errorf("%w: volumeUnit %q", ErrOutOfRange, in.VolumeUnit)
	}
	stockGPerL := in.Stock
	switch in.StockUnit {
	case "percent":
		stockGPerL *= 10
	case "", "gPerL":
	default:
		return CopperResult{}, fmt.Errorf("%w: stockUnit %q", ErrOutOfRange, in.StockUnit)
	}

	sulfateMg := in.Rate * liters / cuSulfateCopperShare
	ml := sulfateMg / stockGPerL
	return CopperResult{
		Milliliters: round(ml, 2),
		Microliters: round(ml*1000, 0),
	}, nil
}

type CarbonInput struct {
	// Rate of activated carbon in mg/L.
	Rate   float64 `json:"carbonAmount"`
	Volume float64 `json:"volume"`
}

type CarbonResult struct {
	Grams float64 `json:"amountG"`
}

func Carbon(in CarbonInput) (CarbonResult, error) {
	if err := requirePositive("carbonAmount", in.Rate); err != nil {
		return CarbonResult{}, err
	}
	if err := requireVolume(in.Volume); err != nil {
		return CarbonResult{}, err
	}
	return CarbonResult{Grams: round(in.Rate*in.Volume/1000, 1)}, nil
}

// CopperBulkInput doses Cu2+ by weighing CuSO4·5H2O for a tank or barrel.
type CopperBulkInput struct {
	// Rate of Cu2+ in mg/L.
	Rate   float64 `json:"copperRate"`
	Volume float64 `json:"volume"`
}

type CopperBulkResult struct {
	Grams float64 `json:"copperSulfateG"`
}

func CopperSulfateBulk(in CopperBulkInput) (CopperBulkResult, error) {
	if err := requirePositive("copperRate", in.Rate); err != nil {
		return CopperBulkResult{}, err
	}
	if err := requireVolume(in.Volume); err != nil {
		return CopperBulkResult{}, err
	}
	return CopperBulkResult{Grams: round(in.Rate*in.Volume/(1000*cuSulfateCopperShare), 2)}, nil
}
