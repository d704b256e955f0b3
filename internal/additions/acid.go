package additions

// AcidInput asks for an acid addition of Rate g/L over Volume liters.
type AcidInput struct {
	Rate   float64 `json:"additionRate"`
	Volume float64 `json:"volume"`
}

type AcidResult struct {
	Kilograms float64 `json:"amountKg"`
	Grams     float64 `json:"amountG"`
}

func Acid(in AcidInput) (AcidResult, error) {
	if err := requireVolume(in.Volume); err != nil {
		return AcidResult{}, err
	}
	if err := requirePositive("additionRate", in.Rate); err != nil {
		return AcidResult{}, err
	}
	grams := in.Rate * in.Volume
	return AcidResult{
		Kilograms: round(grams/1000, 3),
		Grams:     round(grams, 1),
	}, nil
}

// DAPInput is a diammonium phosphate dose in mg/L.
type DAPInput struct {
	Rate   float64 `json:"dapRequired"`
	Volume float64 `json:"volume"`
}

type DAPResult struct {
	Grams float64 `json:"dapAmount"`
}

func DAP(in DAPInput) (DAPResult, error) {
	if err := requireVolume(in.Volume); err != nil {
		return DAPResult{}, err
	}
	if err := requirePositive("dapRequired", in.Rate); err != nil {
		return DAPResult{}, err
	}
	return DAPResult{Grams: round(in.Rate*in.Volume/1000, 2)}, nil
}
