package additions

import (
	"fmt"
	"math"
)

// linearUnits maps each unit to its size in the category's base unit:
// liters, grams or % ABV.
var linearUnits = map[string]map[string]float64{
	"volume": {
		"liters":        1,
		"milliliters":   0.001,
		"hectoliters":   100,
		"gallons_us":    3.78541,
		"gallons_uk":    4.54609,
		"barrels":       119.24,
		"bottles_750ml": 0.75,
		"magnums":       1.5,
	},
	"weight": {
		"grams":      1,
		"kilograms":  1000,
		"milligrams": 0.001,
		"pounds":     453.592,
		"ounces":     28.3495,
	},
	"alcohol": {
		"abv":      1,
		"proof_us": 1 / 2.0,
		"proof_uk": 1 / 1.75,
	},
}

type ConversionInput struct {
	Value float64 `json:"value"`
	// Category is volume, weight, alcohol, temperature or density.
	Category string `json:"category"`
	From     string `json:"fromUnit"`
	To       string `json:"toUnit"`
}

type ConversionResult struct {
	Converted float64 `json:"converted"`
	Value     float64 `json:"originalValue"`
	From      string  `json:"originalUnit"`
	To        string  `json:"targetUnit"`
	Category  string  `json:"category"`
}

func Convert(in ConversionInput) (ConversionResult, error) {
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
		return ConversionResult{}, fmt.Errorf("%w: value %g", ErrOutOfRange, in.Value)
	}

	var (
		out float64
		err error
	)
	switch in.Category {
	case "temperature":
		out, err = convertTemperature(in.Value, in.From, in.To)
	case "density":
		out, err = convertDensity(in.Value, in.From, in.To)
	default:
		out, err = convertLinear(in.Value, in.Category, in.From, in.To)
	}
	if err != nil {
		return ConversionResult{}, err
	}
	return ConversionResult{
		Converted: round(out, 5),
		Value:     in.Value,
		From:      in.From,
		To:        in.To,
		Category:  in.Category,
	}, nil
}

func convertLinear(v float64, category, from, to string) (float64, error) {
	units, ok := linearUnits[category]
	if !ok {
		return 0, fmt.Errorf("%w: category %q", ErrOutOfRange, category)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s cannot be negative", ErrOutOfRange, category)
	}
	f, ok := units[from]
	if !ok {
		return 0, fmt.Errorf("%w: %s unit %q", ErrOutOfRange, category, from)
	}
	t, ok := units[to]
	if !ok {
		return 0, fmt.Errorf("%w: %s unit %q", ErrOutOfRange, category, to)
	}
	return v * f / t, nil
}

func convertTemperature(v float64, from, to string) (float64, error) {
	var c float64
	switch from {
	case "celsius":
		c = v
	case "fahrenheit":
		c = (v - 32) * 5 / 9
	case "kelvin":
		c = v - 273.15
	default:
		return 0, fmt.Errorf("%w: temperature unit %q", ErrOutOfRange, from)
	}
	switch to {
	case "celsius":
		return c, nil
	case "fahrenheit":
		return c*9/5 + 32, nil
	case "kelvin":
		return c + 273.15, nil
	}
	return 0, fmt.Errorf("%w: temperature unit %q", ErrOutOfRange, to)
}

// convertDensity goes through °Brix. Plato is treated as Brix.
func convertDensity(v float64, from, to string) (float64, error) {
	var brix float64
	switch from {
	case "brix", "plato":
		brix = v
	case "baume":
		brix = v * 1.8
	case "sg":
		brix = SGToBrix(v)
	default:
		return 0, fmt.Errorf("%w: density unit %q", ErrOutOfRange, from)
	}
	switch to {
	case "brix", "plato":
		return brix, nil
	case "baume":
		return brix / 1.8, nil
	case "sg":
		return BrixToSG(brix), nil
	}
	return 0, fmt.Errorf("%w: density unit %q", ErrOutOfRange, to)
}

func SGToBrix(sg float64) float64 {
	d := sg - 1
	return 182.4601*d + 142.1868*d*d + 500.5255*d*d*d
}

func BrixToSG(brix float64) float64 {
	r := brix / 258.6
	return 1 + r - r*r*0.00898
}

// AlcoholInput estimates alcohol from must sugar. Set Brix or SG; Brix wins.
// ABV, when set, is also expressed by weight.
type AlcoholInput struct {
	Brix *float64 `json:"brix,omitempty"`
	SG   *float64 `json:"sg,omitempty"`
	ABV  *float64 `json:"abv,omitempty"`
}

type AlcoholResult struct {
	PotentialABV *float64 `json:"potentialAlcohol,omitempty"`
	ABW          *float64 `json:"abw,omitempty"`
}

func Alcohol(in AlcoholInput) (AlcoholResult, error) {
	var res AlcoholResult
	switch {
	case in.Brix != nil:
		if !(*in.Brix >= 0) {
			return AlcoholResult{}, fmt.Errorf("%w: brix %g", ErrOutOfRange, *in.Brix)
		}
		v := round(*in.Brix*0.55, 2)
		res.PotentialABV = &v
	case in.SG != nil:
		if !(*in.SG >= 1) {
			return AlcoholResult{}, fmt.Errorf("%w: sg %g", ErrOutOfRange, *in.SG)
		}
		v := round((*in.SG-1)*131.25, 2)
		res.PotentialABV = &v
	}
	if in.ABV != nil {
		if !(*in.ABV >= 0 && *in.ABV <= 100) {
			return AlcoholResult{}, fmt.Errorf("%w: abv %g", ErrOutOfRange, *in.ABV)
		}
		v := round(*in.ABV*0.789, 2)
		res.ABW = &v
	}
	if res.PotentialABV == nil && res.ABW == nil {
		return AlcoholResult{}, fmt.Errorf("%w: brix, sg or abv", ErrPositiveValue)
	}
	return res, nil
}

// BottlesInput converts between a bottle count and liters. Set Bottles or
// Liters; Bottles wins. BottleSize is in mL and defaults to 750.
type BottlesInput struct {
	Bottles    *float64 `json:"bottles,omitempty"`
	Liters     *float64 `json:"liters,omitempty"`
	BottleSize float64  `json:"bottleSize,omitempty"`
}

type BottlesResult struct {
	Bottles    float64 `json:"bottles"`
	Liters     float64 `json:"liters"`
	BottleSize float64 `json:"bottleSize"`
}

func Bottles(in BottlesInput) (BottlesResult, error) {
	size := in.BottleSize
	if size == 0 {
		size = 750
	}
	if err := requirePositive("bottleSize", size); err != nil {
		return BottlesResult{}, err
	}
	liter := size / 1000
	switch {
	case in.Bottles != nil:
		if !(*in.Bottles >= 0) {
			return BottlesResult{}, fmt.Errorf("%w: bottles %g", ErrOutOfRange, *in.Bottles)
		}
		return BottlesResult{Bottles: *in.Bottles, Liters: round(*in.Bottles*liter, 3), BottleSize: size}, nil
	case in.Liters != nil:
		if !(*in.Liters >= 0) {
			return BottlesResult{}, fmt.Errorf("%w: liters %g", ErrOutOfRange, *in.Liters)
		}
		return BottlesResult{Bottles: round(*in.Liters/liter, 2), Liters: *in.Liters, BottleSize: size}, nil
	}
	return BottlesResult{}, ErrVolumeRequired
}
