package additions

import (
	"fmt"
	"math"
)

// pmsYield converts mg/L of SO2 to grams of potassium metabisulfite per liter.
const pmsYield = 570.0

// sulfitePKa is the first dissociation constant of sulfurous acid.
const sulfitePKa = 1.81

type PMSInput struct {
	SO2Rate float64 `json:"so2Rate"`
	Volume  float64 `json:"volume"`
}

type PMSResult struct {
	Grams float64 `json:"pmsGrams"`
}

// PMS returns the potassium metabisulfite needed for SO2Rate mg/L.
func PMS(in PMSInput) (PMSResult, error) {
	if err := requireVolume(in.Volume); err != nil {
		return PMSResult{}, err
	}
	if err := requirePositive("so2Rate", in.SO2Rate); err != nil {
		return PMSResult{}, err
	}
	return PMSResult{Grams: round(in.SO2Rate*in.Volume/pmsYield, 2)}, nil
}

// Sulfite is the compound used to add SO2.
type Sulfite string

const (
	PotassiumMetabisulfite Sulfite = "potassium_metabisulfite"
	SodiumMetabisulfite    Sulfite = "sodium_metabisulfite"
	SulfurDioxideGas       Sulfite = "sulfur_dioxide_gas"
)

// Factor is the SO2 mass fraction of the compound. Unknown compounds are
// treated as potassium metabisulfite.
func (s Sulfite) Factor() float64 {
	switch s {
	case SodiumMetabisulfite:
		return 0.67
	case SulfurDioxideGas:
		return 1.0
	default:
		return 0.57
	}
}

type SO2Input struct {
	Volume  float64 `json:"volume"`
	Current float64 `json:"currentSO2"`
	Target  float64 `json:"targetSO2"`
	Sulfite Sulfite `json:"sulfiteType"`
	// PH, when set, adds the molecular SO2 at the target level.
	PH *float64 `json:"pH,omitempty"`
}

type SO2Result struct {
	Grams         float64  `json:"amount"`
	Concentration float64  `json:"concentration"`
	TotalSO2      float64  `json:"totalSO2"`
	Sulfite       Sulfite  `json:"sulfiteType"`
	FactorPercent float64  `json:"factor"`
	Molecular     *float64 `json:"molecularSO2,omitempty"`
}

func SO2(in SO2Input) (SO2Result, error) {
	if err := requireVolume(in.Volume); err != nil {
		return SO2Result{}, err
	}
	if in.Target <= in.Current {
		return SO2Result{}, fmt.Errorf("%w: %g <= %g mg/L", ErrTargetNotAbove, in.Target, in.Current)
	}
	if in.Sulfite == "" {
		in.Sulfite = PotassiumMetabisulfite
	}

	factor := in.Sulfite.Factor()
	diff := in.Target - in.Current
	out := SO2Result{
		Grams:         round(in.Volume*diff/(factor*1000), 2),
		Concentration: round(in.Target, 1),
		TotalSO2:      round(diff*in.Volume/1000, 2),
		Sulfite:       in.Sulfite,
		FactorPercent: math.Round(factor * 100),
	}
	if in.PH != nil {
		m := round(MolecularSO2(in.Target, *in.PH), 2)
		out.Molecular = &m
	}
	return out, nil
}

// MolecularSO2 is the antimicrobial fraction of free SO2 at the given pH.
func MolecularSO2(free, pH float64) float64 {
	return free / (1 + math.Pow(10, pH-sulfitePKa))
}
