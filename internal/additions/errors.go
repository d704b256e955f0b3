// Package additions holds the cellar-addition calculators: acid, sulfite,
// fortification, dilution, fining and nutrient doses for a given volume.
package additions

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrVolumeRequired = errors.New("additions: volume must be greater than zero")
	ErrPositiveValue  = errors.New("additions: value must be greater than zero")
	ErrTargetNotAbove = errors.New("additions: target must be greater than current")
	ErrTargetNotBelow = errors.New("additions: target must be lower than current")
	ErrSpiritTooWeak  = errors.New("additions: spirit strength must be higher than target alcohol")
	ErrOutOfRange     = errors.New("additions: value out of range")
)

func requireVolume(volume float64) error {
	if !(volume > 0) {
		return ErrVolumeRequired
	}
	return nil
}

func requirePositive(name string, v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%w: %s", ErrPositiveValue, name)
	}
	return nil
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
