package additions

import (
	"errors"
	"fmt"
)

// dapPerYAN is the DAP dose, in mg/L, that supplies 1 mg/L of YAN.
const dapPerYAN = 4.7

var errYANOrDAP = errors.New("additions: yanAmount or dapAmount is required")

// DAPPreFermentationInput raises must YAN from Initial to Required before
// fermentation.
type DAPPreFermentationInput struct {
	Initial  float64 `json:"initialYan"`
	Required float64 `json:"requiredYan"`
	Volume   float64 `json:"volume"`
}

type DAPPreFermentationResult struct {
	Grams float64 `json:"dapAmount"`
}

func DAPPreFermentation(in DAPPreFermentationInput) (DAPPreFermentationResult, error) {
	if !(in.Initial >= 0) {
		return DAPPreFermentationResult{}, fmt.Errorf("%w: initialYan %g", ErrOutOfRange, in.Initial)
	}
	if !(in.Required >= 0) {
		return DAPPreFermentationResult{}, fmt.Errorf("%w: requiredYan %g", ErrOutOfRange, in.Required)
	}
	if err := requireVolume(in.Volume); err != nil {
		return DAPPreFermentationResult{}, err
	}
	missing := in.Required - in.Initial
	if missing <= 0 {
		return DAPPreFermentationResult{}, nil
	}
	return DAPPreFermentationResult{Grams: round(missing*in.Volume*dapPerYAN/1000, 2)}, nil
}

// YANDAPInput converts between YAN and DAP concentrations. When both are set
// YAN wins.
type YANDAPInput struct {
	YAN *float64 `json:"yanAmount,omitempty"`
	DAP *float64 `json:"dapAmount,omitempty"`
}

type YANDAPResult struct {
	YAN float64 `json:"yanResult"`
	DAP float64 `json:"dapResult"`
}

func YANDAP(in YANDAPInput) (YANDAPResult, error) {
	switch {
	case in.YAN != nil:
		if !(*in.YAN >= 0) {
			return YANDAPResult{}, fmt.Errorf("%w: yanAmount %g", ErrOutOfRange, *in.YAN)
		}
		return YANDAPResult{YAN: round(*in.YAN, 2), DAP: round(*in.YAN*dapPerYAN, 2)}, nil
	case in.DAP != nil:
		if !(*in.DAP >= 0) {
			return YANDAPResult{}, fmt.Errorf("%w: dapAmount %g", ErrOutOfRange, *in.DAP)
		}
		return YANDAPResult{YAN: round(*in.DAP/dapPerYAN, 2), DAP: round(*in.DAP, 2)}, nil
	}
	return YANDAPResult{}, errYANOrDAP
}
