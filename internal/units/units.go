// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package units converts potency values between nanomolar concentration and
// the negative-log p-scale.
package units

import "math"

// Converter is the unit-conversion primitive the label transformer calls.
type Converter interface {
	// ToP converts a nanomolar concentration to p-scale.
	ToP(nM float64) float64
	// FromP converts a p-scale value back to nanomolar.
	FromP(p float64) float64
}

// offset is added to the molar value before the logarithm so that a
// concentration of zero maps to a finite p-value (10) instead of +Inf.
const offset = 1e-10

// Molar converts using p = -log10(nM * 1e-9 + 1e-10).
type Molar struct{}

// ToP converts nanomolar to p-scale.
func (Molar) ToP(nM float64) float64 {
	return -math.Log10(nM*1e-9 + offset)
}

// FromP converts p-scale to nanomolar.
func (Molar) FromP(p float64) float64 {
	return (math.Pow(10, -p) - offset) / 1e-9
}
