// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package label

import (
	"github.com/pdiddy/dti-datasets/pkg/types"
)

// Defaults are the label settings a source family falls back to when the
// caller leaves them unset.
type Defaults struct {
	Mode      Mode
	Direction Direction

	// Threshold applies only when HasThreshold is set. KIBA has no safe
	// default because the score is a composite, not a concentration.
	Threshold    float64
	HasThreshold bool
}

// DefaultsFor returns the family defaults for a label kind:
//
//	Kd, Ki, IC50, EC50   log,          threshold 30, lower is active
//	KIBA_score           passthrough,  no threshold, lower is active
//	PubChem activity     passthrough,  threshold 15, higher is active
func DefaultsFor(kind types.LabelKind) Defaults {
	switch {
	case kind.IsPotency():
		return Defaults{Mode: Log, Direction: LowerIsActive, Threshold: 30, HasThreshold: true}
	case kind == types.KindPubChemActivity:
		return Defaults{Mode: Passthrough, Direction: HigherIsActive, Threshold: 15, HasThreshold: true}
	default:
		return Defaults{Mode: Passthrough, Direction: LowerIsActive}
	}
}

// DefaultDirection returns the comparison direction the family of kind
// uses for binary labels.
func DefaultDirection(kind types.LabelKind) Direction {
	return DefaultsFor(kind).Direction
}

// ModeFromFlags resolves the binary and log switches. Binary takes
// precedence when both are set. ok is false when neither is set.
func ModeFromFlags(binary, log bool) (m Mode, ok bool) {
	switch {
	case binary:
		return Binary, true
	case log:
		return Log, true
	}
	return Passthrough, false
}

// Resolve builds the Spec for a run over labels of kind from the caller's
// configuration, filling unset fields from DefaultsFor(kind).
func Resolve(cfg types.LabelConfig, kind types.LabelKind) (Spec, error) {
	d := DefaultsFor(kind)

	mode := d.Mode
	if cfg.Mode != "" {
		m, err := ParseMode(cfg.Mode)
		if err != nil {
			return Spec{}, err
		}
		mode = m
	}

	policy, err := ParsePolicy(cfg.OnInvalid)
	if err != nil {
		return Spec{}, err
	}

	var spec Spec
	switch mode {
	case Binary:
		threshold := d.Threshold
		if cfg.Threshold != nil {
			threshold = *cfg.Threshold
		} else if !d.HasThreshold {
			return Spec{}, ErrThresholdRequired
		}

		dir := d.Direction
		if cfg.Direction != "" {
			if dir, err = ParseDirection(cfg.Direction); err != nil {
				return Spec{}, err
			}
		}

		if spec, err = NewBinary(threshold, dir); err != nil {
			return Spec{}, err
		}
	default:
		spec = Spec{Mode: mode}
	}
	spec.OnInvalid = policy

	if err := spec.Validate(kind); err != nil {
		return Spec{}, err
	}
	return spec, nil
}
