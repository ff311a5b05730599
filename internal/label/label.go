// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package label turns raw bioactivity values into the labels returned to the
// caller: a binary class, a p-scale potency, or the raw value unchanged.
// A Spec carries the mode and its parameters; Transform is the single
// function every source goes through.
package label

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/dti-datasets/internal/units"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

var (
	// ErrInvalidValue reports a raw value the active mode cannot transform.
	ErrInvalidValue = errors.New("invalid value for transform")

	// ErrUnsupportedMode reports a mode, policy, or mode/kind combination
	// that cannot run.
	ErrUnsupportedMode = errors.New("unsupported label mode")

	// ErrDirectionRequired reports a binary Spec without a comparison direction.
	ErrDirectionRequired = errors.New("binary mode requires a comparison direction")

	// ErrThresholdRequired reports a binary run on a source with no safe
	// default threshold.
	ErrThresholdRequired = errors.New("binary mode requires an explicit threshold for this source")
)

// Mode selects the transformation.
type Mode int

const (
	Passthrough Mode = iota
	Binary
	Log
)

func (m Mode) String() string {
	switch m {
	case Binary:
		return "binary"
	case Log:
		return "log"
	default:
		return "passthrough"
	}
}

// ParseMode parses "passthrough", "binary", or "log".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "passthrough", "raw":
		return Passthrough, nil
	case "binary":
		return Binary, nil
	case "log", "p":
		return Log, nil
	}
	return Passthrough, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}

// Direction decides which side of the threshold counts as active.
type Direction int

const (
	DirectionUnset Direction = iota
	LowerIsActive
	HigherIsActive
)

func (d Direction) String() string {
	switch d {
	case LowerIsActive:
		return "lower_is_active"
	case HigherIsActive:
		return "higher_is_active"
	default:
		return "unset"
	}
}

// ParseDirection parses "lower_is_active" or "higher_is_active".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lower_is_active", "lower":
		return LowerIsActive, nil
	case "higher_is_active", "higher":
		return HigherIsActive, nil
	}
	return DirectionUnset, fmt.Errorf("%w: direction %q", ErrUnsupportedMode, s)
}

// Policy decides what the assembler does with a record whose value the
// active mode rejects.
type Policy int

const (
	Abort Policy = iota
	Skip
)

func (p Policy) String() string {
	if p == Skip {
		return "skip"
	}
	return "abort"
}

// ParsePolicy parses "abort" or "skip".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "abort", "":
		return Abort, nil
	case "skip":
		return Skip, nil
	}
	return Abort, fmt.Errorf("%w: invalid-value policy %q", ErrUnsupportedMode, s)
}

// Spec is the label transformation for one pipeline run.
type Spec struct {
	Mode      Mode
	Threshold float64
	Direction Direction
	OnInvalid Policy
}

// NewBinary returns a binary Spec. The direction is required.
func NewBinary(threshold float64, dir Direction) (Spec, error) {
	if dir != LowerIsActive && dir != HigherIsActive {
		return Spec{}, ErrDirectionRequired
	}
	return Spec{Mode: Binary, Threshold: threshold, Direction: dir}, nil
}

// Validate checks that the Spec is internally consistent and can be applied
// to labels of the given kind. Log mode only makes sense for nanomolar
// concentrations.
func (s Spec) Validate(kind types.LabelKind) error {
	switch s.Mode {
	case Passthrough:
	case Binary:
		if s.Direction != LowerIsActive && s.Direction != HigherIsActive {
			return ErrDirectionRequired
		}
	case Log:
		if !kind.IsPotency() {
			return fmt.Errorf("%w: log scale needs nanomolar values, %s is not a concentration", ErrUnsupportedMode, kind)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedMode, int(s.Mode))
	}
	return nil
}

// Transform applies the Spec to one raw value.
func Transform(s Spec, conv units.Converter, raw float64) (float64, error) {
	switch s.Mode {
	case Binary:
		if active(s, raw) {
			return 1, nil
		}
		return 0, nil
	case Log:
		if raw <= 0 {
			return 0, fmt.Errorf("%w: log scale needs a positive concentration, got %v", ErrInvalidValue, raw)
		}
		return conv.ToP(raw), nil
	default:
		return raw, nil
	}
}

func active(s Spec, raw float64) bool {
	if s.Direction == HigherIsActive {
		return raw >= s.Threshold
	}
	return raw < s.Threshold
}

func (s Spec) String() string {
	switch s.Mode {
	case Binary:
		return fmt.Sprintf("binary(threshold=%g, %s)", s.Threshold, s.Direction)
	case Log:
		return "log(nM->p)"
	default:
		return "passthrough"
	}
}
