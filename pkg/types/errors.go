// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

var (
	// ErrUnsupportedKind reports a label kind outside the closed LabelKind set,
	// or one a particular source cannot provide.
	ErrUnsupportedKind = errors.New("unsupported label kind")

	// ErrDimensionMismatch reports index lists that do not line up with the
	// axes of a value matrix.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidRecord reports a record that violates a BioactivityRecord invariant.
	ErrInvalidRecord = errors.New("invalid record")
)
