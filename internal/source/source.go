// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source parses the supported bioactivity sources into a stream of
// BioactivityRecords. Each adapter validates the structure of its input when
// it is read and applies its row filters while the stream is consumed.
//
// Three source shapes are supported:
//
//   - delimited tables (BindingDB dumps), see ReadBindingDB
//   - drug/target index dictionaries with a value matrix (DAVIS, KIBA),
//     see ReadIndex, ReadMatrix, and NewMatrixSource
//   - assay results with a compound lookup table and a single fixed target
//     (PubChem AID1706), see ReadAssay and ReadLookup
package source

import (
	"errors"
	"fmt"
	"iter"

	"github.com/pdiddy/dti-datasets/pkg/types"
)

// Source is a parsed input that yields records. Rejected rows are yielded
// as a *RowError with a zero record so consumers can count them; every
// other yielded record satisfies the BioactivityRecord invariants.
//
// Records may be called more than once; each call starts a fresh pass.
type Source interface {
	// Name identifies the source in logs, metrics, and stored runs.
	Name() string

	// Kind is the label kind every record carries.
	Kind() types.LabelKind

	// Records returns the record stream.
	Records() iter.Seq2[types.BioactivityRecord, error]
}

var (
	// ErrMalformedRow marks a row that could not be parsed.
	ErrMalformedRow = errors.New("malformed row")

	// ErrFiltered marks a well-formed row excluded by a source filter.
	ErrFiltered = errors.New("filtered")

	// ErrMissing marks a matrix cell holding the missing sentinel.
	ErrMissing = errors.New("missing value")

	// ErrMissingColumn reports a required column absent from a table header.
	ErrMissingColumn = errors.New("required column missing")

	// ErrMalformedIndex reports an index dictionary that cannot be bound to a
	// matrix axis.
	ErrMalformedIndex = errors.New("malformed index dictionary")

	// ErrUnresolvedID reports a compound id with no lookup entry.
	ErrUnresolvedID = errors.New("unresolved compound id")
)

// RowError describes a rejected row or cell. Err wraps one of
// ErrMalformedRow, ErrFiltered, or ErrMissing.
type RowError struct {
	// Row is the zero-based data row (for matrices, the drug index).
	Row int
	// Column names the offending field or, for matrices, the target key.
	Column string
	// Reason is a short human-readable explanation.
	Reason string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v: %s", e.Row, e.Err, e.Reason)
	}
	return fmt.Sprintf("row %d, %s: %v: %s", e.Row, e.Column, e.Err, e.Reason)
}

func (e *RowError) Unwrap() error { return e.Err }

func filtered(row int, column, reason string) *RowError {
	return &RowError{Row: row, Column: column, Reason: reason, Err: ErrFiltered}
}

func malformed(row int, column, reason string) *RowError {
	return &RowError{Row: row, Column: column, Reason: reason, Err: ErrMalformedRow}
}
