// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// MissingSentinel marks a matrix cell that holds no measurement.
const MissingSentinel = -1.0

// IndexEntry is one position of a matrix axis: the key and value read from
// an index dictionary, and the axis position the entry is bound to.
type IndexEntry struct {
	Position int    `json:"position" yaml:"position"`
	Key      string `json:"key" yaml:"key"`
	Value    string `json:"value" yaml:"value"`
}

// DrugTargetMatrix binds an ordered drug list and an ordered target list to
// the rows and columns of a row-major value grid.
type DrugTargetMatrix struct {
	Drugs   []IndexEntry
	Targets []IndexEntry
	values  []float64
}

// NewDrugTargetMatrix checks that len(drugs) x len(targets) matches the grid
// and that each entry's Position equals its slice index. The positional
// contract between the dictionaries and the grid cannot be checked beyond
// that, so a mismatch in counts is always an error rather than truncation.
func NewDrugTargetMatrix(drugs, targets []IndexEntry, rows [][]float64) (*DrugTargetMatrix, error) {
	if len(rows) != len(drugs) {
		return nil, fmt.Errorf("%w: %d drugs but %d matrix rows", ErrDimensionMismatch, len(drugs), len(rows))
	}
	for i, e := range drugs {
		if e.Position != i {
			return nil, fmt.Errorf("%w: drug %q bound to position %d, expected %d", ErrDimensionMismatch, e.Key, e.Position, i)
		}
	}
	for j, e := range targets {
		if e.Position != j {
			return nil, fmt.Errorf("%w: target %q bound to position %d, expected %d", ErrDimensionMismatch, e.Key, e.Position, j)
		}
	}

	values := make([]float64, 0, len(drugs)*len(targets))
	for i, row := range rows {
		if len(row) != len(targets) {
			return nil, fmt.Errorf("%w: %d targets but matrix row %d has %d columns", ErrDimensionMismatch, len(targets), i, len(row))
		}
		values = append(values, row...)
	}

	return &DrugTargetMatrix{Drugs: drugs, Targets: targets, values: values}, nil
}

// Rows returns the number of drugs.
func (m *DrugTargetMatrix) Rows() int { return len(m.Drugs) }

// Cols returns the number of targets.
func (m *DrugTargetMatrix) Cols() int { return len(m.Targets) }

// At returns the cell for drug i and target j.
func (m *DrugTargetMatrix) At(i, j int) float64 {
	return m.values[i*len(m.Targets)+j]
}
