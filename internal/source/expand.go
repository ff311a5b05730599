// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"iter"
	"math"

	"github.com/pdiddy/dti-datasets/pkg/types"
)

// Expansion selects how matrix cells become records.
type Expansion int

const (
	// Dense emits a record for every cell.
	Dense Expansion = iota
	// Sparse skips cells holding types.MissingSentinel.
	Sparse
)

func (e Expansion) String() string {
	if e == Sparse {
		return "sparse"
	}
	return "dense"
}

// Expand returns the cross product of the matrix's drugs and targets as a
// lazy sequence, drugs in the outer loop and targets in the inner loop.
// Nothing is materialized: each call walks the matrix again, so the
// sequence can be consumed any number of times.
//
// A cell that is NaN or negative is yielded as a malformed *RowError. In
// Sparse mode a cell equal to the missing sentinel is yielded as ErrMissing
// instead. A dense expansion of a clean matrix yields exactly Rows()*Cols()
// records.
func Expand(m *types.DrugTargetMatrix, mode Expansion, kind types.LabelKind) iter.Seq2[types.BioactivityRecord, error] {
	return func(yield func(types.BioactivityRecord, error) bool) {
		for i, drug := range m.Drugs {
			for j, target := range m.Targets {
				v := m.At(i, j)

				var rerr *RowError
				switch {
				case mode == Sparse && v == types.MissingSentinel:
					rerr = &RowError{Row: i, Column: target.Key, Reason: "no measurement", Err: ErrMissing}
				case math.IsNaN(v):
					rerr = malformed(i, target.Key, "cell is not a number")
				case v < 0:
					rerr = malformed(i, target.Key, fmt.Sprintf("negative value %g", v))
				}
				if rerr != nil {
					if !yield(types.BioactivityRecord{}, rerr) {
						return
					}
					continue
				}

				rec := types.BioactivityRecord{
					Ligand:     drug.Value,
					Target:     target.Value,
					RawLabel:   v,
					Kind:       kind,
					CompoundID: drug.Key,
					TargetID:   target.Key,
				}
				if !yield(rec, nil) {
					return
				}
			}
		}
	}
}
