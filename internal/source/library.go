// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/dti-datasets/pkg/types"
)

// unknownField fills empty library cells.
const unknownField = "UNK"

// ReadLibrary reads a comma-separated compound library (Broad Repurposing
// Hub export) with smiles, title, and cid columns. Empty cells are returned
// as "UNK" so the three sequences stay aligned.
func ReadLibrary(r io.Reader) (types.Library, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return types.Library{}, fmt.Errorf("%w: empty library table", ErrMissingColumn)
		}
		return types.Library{}, fmt.Errorf("reading library header: %w", err)
	}
	idx, err := columnIndex(header, "smiles", "title", "cid")
	if err != nil {
		return types.Library{}, err
	}

	var lib types.Library
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return types.Library{}, fmt.Errorf("reading library row %d: %w", lib.Len(), err)
		}
		cell := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return unknownField
			}
			if v := strings.TrimSpace(rec[i]); v != "" {
				return v
			}
			return unknownField
		}
		lib.SMILES = append(lib.SMILES, cell("smiles"))
		lib.Names = append(lib.Names, cell("title"))
		cid := cell("cid")
		if cid != unknownField {
			cid = NormalizeCID(cid)
		}
		lib.CIDs = append(lib.CIDs, cid)
	}
	return lib, nil
}
