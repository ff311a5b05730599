// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/dti-datasets/pkg/types"
)

// PubChem datatable and lookup column names.
const (
	colResultTag     = "PUBCHEM_RESULT_TAG"
	colAssayCID      = "PUBCHEM_CID"
	colActivityScore = "PUBCHEM_ACTIVITY_SCORE"
	colLookupCID     = "cid"
	colLookupSMILES  = "smiles"
)

// descriptorPrefix marks the datatable rows that describe result columns
// (RESULT_TYPE, RESULT_DESCR, RESULT_UNIT, ...) rather than hold results.
const descriptorPrefix = "RESULT_"

type assayRow struct {
	cid      string
	score    string
	parseErr string
}

// Assay is a parsed PubChem bioassay datatable joined with a compound
// lookup table and bound to one target sequence.
type Assay struct {
	name   string
	target string
	rows   []assayRow
	lookup map[string]string
}

// ReadLookup reads a comma-separated cid,smiles table into a map keyed by
// normalized compound id.
func ReadLookup(r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty lookup table", ErrMissingColumn)
		}
		return nil, fmt.Errorf("reading lookup header: %w", err)
	}
	idx, err := columnIndex(header, colLookupCID, colLookupSMILES)
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]string)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading lookup table: %w", err)
		}
		ci, si := idx[colLookupCID], idx[colLookupSMILES]
		if ci >= len(rec) || si >= len(rec) {
			continue
		}
		cid := NormalizeCID(rec[ci])
		smiles := strings.TrimSpace(rec[si])
		if cid == "" || smiles == "" {
			continue
		}
		lookup[cid] = smiles
	}
	return lookup, nil
}

// ReadAssay reads a comma-separated PubChem datatable, resolving compound
// ids through lookup and attaching target to every record. It fails with
// ErrUnresolvedID when any compound id has no lookup entry, and with
// ErrMissingColumn when the CID or activity score column is absent.
// Descriptor rows are skipped; rows with an empty CID or a score that is
// not a number are kept and reported as malformed.
func ReadAssay(name string, r io.Reader, lookup map[string]string, target string) (*Assay, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("%w: assay %s needs a target sequence", types.ErrInvalidRecord, name)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty assay table", ErrMissingColumn)
		}
		return nil, fmt.Errorf("reading assay header: %w", err)
	}
	idx, err := columnIndex(header, colAssayCID, colActivityScore)
	if err != nil {
		return nil, err
	}
	tagIdx := -1
	if t, err := columnIndex(header, colResultTag); err == nil {
		tagIdx = t[colResultTag]
	}

	a := &Assay{name: name, target: target, lookup: lookup}
	var unresolved []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			a.rows = append(a.rows, assayRow{parseErr: pe.Err.Error()})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading assay row %d: %w", len(a.rows), err)
		}

		cell := func(i int) string {
			if i < 0 || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if strings.HasPrefix(cell(tagIdx), descriptorPrefix) {
			continue
		}

		row := assayRow{cid: NormalizeCID(cell(idx[colAssayCID])), score: cell(idx[colActivityScore])}
		if row.cid != "" {
			if _, ok := lookup[row.cid]; !ok {
				unresolved = append(unresolved, row.cid)
			}
		}
		a.rows = append(a.rows, row)
	}

	if len(unresolved) > 0 {
		shown := unresolved
		if len(shown) > 5 {
			shown = shown[:5]
		}
		return nil, fmt.Errorf("%w: %d compound id(s) without a structure, first: %s",
			ErrUnresolvedID, len(unresolved), strings.Join(shown, ", "))
	}
	return a, nil
}

// Name returns the assay name.
func (a *Assay) Name() string { return a.name }

// Kind returns KindPubChemActivity.
func (a *Assay) Kind() types.LabelKind { return types.KindPubChemActivity }

// Records yields one record per resolved assay row.
func (a *Assay) Records() iter.Seq2[types.BioactivityRecord, error] {
	return func(yield func(types.BioactivityRecord, error) bool) {
		for i, row := range a.rows {
			rec, rerr := a.record(i, row)
			if rerr != nil {
				if !yield(types.BioactivityRecord{}, rerr) {
					return
				}
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (a *Assay) record(i int, row assayRow) (types.BioactivityRecord, *RowError) {
	if row.parseErr != "" {
		return types.BioactivityRecord{}, malformed(i, "", row.parseErr)
	}
	if row.cid == "" {
		return types.BioactivityRecord{}, malformed(i, colAssayCID, "no compound id")
	}
	score, err := strconv.ParseFloat(row.score, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return types.BioactivityRecord{}, malformed(i, colActivityScore, fmt.Sprintf("score %q is not a number", row.score))
	}
	return types.BioactivityRecord{
		Ligand:     a.lookup[row.cid],
		Target:     a.target,
		RawLabel:   score,
		Kind:       types.KindPubChemActivity,
		CompoundID: row.cid,
	}, nil
}

// NormalizeCID trims a compound id and drops a zero fractional part, so
// ids exported as floats ("2244.0") match integer ids ("2244").
func NormalizeCID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}
