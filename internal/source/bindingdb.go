// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/pdiddy/dti-datasets/pkg/types"
)

// BindingDB column names. The target sequence header carries two spaces.
const (
	colChainCount = "Number of Protein Chains in Target (>1 implies a multichain complex)"
	colSMILES     = "Ligand SMILES"
	colInChI      = "Ligand InChI"
	colPubChemCID = "PubChem CID"
	colUniProtID  = "UniProt (SwissProt) Primary ID of Target Chain"
	colSequence   = "BindingDB Target Chain  Sequence"
	colReactantID = "BindingDB Reactant_set_id"
)

// maxPotencyNM bounds BindingDB labels; larger values are placeholders for
// inactive or unmeasured pairs rather than measurements.
const maxPotencyNM = 1e7

// bindingDBLabelColumn returns the measurement column for a potency kind.
func bindingDBLabelColumn(kind types.LabelKind) (string, error) {
	switch kind {
	case types.KindKd:
		return "Kd (nM)", nil
	case types.KindKi:
		return "Ki (nM)", nil
	case types.KindIC50:
		return "IC50 (nM)", nil
	case types.KindEC50:
		return "EC50 (nM)", nil
	}
	return "", fmt.Errorf("%w: BindingDB provides Kd, Ki, IC50 or EC50, not %s", types.ErrUnsupportedKind, kind)
}

// bindingDBRow holds the columns the pipeline uses from one table row.
type bindingDBRow struct {
	reactantID string
	chainCount string
	smiles     string
	inchi      string
	pubchemCID string
	uniprotID  string
	sequence   string
	label      string

	// parseErr is set when the row could not be split into fields.
	parseErr string
}

// BindingDB is a parsed BindingDB dump restricted to one label kind.
type BindingDB struct {
	kind        types.LabelKind
	labelColumn string
	rows        []bindingDBRow
}

// ReadBindingDB reads a tab-separated BindingDB dump and keeps the columns
// needed for kind. It fails before reading when kind is not a BindingDB
// measure, and fails when a required column is missing from the header.
// Rows with more fields than the header are kept as malformed; rows with
// fewer are padded with empty fields.
func ReadBindingDB(r io.Reader, kind types.LabelKind) (*BindingDB, error) {
	labelCol, err := bindingDBLabelColumn(kind)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty BindingDB table", ErrMissingColumn)
		}
		return nil, fmt.Errorf("reading BindingDB header: %w", err)
	}

	idx, err := columnIndex(header, colChainCount, colSMILES, colInChI, colPubChemCID,
		colUniProtID, colSequence, colReactantID, labelCol)
	if err != nil {
		return nil, err
	}

	db := &BindingDB{kind: kind, labelColumn: labelCol}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			db.rows = append(db.rows, bindingDBRow{parseErr: pe.Err.Error()})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading BindingDB row %d: %w", len(db.rows), err)
		}

		if len(rec) > len(header) {
			db.rows = append(db.rows, bindingDBRow{
				parseErr: fmt.Sprintf("%d fields, header has %d", len(rec), len(header)),
			})
			continue
		}

		field := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		db.rows = append(db.rows, bindingDBRow{
			reactantID: field(colReactantID),
			chainCount: field(colChainCount),
			smiles:     field(colSMILES),
			inchi:      field(colInChI),
			pubchemCID: field(colPubChemCID),
			uniprotID:  field(colUniProtID),
			sequence:   field(colSequence),
			label:      field(labelCol),
		})
	}
	return db, nil
}

// Name returns "bindingdb".
func (db *BindingDB) Name() string { return "bindingdb" }

// Kind returns the label kind the table was read for.
func (db *BindingDB) Kind() types.LabelKind { return db.kind }

// Len returns the number of data rows read, including rejected ones.
func (db *BindingDB) Len() int { return len(db.rows) }

// Records yields one record per row that passes the BindingDB filters.
func (db *BindingDB) Records() iter.Seq2[types.BioactivityRecord, error] {
	return func(yield func(types.BioactivityRecord, error) bool) {
		for i, row := range db.rows {
			rec, rerr := filterBindingDB(i, row, db.kind, db.labelColumn)
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

// columnIndex maps each required column to its header position. A leading
// UTF-8 byte order mark on the first header cell is ignored.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	idx := make(map[string]int, len(required))
	var missing []string
	for _, col := range required {
		i, ok := pos[col]
		if !ok {
			missing = append(missing, fmt.Sprintf("%q", col))
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}
