// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/dti-datasets/pkg/types"
)

// maxMatrixLine bounds a single matrix row in bytes.
const maxMatrixLine = 64 << 20

// ReadIndex reads a flat JSON object mapping keys to strings (a DeepDTA
// SMILES.txt or target_seq.txt file) and binds each entry to the axis
// position of its order in the document.
func ReadIndex(r io.Reader) ([]types.IndexEntry, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedIndex)
	}

	var entries []types.IndexEntry
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected a key at entry %d", ErrMalformedIndex, len(entries))
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrMalformedIndex, key)
		}
		seen[key] = true

		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: value for key %q: %v", ErrMalformedIndex, key, err)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fmt.Errorf("%w: empty value for key %q", ErrMalformedIndex, key)
		}
		entries = append(entries, types.IndexEntry{Position: len(entries), Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing content after object", ErrMalformedIndex)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrMalformedIndex)
	}
	return entries, nil
}

// ReadMatrix reads a headerless numeric grid, one row per line. Lines that
// contain a tab are split on single tabs so that empty cells keep their
// column; other lines are split on runs of whitespace. Empty and NaN cells
// become types.MissingSentinel. Cells that are not numbers are kept as NaN
// and rejected when the matrix is expanded. Blank lines are ignored. A row
// whose width differs from the first row fails with ErrDimensionMismatch.
func ReadMatrix(r io.Reader) ([][]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxMatrixLine)

	var rows [][]float64
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}

		var cells []string
		if strings.Contains(text, "\t") {
			cells = strings.Split(text, "\t")
		} else {
			cells = strings.Fields(text)
		}

		row := make([]float64, len(cells))
		for j, c := range cells {
			row[j] = parseCell(c)
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: matrix line %d has %d columns, expected %d", types.ErrDimensionMismatch, line, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading matrix: %w", err)
	}
	return rows, nil
}

func parseCell(c string) float64 {
	c = strings.TrimSpace(c)
	if c == "" || strings.EqualFold(c, "nan") {
		return types.MissingSentinel
	}
	v, err := strconv.ParseFloat(c, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// LoadMatrix reads the drug dictionary, target dictionary, and value grid
// of a matrix-form source and binds them into a validated matrix.
func LoadMatrix(drugs, targets, values io.Reader) (*types.DrugTargetMatrix, error) {
	drugIdx, err := ReadIndex(drugs)
	if err != nil {
		return nil, fmt.Errorf("reading drug index: %w", err)
	}
	targetIdx, err := ReadIndex(targets)
	if err != nil {
		return nil, fmt.Errorf("reading target index: %w", err)
	}
	grid, err := ReadMatrix(values)
	if err != nil {
		return nil, err
	}
	return types.NewDrugTargetMatrix(drugIdx, targetIdx, grid)
}

// MatrixSource serves the records of a drug-target matrix.
type MatrixSource struct {
	name      string
	kind      types.LabelKind
	expansion Expansion
	matrix    *types.DrugTargetMatrix
}

// NewMatrixSource wraps a validated matrix.
func NewMatrixSource(name string, kind types.LabelKind, expansion Expansion, m *types.DrugTargetMatrix) *MatrixSource {
	return &MatrixSource{name: name, kind: kind, expansion: expansion, matrix: m}
}

// NewDavis serves a DAVIS-style dense Kd matrix: every cell is a measurement.
func NewDavis(m *types.DrugTargetMatrix) *MatrixSource {
	return NewMatrixSource("davis", types.KindKd, Dense, m)
}

// NewKIBA serves a KIBA-style sparse score matrix: missing cells are skipped.
func NewKIBA(m *types.DrugTargetMatrix) *MatrixSource {
	return NewMatrixSource("kiba", types.KindKIBA, Sparse, m)
}

// Name returns the source name.
func (s *MatrixSource) Name() string { return s.name }

// Kind returns the label kind of the matrix cells.
func (s *MatrixSource) Kind() types.LabelKind { return s.kind }

// Records expands the matrix lazily.
func (s *MatrixSource) Records() iter.Seq2[types.BioactivityRecord, error] {
	return Expand(s.matrix, s.expansion, s.kind)
}
