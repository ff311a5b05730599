// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset drives a source through the label transformer and
// collects the surviving records into the three-array Dataset contract.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdiddy/dti-datasets/internal/label"
	"github.com/pdiddy/dti-datasets/internal/source"
	"github.com/pdiddy/dti-datasets/internal/units"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

// Report tallies what happened to every row a source yielded.
type Report struct {
	Emitted   int `json:"emitted" yaml:"emitted"`
	Filtered  int `json:"filtered" yaml:"filtered"`
	Malformed int `json:"malformed" yaml:"malformed"`
	Missing   int `json:"missing" yaml:"missing"`
	Invalid   int `json:"invalid" yaml:"invalid"`
}

// Total returns the number of rows seen.
func (r Report) Total() int {
	return r.Emitted + r.Filtered + r.Malformed + r.Missing + r.Invalid
}

// Rejected returns the number of rows that did not reach the dataset.
func (r Report) Rejected() int {
	return r.Total() - r.Emitted
}

// HasFailures reports whether any row was malformed or held a value the
// label mode could not transform.
func (r Report) HasFailures() bool {
	return r.Malformed > 0 || r.Invalid > 0
}

// Assembler turns source records into a Dataset.
type Assembler struct {
	conv   units.Converter
	logger *slog.Logger
}

// NewAssembler returns an Assembler. A nil logger discards output.
func NewAssembler(conv units.Converter, logger *slog.Logger) *Assembler {
	if conv == nil {
		conv = units.Molar{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{conv: conv, logger: logger.With("component", "assembler")}
}

// Assemble consumes src once and returns the labelled dataset. The spec is
// checked against the source's label kind before any record is read.
//
// Filtered, missing, and malformed rows are counted and dropped. A value
// the label mode rejects aborts the run unless spec.OnInvalid is Skip.
// The three output sequences always have the same length.
func (a *Assembler) Assemble(ctx context.Context, src source.Source, spec label.Spec) (types.Dataset, Report, error) {
	if err := spec.Validate(src.Kind()); err != nil {
		return types.Dataset{}, Report{}, fmt.Errorf("%s: %w", src.Name(), err)
	}

	log := a.logger.With("source", src.Name(), "kind", src.Kind().String(), "label", spec.String())
	log.InfoContext(ctx, "assembling dataset")

	var (
		ds  types.Dataset
		rep Report
		row int
	)
	for rec, err := range src.Records() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return types.Dataset{}, rep, ctxErr
		}
		row++

		if err != nil {
			var re *source.RowError
			if !errors.As(err, &re) {
				return types.Dataset{}, rep, fmt.Errorf("%s: reading records: %w", src.Name(), err)
			}
			switch {
			case errors.Is(re, source.ErrFiltered):
				rep.Filtered++
			case errors.Is(re, source.ErrMissing):
				rep.Missing++
			default:
				rep.Malformed++
				log.WarnContext(ctx, "malformed row", "row", re.Row, "column", re.Column, "reason", re.Reason)
			}
			continue
		}

		if err := rec.Validate(); err != nil {
			rep.Malformed++
			log.WarnContext(ctx, "invalid record", "row", row-1, "error", err)
			continue
		}

		y, err := label.Transform(spec, a.conv, rec.RawLabel)
		if err != nil {
			if spec.OnInvalid == label.Skip {
				rep.Invalid++
				log.DebugContext(ctx, "skipping record", "row", row-1, "error", err)
				continue
			}
			return types.Dataset{}, rep, fmt.Errorf("%s: record %d: %w", src.Name(), row-1, err)
		}
		ds.Append(rec.Ligand, rec.Target, y)
		rep.Emitted++
	}

	log.InfoContext(ctx, "dataset assembled",
		"emitted", rep.Emitted,
		"filtered", rep.Filtered,
		"missing", rep.Missing,
		"malformed", rep.Malformed,
		"invalid", rep.Invalid,
	)
	return ds, rep, nil
}
