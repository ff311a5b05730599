// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the dti-datasets pipeline:
// the bioactivity record every source adapter produces, the drug-target
// matrix used by matrix-form sources, and the three-array Dataset the
// assembler emits.
package types

import (
	"fmt"
	"math"
	"strings"
)

// LabelKind identifies the assay measure a raw label was recorded as.
// The set is closed; ParseLabelKind rejects anything else.
type LabelKind int

const (
	KindUnknown LabelKind = iota
	KindKd
	KindKi
	KindIC50
	KindEC50
	KindKIBA
	KindPubChemActivity
)

var labelKindNames = map[LabelKind]string{
	KindKd:              "Kd",
	KindKi:              "Ki",
	KindIC50:            "IC50",
	KindEC50:            "EC50",
	KindKIBA:            "KIBA_score",
	KindPubChemActivity: "PubChem_activity_score",
}

func (k LabelKind) String() string {
	if name, ok := labelKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsPotency reports whether the kind is a concentration measured in
// nanomolar (Kd, Ki, IC50, EC50).
func (k LabelKind) IsPotency() bool {
	switch k {
	case KindKd, KindKi, KindIC50, KindEC50:
		return true
	}
	return false
}

// ParseLabelKind maps a kind name to its LabelKind. Matching is
// case-insensitive; "kiba" and "pubchem" are accepted as short forms.
func ParseLabelKind(s string) (LabelKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "kiba":
		return KindKIBA, nil
	case "pubchem":
		return KindPubChemActivity, nil
	}
	for k, n := range labelKindNames {
		if strings.ToLower(n) == name {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

// BioactivityRecord is one normalized (ligand, target, label) measurement.
type BioactivityRecord struct {
	// Ligand is the structural representation of the compound (SMILES or InChI).
	Ligand string `json:"ligand" yaml:"ligand"`

	// Target is the protein target's amino-acid sequence.
	Target string `json:"target" yaml:"target"`

	// RawLabel is the measured value, nanomolar for potency kinds.
	RawLabel float64 `json:"raw_label" yaml:"raw_label"`

	// Kind is the assay measure RawLabel was recorded as.
	Kind LabelKind `json:"kind" yaml:"kind"`

	// CompoundID is the external chemical identifier (PubChem CID), if known.
	CompoundID string `json:"compound_id,omitempty" yaml:"compound_id,omitempty"`

	// TargetID is the external target identifier (UniProt), if known.
	TargetID string `json:"target_id,omitempty" yaml:"target_id,omitempty"`
}

// Validate checks the record invariants shared by every source: a
// non-empty ligand and target and a finite raw label.
func (r BioactivityRecord) Validate() error {
	if r.Ligand == "" {
		return fmt.Errorf("%w: empty ligand", ErrInvalidRecord)
	}
	if r.Target == "" {
		return fmt.Errorf("%w: empty target", ErrInvalidRecord)
	}
	if math.IsNaN(r.RawLabel) || math.IsInf(r.RawLabel, 0) {
		return fmt.Errorf("%w: raw label %v is not finite", ErrInvalidRecord, r.RawLabel)
	}
	return nil
}

// HasExternalID reports whether at least one of the compound or target
// identifiers is present.
func (r BioactivityRecord) HasExternalID() bool {
	return r.CompoundID != "" || r.TargetID != ""
}

// MarshalText renders the kind by name so JSON and YAML output stay readable.
func (k LabelKind) MarshalText() ([]byte, error) {
	if k == KindUnknown {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name.
func (k *LabelKind) UnmarshalText(text []byte) error {
	parsed, err := ParseLabelKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
