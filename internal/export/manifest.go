// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dti-datasets/internal/dataset"
	"github.com/pdiddy/dti-datasets/internal/label"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

// Manifest is the on-disk record of one pipeline run: where the data came
// from, how labels were produced, and what happened to every row. The
// label section can be replayed on another run through ManifestLabel.Spec.
type Manifest struct {
	Run    ManifestRun    `yaml:"run"`
	Label  ManifestLabel  `yaml:"label"`
	Report dataset.Report `yaml:"report"`
	Output ManifestOutput `yaml:"output"`
}

// ManifestRun identifies the run and its inputs.
type ManifestRun struct {
	ID        string    `yaml:"id"`
	StoreRun  int64     `yaml:"store_run,omitempty"`
	Source    string    `yaml:"source"`
	Kind      string    `yaml:"kind"`
	Inputs    []string  `yaml:"inputs"`
	Version   string    `yaml:"version,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// ManifestLabel stores the resolved label transformation.
type ManifestLabel struct {
	Mode      string   `yaml:"mode"`
	Threshold *float64 `yaml:"threshold,omitempty"`
	Direction string   `yaml:"direction,omitempty"`
	OnInvalid string   `yaml:"on_invalid"`
}

// ManifestOutput describes the written dataset.
type ManifestOutput struct {
	Format  types.OutputFormat `yaml:"format"`
	Path    string             `yaml:"path,omitempty"`
	Records int                `yaml:"records"`
}

// NewManifest builds a manifest for a finished run.
func NewManifest(runID, src string, kind types.LabelKind, inputs []string, spec label.Spec, rep dataset.Report, out types.OutputConfig) Manifest {
	m := Manifest{
		Run: ManifestRun{
			ID:        runID,
			Source:    src,
			Kind:      kind.String(),
			Inputs:    inputs,
			Timestamp: time.Now().UTC(),
		},
		Label: ManifestLabel{
			Mode:      spec.Mode.String(),
			OnInvalid: spec.OnInvalid.String(),
		},
		Report: rep,
		Output: ManifestOutput{
			Format:  out.Format,
			Path:    out.Path,
			Records: rep.Emitted,
		},
	}
	if spec.Mode == label.Binary {
		t := spec.Threshold
		m.Label.Threshold = &t
		m.Label.Direction = spec.Direction.String()
	}
	return m
}

// WriteManifest saves m to path as YAML.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating manifest directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// Spec rebuilds the label transformation recorded in the manifest.
func (l ManifestLabel) Spec() (label.Spec, error) {
	mode, err := label.ParseMode(l.Mode)
	if err != nil {
		return label.Spec{}, err
	}
	policy, err := label.ParsePolicy(l.OnInvalid)
	if err != nil {
		return label.Spec{}, err
	}
	if mode != label.Binary {
		return label.Spec{Mode: mode, OnInvalid: policy}, nil
	}
	if l.Threshold == nil {
		return label.Spec{}, label.ErrThresholdRequired
	}
	dir, err := label.ParseDirection(l.Direction)
	if err != nil {
		return label.Spec{}, err
	}
	spec, err := label.NewBinary(*l.Threshold, dir)
	if err != nil {
		return label.Spec{}, err
	}
	spec.OnInvalid = policy
	return spec, nil
}
