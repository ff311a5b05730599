// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LabelConfig selects how raw labels are turned into output labels.
type LabelConfig struct {
	// Mode is passthrough, binary, or log. Empty selects the source default.
	Mode string `json:"mode" yaml:"mode" validate:"omitempty,oneof=passthrough binary log"`

	// Threshold is the binary cut-off. Nil selects the source default, and
	// sources without a safe default (KIBA) reject a binary run without it.
	Threshold *float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`

	// Direction is lower_is_active or higher_is_active. Empty selects the
	// source family default.
	Direction string `json:"direction" yaml:"direction" validate:"omitempty,oneof=lower_is_active higher_is_active"`

	// OnInvalid decides what happens when a value cannot be transformed
	// (non-positive input to log mode): abort the run or skip the record.
	OnInvalid string `json:"on_invalid" yaml:"on_invalid" validate:"omitempty,oneof=abort skip"`
}

// OutputFormat selects the dataset export encoding.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatTSV  OutputFormat = "tsv"
)

// OutputConfig holds settings for writing an assembled dataset.
type OutputConfig struct {
	// Format is json, yaml, or tsv (default tsv).
	Format OutputFormat `json:"format" yaml:"format" validate:"omitempty,oneof=json yaml tsv"`

	// Path is the destination file. Empty writes to stdout.
	Path string `json:"path" yaml:"path"`

	// Manifest is an optional path for a YAML run manifest.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
}

// StoreConfig holds settings for the SQLite dataset store.
type StoreConfig struct {
	// Enabled saves every assembled dataset to the store.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file (default data/datasets.db).
	Path string `json:"path" yaml:"path" validate:"required_if=Enabled true"`
}

// LoggingConfig holds settings for the structured logger.
type LoggingConfig struct {
	// Level is debug, info, warn, or error (default info).
	Level string `json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}

// MetricsConfig holds settings for run metrics.
type MetricsConfig struct {
	// Textfile is a path for Prometheus text-format metrics, suitable for the
	// node exporter's textfile collector. Empty disables metrics output.
	Textfile string `json:"textfile" yaml:"textfile"`
}

// PipelineConfig groups all settings for one pipeline invocation.
type PipelineConfig struct {
	Label   LabelConfig   `json:"label" yaml:"label"`
	Output  OutputConfig  `json:"output" yaml:"output"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}
