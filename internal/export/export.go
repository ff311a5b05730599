// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes assembled datasets and run manifests to disk.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dti-datasets/pkg/types"
)

// Write encodes ds to w in the given format. TSV output has a
// ligand/target/label header and one row per triple.
func Write(w io.Writer, ds types.Dataset, format types.OutputFormat) error {
	if !ds.Aligned() {
		return fmt.Errorf("dataset sequences differ in length: %d ligands, %d targets, %d labels",
			len(ds.Ligands), len(ds.Targets), len(ds.Labels))
	}
	switch format {
	case types.FormatJSON:
		return writeJSON(w, ds)
	case types.FormatYAML:
		return writeYAML(w, ds)
	case types.FormatTSV, "":
		rows := make([][]string, ds.Len())
		for i := range rows {
			rows[i] = []string{ds.Ligands[i], ds.Targets[i], formatLabel(ds.Labels[i])}
		}
		return writeTSV(w, []string{"ligand", "target", "label"}, rows)
	}
	return fmt.Errorf("unsupported format %q: use json, yaml, or tsv", format)
}

// WriteLibrary encodes a compound library to w.
func WriteLibrary(w io.Writer, lib types.Library, format types.OutputFormat) error {
	switch format {
	case types.FormatJSON:
		return writeJSON(w, lib)
	case types.FormatYAML:
		return writeYAML(w, lib)
	case types.FormatTSV, "":
		rows := make([][]string, lib.Len())
		for i := range rows {
			rows[i] = []string{lib.SMILES[i], lib.Names[i], lib.CIDs[i]}
		}
		return writeTSV(w, []string{"smiles", "name", "cid"}, rows)
	}
	return fmt.Errorf("unsupported format %q: use json, yaml, or tsv", format)
}

// WriteFile writes ds to path, creating parent directories.
func WriteFile(path string, ds types.Dataset, format types.OutputFormat) error {
	return writeFile(path, func(w io.Writer) error { return Write(w, ds, format) })
}

// WriteLibraryFile writes lib to path, creating parent directories.
func WriteLibraryFile(path string, lib types.Library, format types.OutputFormat) error {
	return writeFile(path, func(w io.Writer) error { return WriteLibrary(w, lib, format) })
}

// FormatFromPath guesses the format from a file extension, falling back
// to def.
func FormatFromPath(path string, def types.OutputFormat) types.OutputFormat {
	switch filepath.Ext(path) {
	case ".json":
		return types.FormatJSON
	case ".yaml", ".yml":
		return types.FormatYAML
	case ".tsv", ".tab":
		return types.FormatTSV
	}
	return def
}

func writeFile(path string, encode func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

func writeTSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing TSV: %w", err)
	}
	return nil
}

func formatLabel(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
