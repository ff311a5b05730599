// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dti-datasets/internal/config"
	"github.com/pdiddy/dti-datasets/internal/dataset"
	"github.com/pdiddy/dti-datasets/internal/export"
	"github.com/pdiddy/dti-datasets/internal/label"
	"github.com/pdiddy/dti-datasets/internal/source"
	"github.com/pdiddy/dti-datasets/internal/store"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// resetCommands clears flag values left behind by an earlier Execute.
func resetCommands(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
}

func TestDavisEndToEnd(t *testing.T) {
	resetCommands(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, defaultDrugsFile), `{"D1": "CCO", "D2": "CCC"}`)
	writeFile(t, filepath.Join(dir, defaultTargetsFile), `{"T1": "MKTAYIAKQR", "T2": "MSSHEGGKKK"}`)
	writeFile(t, filepath.Join(dir, defaultAffinityFile), "10 20\n40 50\n")

	out := filepath.Join(dir, "out", "davis.json")
	manifest := filepath.Join(dir, "out", "davis.manifest.yaml")
	db := filepath.Join(dir, "store", "datasets.db")
	prom := filepath.Join(dir, "out", "dti.prom")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"davis", dir, "--binary",
		"-o", out, "--manifest", manifest,
		"--store", "--store-path", db,
		"--metrics-textfile", prom,
	})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var ds types.Dataset
	require.NoError(t, json.Unmarshal(data, &ds))
	assert.Equal(t, []float64{1, 1, 0, 0}, ds.Labels)
	assert.Equal(t, []string{"CCO", "CCO", "CCC", "CCC"}, ds.Ligands)

	m, err := export.ReadManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, "davis", m.Run.Source)
	assert.Equal(t, "binary", m.Label.Mode)
	assert.Equal(t, "lower_is_active", m.Label.Direction)
	assert.Equal(t, 4, m.Report.Emitted)
	assert.Positive(t, m.Run.StoreRun)

	s, err := store.NewStore(types.StoreConfig{Path: db})
	require.NoError(t, err)
	defer s.Close()
	_, stored, err := s.Load(context.Background(), m.Run.StoreRun)
	require.NoError(t, err)
	assert.Equal(t, ds, stored)

	assert.FileExists(t, prom)
	assert.Contains(t, stderr.String(), "davis: 4 emitted")
}

func TestAssayTarget(t *testing.T) {
	newCmd := func(args ...string) *cobra.Command {
		c := &cobra.Command{}
		c.Flags().String("target", "", "")
		c.Flags().String("target-sequence", "", "")
		require.NoError(t, c.Flags().Parse(args))
		return c
	}

	seq, err := assayTarget(newCmd("--target", "sars-cov-3cl"))
	require.NoError(t, err)
	assert.Equal(t, source.SARSCoV3CLProtease.Sequence, seq)

	seq, err = assayTarget(newCmd("--target-sequence", "MKT"))
	require.NoError(t, err)
	assert.Equal(t, "MKT", seq)

	_, err = assayTarget(newCmd("--target", "sars-cov-3cl", "--target-sequence", "MKT"))
	assert.Error(t, err)

	_, err = assayTarget(newCmd())
	assert.ErrorContains(t, err, "sars-cov-3cl")
}

func TestMatrixPaths(t *testing.T) {
	c := &cobra.Command{}
	c.Flags().String("drugs", defaultDrugsFile, "")
	c.Flags().String("targets", defaultTargetsFile, "")
	c.Flags().String("affinity", defaultAffinityFile, "")
	require.NoError(t, c.Flags().Parse([]string{"--affinity", "/abs/Y"}))

	got := matrixPaths(c, "data/kiba")
	assert.Equal(t, [3]string{
		filepath.Join("data/kiba", defaultDrugsFile),
		filepath.Join("data/kiba", defaultTargetsFile),
		"/abs/Y",
	}, got)
}

func TestDavisRawLabels(t *testing.T) {
	resetCommands(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, defaultDrugsFile), `{"D1": "CCO"}`)
	writeFile(t, filepath.Join(dir, defaultTargetsFile), `{"T1": "MKT", "T2": "MSS"}`)
	writeFile(t, filepath.Join(dir, defaultAffinityFile), "10 nan\n")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"davis", dir, "--log=false"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "ligand\ttarget\tlabel\nCCO\tMKT\t10\n", stdout.String())
	assert.Contains(t, stderr.String(), "davis: 1 emitted")
	assert.Contains(t, stderr.String(), "warning: davis: 1 rows could not be read or transformed")
}

// newConfigCmd returns a command carrying the source flags, parsed from
// args, on a fresh global viper.
func newConfigCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	c := &cobra.Command{Use: "test"}
	addLabelFlags(c)
	addOutputFlags(c)
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func TestLoadConfigLabelFlags(t *testing.T) {
	zero := 0.0
	tests := []struct {
		name      string
		args      []string
		wantMode  string
		threshold *float64
		wantSpec  label.Spec
	}{
		{name: "no flags", wantSpec: label.Spec{Mode: label.Log}},
		{name: "log", args: []string{"--log"}, wantMode: "log", wantSpec: label.Spec{Mode: label.Log}},
		{name: "log off keeps source units", args: []string{"--log=false"}, wantMode: "passthrough",
			wantSpec: label.Spec{Mode: label.Passthrough}},
		{name: "binary wins over log", args: []string{"--binary", "--log"}, wantMode: "binary",
			wantSpec: label.Spec{Mode: label.Binary, Threshold: 30, Direction: label.LowerIsActive}},
		{name: "binary with log off", args: []string{"--binary", "--log=false"}, wantMode: "binary",
			wantSpec: label.Spec{Mode: label.Binary, Threshold: 30, Direction: label.LowerIsActive}},
		{name: "zero threshold is kept", args: []string{"--binary", "--threshold", "0"}, wantMode: "binary",
			threshold: &zero, wantSpec: label.Spec{Mode: label.Binary, Threshold: 0, Direction: label.LowerIsActive}},
		{name: "skip invalid", args: []string{"--on-invalid", "skip"},
			wantSpec: label.Spec{Mode: label.Log, OnInvalid: label.Skip}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(newConfigCmd(t, tt.args...))
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, cfg.Label.Mode)
			assert.Equal(t, tt.threshold, cfg.Label.Threshold)

			spec, err := label.Resolve(cfg.Label, types.KindKd)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSpec, spec)
		})
	}
}

func TestLoadConfigOutputFormat(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		config string
		env    string
		want   types.OutputFormat
	}{
		{name: "from extension", args: []string{"-o", "out.json"}, want: types.FormatJSON},
		{name: "no extension", args: []string{"-o", "out"}, want: types.FormatTSV},
		{name: "flag wins", args: []string{"-o", "out.json", "--format", "yaml"}, want: types.FormatYAML},
		{name: "config file wins", args: []string{"-o", "out.json"}, config: "output:\n  format: tsv\n", want: types.FormatTSV},
		{name: "environment wins", args: []string{"-o", "out.yaml"}, env: "tsv", want: types.FormatTSV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv(config.EnvName("output.format"), tt.env)
			}
			cmd := newConfigCmd(t, tt.args...)
			if tt.config != "" {
				viper.SetConfigType("yaml")
				require.NoError(t, viper.ReadConfig(strings.NewReader(tt.config)))
			}
			cfg, err := loadConfig(cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Output.Format)
		})
	}
}

func TestLoadConfigLabelFromManifest(t *testing.T) {
	spec, err := label.NewBinary(6, label.HigherIsActive)
	require.NoError(t, err)
	spec.OnInvalid = label.Skip
	path := filepath.Join(t.TempDir(), "run.yaml")
	m := export.NewManifest("run-1", "davis", types.KindKd, nil, spec, dataset.Report{Emitted: 1}, types.OutputConfig{})
	require.NoError(t, export.WriteManifest(path, m))

	cfg, err := loadConfig(newConfigCmd(t, "--label-from", path))
	require.NoError(t, err)
	got, err := label.Resolve(cfg.Label, types.KindKd)
	require.NoError(t, err)
	assert.Equal(t, spec, got)

	cfg, err = loadConfig(newConfigCmd(t, "--label-from", path, "--threshold", "8"))
	require.NoError(t, err)
	got, err = label.Resolve(cfg.Label, types.KindKd)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got.Threshold)
	assert.Equal(t, label.HigherIsActive, got.Direction)

	_, err = loadConfig(newConfigCmd(t, "--label-from", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}
