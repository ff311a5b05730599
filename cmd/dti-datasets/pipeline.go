// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dti-datasets/internal/config"
	"github.com/pdiddy/dti-datasets/internal/dataset"
	"github.com/pdiddy/dti-datasets/internal/export"
	"github.com/pdiddy/dti-datasets/internal/label"
	"github.com/pdiddy/dti-datasets/internal/logging"
	"github.com/pdiddy/dti-datasets/internal/metrics"
	"github.com/pdiddy/dti-datasets/internal/source"
	"github.com/pdiddy/dti-datasets/internal/store"
	"github.com/pdiddy/dti-datasets/internal/units"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

// addLabelFlags registers the label transformation flags on a source command.
func addLabelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("binary", false, "threshold labels into 1 (active) and 0 (inactive)")
	f.Bool("log", false, "convert nanomolar labels to p-scale: -log10(nM*1e-9 + 1e-10); --log=false keeps source units")
	f.Float64("threshold", 0, "binary cut-off in source units (default depends on the source)")
	f.String("direction", "", "binary direction: lower_is_active or higher_is_active (default depends on the source)")
	f.String("on-invalid", "", "values log mode cannot convert: abort or skip (default abort)")
	f.String("label-from", "", "reuse the label settings recorded in a run manifest")
}

// addOutputFlags registers output, store, and metrics flags on a command.
func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output", "o", "", "output file (default: stdout)")
	f.String("format", "", "output format: tsv, json, or yaml (default: from --output extension, else tsv)")
	f.String("manifest", "", "write a YAML run manifest to this path")
	f.Bool("store", false, "save the dataset to the SQLite store")
	f.String("store-path", "", "SQLite store file (default data/datasets.db)")
	f.String("metrics-textfile", "", "write Prometheus text-format run metrics to this path")
}

// applyFlags copies the flags the caller actually set into viper so they
// override the config file and environment. Label settings from
// --label-from sit below the explicit label flags. A zero threshold is a
// valid cut-off, so --threshold is only applied when given.
func applyFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if path, _ := f.GetString("label-from"); path != "" {
		if err := applyManifestLabel(path); err != nil {
			return err
		}
	}

	binary, _ := f.GetBool("binary")
	useLog, _ := f.GetBool("log")
	if mode, ok := label.ModeFromFlags(binary, useLog); ok {
		viper.Set("label.mode", mode.String())
	} else if f.Changed("log") {
		viper.Set("label.mode", label.Passthrough.String())
	}

	set := func(flag, key string) {
		if !f.Changed(flag) {
			return
		}
		if fl := f.Lookup(flag); fl != nil {
			viper.Set(key, fl.Value.String())
		}
	}
	set("threshold", "label.threshold")
	set("direction", "label.direction")
	set("on-invalid", "label.on_invalid")
	set("output", "output.path")
	set("format", "output.format")
	set("manifest", "output.manifest")
	set("store", "store.enabled")
	set("store-path", "store.path")
	set("metrics-textfile", "metrics.textfile")
	return nil
}

// applyManifestLabel loads the label spec recorded in a manifest into viper.
func applyManifestLabel(path string) error {
	m, err := export.ReadManifest(path)
	if err != nil {
		return err
	}
	spec, err := m.Label.Spec()
	if err != nil {
		return fmt.Errorf("label settings in %s: %w", path, err)
	}
	viper.Set("label.mode", spec.Mode.String())
	viper.Set("label.on_invalid", spec.OnInvalid.String())
	if spec.Mode == label.Binary {
		viper.Set("label.threshold", spec.Threshold)
		viper.Set("label.direction", spec.Direction.String())
	}
	return nil
}

// loadConfig applies command flags and decodes the pipeline configuration.
// The output format follows the --output extension unless a format was
// given by flag, config file, or environment.
func loadConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	if err := applyFlags(cmd); err != nil {
		return types.PipelineConfig{}, err
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return types.PipelineConfig{}, err
	}
	if cfg.Output.Path != "" && !cmd.Flags().Changed("format") && !config.IsExplicit(viper.GetViper(), "output.format") {
		cfg.Output.Format = export.FormatFromPath(cfg.Output.Path, cfg.Output.Format)
	}
	return cfg, nil
}

// newRunID returns a sortable run identifier.
func newRunID() string {
	return time.Now().UTC().Format("20060102T150405.000Z")
}

// runPipeline assembles src under the configured label spec and delivers
// the dataset to every configured sink: output file or stdout, manifest,
// store, and metrics textfile.
func runPipeline(cmd *cobra.Command, src source.Source, inputs []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	spec, err := label.Resolve(cfg.Label, src.Kind())
	if err != nil {
		return fmt.Errorf("%s: %w", src.Name(), err)
	}
	if spec.Mode == label.Binary && cfg.Label.Direction == "" {
		logger.Info("no --direction given, using source default",
			"source", src.Name(), "direction", spec.Direction.String())
	}

	runID := newRunID()
	ctx := logging.WithRunID(cmd.Context(), runID)

	start := time.Now()
	ds, rep, err := dataset.NewAssembler(units.Molar{}, logger).Assemble(ctx, src, spec)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := writeDataset(cmd.OutOrStdout(), cfg.Output, ds); err != nil {
		return err
	}

	var storeRun int64
	if cfg.Store.Enabled {
		storeRun, err = saveRun(cmd, cfg.Store, store.Run{
			RunID:  runID,
			Source: src.Name(),
			Kind:   src.Kind().String(),
			Label:  spec.String(),
			Inputs: inputs,
			Report: rep,
		}, ds)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "saved dataset", "store", cfg.Store.Path, "store_run", storeRun)
	}

	if cfg.Output.Manifest != "" {
		m := export.NewManifest(runID, src.Name(), src.Kind(), inputs, spec, rep, cfg.Output)
		m.Run.StoreRun = storeRun
		m.Run.Version = version
		if err := export.WriteManifest(cfg.Output.Manifest, m); err != nil {
			return err
		}
	}

	if cfg.Metrics.Textfile != "" {
		rec := metrics.NewRecorder()
		rec.Observe(src.Name(), src.Kind().String(), rep, elapsed)
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d emitted, %d filtered, %d missing, %d malformed, %d invalid (total: %d)\n",
		src.Name(), rep.Emitted, rep.Filtered, rep.Missing, rep.Malformed, rep.Invalid, rep.Total())
	if rep.HasFailures() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %d rows could not be read or transformed\n",
			src.Name(), rep.Malformed+rep.Invalid)
	}
	return nil
}

// writeDataset writes ds to out.Path, or to w when no path is set.
func writeDataset(w io.Writer, out types.OutputConfig, ds types.Dataset) error {
	if out.Path == "" {
		return export.Write(w, ds, out.Format)
	}
	return export.WriteFile(out.Path, ds, out.Format)
}

func saveRun(cmd *cobra.Command, cfg types.StoreConfig, run store.Run, ds types.Dataset) (int64, error) {
	s, err := store.NewStore(cfg)
	if err != nil {
		return 0, err
	}
	defer s.Close()
	return s.Save(cmd.Context(), run, ds)
}

// openInput opens a named input file; "-" reads stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}
