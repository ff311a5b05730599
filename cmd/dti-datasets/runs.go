// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dti-datasets/internal/export"
	"github.com/pdiddy/dti-datasets/internal/store"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

// --- runs ---

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List datasets saved in the SQLite store",
	Long: `Runs lists the datasets saved with --store, newest first, with the
per-run row counts. Use --delete to remove a run and its pairs.`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if id, _ := cmd.Flags().GetInt64("delete"); id > 0 {
		if err := s.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted run %d\n", id)
		return nil
	}

	src, _ := cmd.Flags().GetString("source")
	runs, err := s.Runs(cmd.Context(), src)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}
	fmt.Fprintf(w, "%-5s  %-20s  %-10s  %-22s  %-36s  %8s  %8s\n",
		"Run", "Created", "Source", "Kind", "Label", "Emitted", "Rejected")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, r := range runs {
		lbl := r.Label
		if len(lbl) > 36 {
			lbl = lbl[:33] + "..."
		}
		fmt.Fprintf(w, "%-5d  %-20s  %-10s  %-22s  %-36s  %8d  %8d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source, r.Kind, lbl,
			r.Report.Emitted, r.Report.Rejected())
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a stored dataset to a file or stdout",
	Long: `Export reads the dataset saved under --run from the SQLite store and
writes it in the requested format without re-reading the source files.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetInt64("run")
	if id <= 0 {
		return fmt.Errorf("--run is required")
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	run, ds, err := s.Load(cmd.Context(), id)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	ff := export.FormatFromPath(out, types.FormatTSV)
	if format != "" {
		ff = types.OutputFormat(format)
	}
	if err := writeDataset(cmd.OutOrStdout(), types.OutputConfig{Format: ff, Path: out}, ds); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported run %d (%s, %s): %d records\n", run.ID, run.Source, run.Label, ds.Len())
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("store-path")
	if path == "" {
		path = viper.GetString("store.path")
	}
	return store.NewStore(types.StoreConfig{Enabled: true, Path: path})
}

func init() {
	for _, c := range []*cobra.Command{runsCmd, exportCmd} {
		c.Flags().String("store-path", "", "SQLite store file (default data/datasets.db)")
	}

	runsCmd.Flags().String("source", "", "only list runs from this source")
	runsCmd.Flags().Int64("delete", 0, "delete the run with this number")
	runsCmd.Flags().Bool("json", false, "print runs as JSON")

	exportCmd.Flags().Int64("run", 0, "stored run number (see runs)")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().String("format", "", "output format: tsv, json, or yaml")

	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(exportCmd)
}
