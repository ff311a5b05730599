// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dti-datasets/internal/export"
	"github.com/pdiddy/dti-datasets/internal/source"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library <repurposing_hub.csv>",
	Short: "Extract SMILES, names, and CIDs from a compound library",
	Long: `Library reads a Broad Repurposing Hub style CSV with smiles, title, and
cid columns and writes the three columns aligned. Empty cells are written
as UNK. No targets or labels are attached.`,
	Args: cobra.ExactArgs(1),
	RunE: runLibrary,
}

func runLibrary(cmd *cobra.Command, args []string) error {
	f, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	lib, err := source.ReadLibrary(f)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	ff := export.FormatFromPath(out, types.FormatTSV)
	if format != "" {
		ff = types.OutputFormat(format)
	}

	if out == "" {
		err = export.WriteLibrary(cmd.OutOrStdout(), lib, ff)
	} else {
		err = export.WriteLibraryFile(out, lib, ff)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "library: %d compounds\n", lib.Len())
	return nil
}

func init() {
	libraryCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	libraryCmd.Flags().String("format", "", "output format: tsv, json, or yaml")

	rootCmd.AddCommand(libraryCmd)
}
