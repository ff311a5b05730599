// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dti-datasets/internal/source"
)

var assayCmd = &cobra.Command{
	Use:   "assay <datatable.csv>",
	Short: "Build a dataset from a PubChem bioassay screened against one target",
	Long: `Assay reads a PubChem bioassay datatable (such as AID1706) and a
cid,smiles lookup table. Every compound id in the datatable must resolve
through the lookup; the run fails otherwise. All records share one target,
given by a built-in name (--target sars-cov-3cl) or a raw sequence
(--target-sequence).

Labels default to the raw PubChem activity score. With --binary the default
threshold is 15 and scores at or above it are active.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssay,
}

func runAssay(cmd *cobra.Command, args []string) error {
	lookupPath, _ := cmd.Flags().GetString("lookup")
	if lookupPath == "" {
		return fmt.Errorf("--lookup is required")
	}

	seq, err := assayTarget(cmd)
	if err != nil {
		return err
	}

	lf, err := openInput(lookupPath)
	if err != nil {
		return err
	}
	defer lf.Close()
	lookup, err := source.ReadLookup(lf)
	if err != nil {
		return fmt.Errorf("reading lookup %s: %w", lookupPath, err)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	df, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer df.Close()
	a, err := source.ReadAssay(name, df, lookup, seq)
	if err != nil {
		return err
	}
	logger.Debug("read assay", "assay", name, "lookup_entries", len(lookup))

	return runPipeline(cmd, a, []string{args[0], lookupPath})
}

func assayTarget(cmd *cobra.Command) (string, error) {
	targetName, _ := cmd.Flags().GetString("target")
	targetSeq, _ := cmd.Flags().GetString("target-sequence")
	switch {
	case targetName != "" && targetSeq != "":
		return "", fmt.Errorf("use either --target or --target-sequence, not both")
	case targetSeq != "":
		return targetSeq, nil
	case targetName != "":
		t, err := source.KnownTarget(targetName)
		if err != nil {
			return "", err
		}
		return t.Sequence, nil
	}
	return "", fmt.Errorf("a target is required: --target (%s) or --target-sequence",
		strings.Join(source.KnownTargetNames(), ", "))
}

func init() {
	assayCmd.Flags().String("lookup", "", "cid,smiles lookup table (required)")
	assayCmd.Flags().String("target", "", "built-in target name")
	assayCmd.Flags().String("target-sequence", "", "target amino-acid sequence")
	assayCmd.Flags().String("name", "", "assay name for logs and the store (default: file name)")
	addLabelFlags(assayCmd)
	addOutputFlags(assayCmd)

	rootCmd.AddCommand(assayCmd)
}
