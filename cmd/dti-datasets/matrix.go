// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dti-datasets/internal/source"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

// Default file names inside a DeepDTA-style dataset directory.
const (
	defaultDrugsFile    = "SMILES.txt"
	defaultTargetsFile  = "target_seq.txt"
	defaultAffinityFile = "affinity.txt"
)

var davisCmd = &cobra.Command{
	Use:   "davis <dir>",
	Short: "Build a dataset from a DAVIS Kd matrix",
	Long: `DAVIS reads a drug dictionary, a target dictionary, and a dense
whitespace-separated Kd matrix (nM) from <dir>. Every cell becomes a record;
the i-th drug entry is bound to matrix row i and the j-th target entry to
column j. Labels default to p-scale (--log); --log=false keeps nM.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatrix(cmd, args[0], source.NewDavis)
	},
}

var kibaCmd = &cobra.Command{
	Use:   "kiba <dir>",
	Short: "Build a dataset from a KIBA score matrix",
	Long: `KIBA reads a drug dictionary, a target dictionary, and a sparse
tab-separated KIBA score matrix from <dir>. Cells without a measurement (nan
or empty) are skipped. Labels default to the raw score; --binary needs an
explicit --threshold because KIBA scores have no universal cut-off.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatrix(cmd, args[0], source.NewKIBA)
	},
}

func runMatrix(cmd *cobra.Command, dir string, newSource func(*types.DrugTargetMatrix) *source.MatrixSource) error {
	paths := matrixPaths(cmd, dir)

	var readers [3]io.ReadCloser
	for i, p := range paths {
		f, err := openInput(p)
		if err != nil {
			return err
		}
		defer f.Close()
		readers[i] = f
	}

	m, err := source.LoadMatrix(readers[0], readers[1], readers[2])
	if err != nil {
		return fmt.Errorf("loading matrix from %s: %w", dir, err)
	}
	src := newSource(m)
	logger.Debug("loaded matrix", "source", src.Name(), "drugs", m.Rows(), "targets", m.Cols())

	return runPipeline(cmd, src, paths[:])
}

func matrixPaths(cmd *cobra.Command, dir string) [3]string {
	name := func(flag, def string) string {
		v, _ := cmd.Flags().GetString(flag)
		if v == "" {
			v = def
		}
		if filepath.IsAbs(v) {
			return v
		}
		return filepath.Join(dir, v)
	}
	return [3]string{
		name("drugs", defaultDrugsFile),
		name("targets", defaultTargetsFile),
		name("affinity", defaultAffinityFile),
	}
}

func init() {
	for _, c := range []*cobra.Command{davisCmd, kibaCmd} {
		c.Flags().String("drugs", defaultDrugsFile, "drug dictionary file, relative to <dir>")
		c.Flags().String("targets", defaultTargetsFile, "target dictionary file, relative to <dir>")
		c.Flags().String("affinity", defaultAffinityFile, "value matrix file, relative to <dir>")
		addLabelFlags(c)
		addOutputFlags(c)
		rootCmd.AddCommand(c)
	}
}
