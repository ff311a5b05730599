// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/dti-datasets/internal/source"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

var bindingDBCmd = &cobra.Command{
	Use:   "bindingdb <BindingDB_All.tsv>",
	Short: "Build a dataset from a BindingDB tab-separated dump",
	Long: `BindingDB reads a tab-separated BindingDB dump and keeps rows measured
for one label kind (--kind Kd, Ki, IC50, or EC50). Rows are dropped when the
target is a multichain complex, the ligand SMILES or InChI is missing, the
measurement is missing, neither a PubChem CID nor a UniProt id is present,
the target sequence is missing, or the measurement exceeds 1e7 nM.
Qualifiers such as "<5" are read as 5.

Labels default to p-scale (--log); --log=false keeps nM. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runBindingDB,
}

func runBindingDB(cmd *cobra.Command, args []string) error {
	kindName, _ := cmd.Flags().GetString("kind")
	kind, err := types.ParseLabelKind(kindName)
	if err != nil {
		return err
	}

	f, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := source.ReadBindingDB(f, kind)
	if err != nil {
		return err
	}
	logger.Debug("read BindingDB table", "path", args[0], "rows", db.Len(), "kind", kind.String())

	return runPipeline(cmd, db, args)
}

func init() {
	bindingDBCmd.Flags().String("kind", "Kd", "label kind: Kd, Ki, IC50, or EC50")
	addLabelFlags(bindingDBCmd)
	addOutputFlags(bindingDBCmd)

	rootCmd.AddCommand(bindingDBCmd)
}
