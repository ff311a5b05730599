// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/dti-datasets/pkg/types"
)

// filterBindingDB applies the BindingDB validity rules to one row, in order:
// single-chain target, ligand SMILES present, measurement present and
// numeric, at least one external id, ligand InChI present, target sequence
// present, measurement within maxPotencyNM.
func filterBindingDB(i int, row bindingDBRow, kind types.LabelKind, labelCol string) (types.BioactivityRecord, *RowError) {
	if row.parseErr != "" {
		return types.BioactivityRecord{}, malformed(i, "", row.parseErr)
	}

	if row.chainCount == "" {
		return types.BioactivityRecord{}, filtered(i, colChainCount, "no chain count")
	}
	chains, err := strconv.ParseFloat(row.chainCount, 64)
	if err != nil {
		return types.BioactivityRecord{}, malformed(i, colChainCount, fmt.Sprintf("chain count %q is not a number", row.chainCount))
	}
	if chains != 1 {
		return types.BioactivityRecord{}, filtered(i, colChainCount, fmt.Sprintf("%g chains", chains))
	}

	if row.smiles == "" {
		return types.BioactivityRecord{}, filtered(i, colSMILES, "no SMILES")
	}

	if row.label == "" {
		return types.BioactivityRecord{}, filtered(i, labelCol, "no measurement")
	}
	value, err := parseQualified(row.label)
	if err != nil {
		return types.BioactivityRecord{}, malformed(i, labelCol, err.Error())
	}

	if row.pubchemCID == "" && row.uniprotID == "" {
		return types.BioactivityRecord{}, filtered(i, "", "neither PubChem CID nor UniProt id")
	}
	if row.inchi == "" {
		return types.BioactivityRecord{}, filtered(i, colInChI, "no InChI")
	}
	if row.sequence == "" {
		return types.BioactivityRecord{}, filtered(i, colSequence, "no target sequence")
	}
	if value > maxPotencyNM {
		return types.BioactivityRecord{}, filtered(i, labelCol, fmt.Sprintf("%g nM exceeds %g nM", value, maxPotencyNM))
	}

	return types.BioactivityRecord{
		Ligand:     row.smiles,
		Target:     row.sequence,
		RawLabel:   value,
		Kind:       kind,
		CompoundID: row.pubchemCID,
		TargetID:   row.uniprotID,
	}, nil
}

// parseQualified parses a measurement that may carry an inequality
// qualifier ("<5", ">10000"). The qualifier is dropped: "<5" is read as 5.
func parseQualified(s string) (float64, error) {
	clean := strings.TrimSpace(strings.NewReplacer(">", "", "<", "").Replace(s))
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("measurement %q is not a number", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("measurement %q is not finite", s)
	}
	return v, nil
}
