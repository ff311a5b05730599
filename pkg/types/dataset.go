// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Dataset is the output contract shared by every source: three parallel,
// index-aligned sequences of equal length.
type Dataset struct {
	Ligands []string  `json:"ligands" yaml:"ligands"`
	Targets []string  `json:"targets" yaml:"targets"`
	Labels  []float64 `json:"labels" yaml:"labels"`
}

// Append adds one aligned triple.
func (d *Dataset) Append(ligand, target string, label float64) {
	d.Ligands = append(d.Ligands, ligand)
	d.Targets = append(d.Targets, target)
	d.Labels = append(d.Labels, label)
}

// Len returns the number of triples.
func (d Dataset) Len() int {
	return len(d.Labels)
}

// Aligned reports whether the three sequences have identical length.
func (d Dataset) Aligned() bool {
	return len(d.Ligands) == len(d.Targets) && len(d.Targets) == len(d.Labels)
}

// Library is a compound screening library: parallel SMILES, display names,
// and PubChem CIDs with no target or label attached.
type Library struct {
	SMILES []string `json:"smiles" yaml:"smiles"`
	Names  []string `json:"names" yaml:"names"`
	CIDs   []string `json:"cids" yaml:"cids"`
}

// Len returns the number of compounds.
func (l Library) Len() int {
	return len(l.SMILES)
}
