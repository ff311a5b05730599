// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"sort"
	"strings"
)

// Target is a named protein target with its sequence.
type Target struct {
	Name     string
	Sequence string
}

// SARSCoV3CLProtease is the SARS-CoV 3C-like protease screened in PubChem
// AID1706.
var SARSCoV3CLProtease = Target{
	Name: "SARS-CoV 3CL Protease",
	Sequence: "SGFKKLVSPSSAVEKCIVSVSYRGNNLNGLWLGDSIYCPRHVLGKFSGDQWGDVLNLANNHEFEVVTQNGVTLNVVSRRLKG" +
		"AVLILQTAVANAETPKYKFVKANCGDSFTIACSYGGTVIGLYPVTMRSNGTIRASFLAGACGSVGFNIEKGVVNFFYMHHLELPN" +
		"ALHTGTDLMGEFYGGYVDEEVAQRVPPDNLVTNNIVAWLYAAIISVKESSFSQPKWLESTTVSIEDYNRWASDNGFTPFSTSTAI" +
		"TKLSAITGVDVCKLLRTIMVKSAQWGSDPILGQYNFEDELTPESVFNQVGGVRLQ",
}

var knownTargets = map[string]Target{
	"sars-cov-3cl": SARSCoV3CLProtease,
}

// KnownTarget returns a built-in target by short name.
func KnownTarget(name string) (Target, error) {
	t, ok := knownTargets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Target{}, fmt.Errorf("unknown target %q (known: %s)", name, strings.Join(KnownTargetNames(), ", "))
	}
	return t, nil
}

// KnownTargetNames lists the built-in target short names.
func KnownTargetNames() []string {
	names := make([]string, 0, len(knownTargets))
	for n := range knownTargets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
