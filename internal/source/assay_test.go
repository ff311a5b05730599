// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dti-datasets/pkg/types"
)

const lookupCSV = `cid,smiles
2244,CC(=O)OC1=CC=CC=C1C(=O)O
3672.0,CC(C)CC1=CC=C(C=C1)C(C)C(=O)O
702,CCO
`

const assayCSV = `PUBCHEM_RESULT_TAG,PUBCHEM_SID,PUBCHEM_CID,PUBCHEM_ACTIVITY_OUTCOME,PUBCHEM_ACTIVITY_SCORE
RESULT_TYPE,,,,INTEGER
RESULT_DESCR,,,,score
1,100,2244,2,42
2,101,3672,1,0
3,102,702.0,1,7
`

func readLookup(t *testing.T) map[string]string {
	t.Helper()
	lookup, err := ReadLookup(strings.NewReader(lookupCSV))
	require.NoError(t, err)
	return lookup
}

func TestReadLookupNormalizesIDs(t *testing.T) {
	lookup := readLookup(t)
	assert.Len(t, lookup, 3)
	assert.Equal(t, "CC(C)CC1=CC=C(C=C1)C(C)C(=O)O", lookup["3672"])
	assert.Equal(t, "CCO", lookup["702"])
}

func TestReadLookupMissingColumn(t *testing.T) {
	_, err := ReadLookup(strings.NewReader("id,structure\n1,C\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadAssay(t *testing.T) {
	target := SARSCoV3CLProtease.Sequence
	a, err := ReadAssay("AID1706", strings.NewReader(assayCSV), readLookup(t), target)
	require.NoError(t, err)
	assert.Equal(t, "AID1706", a.Name())
	assert.Equal(t, types.KindPubChemActivity, a.Kind())

	recs, rejected := collect(t, a)
	assert.Empty(t, rejected)
	require.Len(t, recs, 3)

	assert.Equal(t, "CC(=O)OC1=CC=CC=C1C(=O)O", recs[0].Ligand)
	assert.Equal(t, 42.0, recs[0].RawLabel)
	assert.Equal(t, "2244", recs[0].CompoundID)
	assert.Equal(t, "702", recs[2].CompoundID)
	for _, r := range recs {
		assert.Equal(t, target, r.Target)
		assert.Equal(t, types.KindPubChemActivity, r.Kind)
	}
}

func TestReadAssayUnresolvedID(t *testing.T) {
	data := assayCSV + "4,103,999999,1,3\n"
	_, err := ReadAssay("AID1706", strings.NewReader(data), readLookup(t), "MKT")
	require.ErrorIs(t, err, ErrUnresolvedID)
	assert.Contains(t, err.Error(), "999999")
}

func TestReadAssayMalformedRows(t *testing.T) {
	data := assayCSV + "4,103,,1,3\n5,104,2244,1,active\n"
	a, err := ReadAssay("AID1706", strings.NewReader(data), readLookup(t), "MKT")
	require.NoError(t, err)

	recs, rejected := collect(t, a)
	assert.Len(t, recs, 3)
	require.Len(t, rejected, 2)
	for _, re := range rejected {
		assert.ErrorIs(t, re, ErrMalformedRow)
	}
	assert.Equal(t, colAssayCID, rejected[0].Column)
	assert.Equal(t, colActivityScore, rejected[1].Column)
}

func TestReadAssayRequiresTarget(t *testing.T) {
	_, err := ReadAssay("AID1706", strings.NewReader(assayCSV), readLookup(t), "  ")
	assert.ErrorIs(t, err, types.ErrInvalidRecord)
}

func TestReadAssayMissingColumn(t *testing.T) {
	_, err := ReadAssay("AID1706", strings.NewReader("PUBCHEM_CID,OUTCOME\n1,2\n"), readLookup(t), "MKT")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestNormalizeCID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2244", "2244"},
		{"2244.0", "2244"},
		{" 702 ", "702"},
		{"", ""},
		{"2244.5", "2244.5"},
		{"CHEMBL25", "CHEMBL25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCID(tt.in), "input %q", tt.in)
	}
}

func TestKnownTarget(t *testing.T) {
	got, err := KnownTarget(" SARS-CoV-3CL ")
	require.NoError(t, err)
	assert.Equal(t, SARSCoV3CLProtease, got)
	assert.Len(t, got.Sequence, 307)
	assert.True(t, strings.HasPrefix(got.Sequence, "SGFKKLVSPS"))

	_, err = KnownTarget("hiv-protease")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sars-cov-3cl")

	assert.Equal(t, []string{"sars-cov-3cl"}, KnownTargetNames())
}
