// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dti-datasets/internal/units"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

func TestTransformBinary(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		threshold float64
		raw       float64
		want      float64
	}{
		{"lower active below threshold", LowerIsActive, 30, 10, 1},
		{"lower active above threshold", LowerIsActive, 30, 50, 0},
		{"lower active at threshold", LowerIsActive, 30, 30, 0},
		{"higher active above threshold", HigherIsActive, 15, 40, 1},
		{"higher active at threshold", HigherIsActive, 15, 15, 1},
		{"higher active below threshold", HigherIsActive, 15, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := NewBinary(tt.threshold, tt.direction)
			require.NoError(t, err)

			got, err := Transform(spec, units.Molar{}, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransformBinaryOutputsAreClasses(t *testing.T) {
	spec, err := NewBinary(30, LowerIsActive)
	require.NoError(t, err)

	for _, raw := range []float64{-5, 0, 0.3, 29.999, 30, 31, 1e7} {
		got, err := Transform(spec, units.Molar{}, raw)
		require.NoError(t, err)
		assert.Contains(t, []float64{0, 1}, got)
	}
}

func TestNewBinaryRequiresDirection(t *testing.T) {
	_, err := NewBinary(30, DirectionUnset)
	assert.ErrorIs(t, err, ErrDirectionRequired)
}

func TestTransformLog(t *testing.T) {
	spec := Spec{Mode: Log}

	got, err := Transform(spec, units.Molar{}, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, got, 1e-3)

	for _, raw := range []float64{0, -1} {
		_, err := Transform(spec, units.Molar{}, raw)
		assert.ErrorIs(t, err, ErrInvalidValue, "raw=%v", raw)
	}
}

func TestTransformLogMonotonic(t *testing.T) {
	spec := Spec{Mode: Log}
	prev, err := Transform(spec, units.Molar{}, 0.01)
	require.NoError(t, err)

	for _, raw := range []float64{0.1, 1, 5, 30, 500, 1e4, 1e7} {
		got, err := Transform(spec, units.Molar{}, raw)
		require.NoError(t, err)
		assert.Less(t, got, prev, "raw=%v", raw)
		prev = got
	}
}

func TestTransformPassthrough(t *testing.T) {
	got, err := Transform(Spec{}, units.Molar{}, 11.1)
	require.NoError(t, err)
	assert.Equal(t, 11.1, got)
}

func TestModeFromFlags(t *testing.T) {
	tests := []struct {
		name       string
		binary     bool
		log        bool
		wantMode   Mode
		wantChosen bool
	}{
		{"neither", false, false, Passthrough, false},
		{"binary only", true, false, Binary, true},
		{"log only", false, true, Log, true},
		{"binary wins over log", true, true, Binary, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := ModeFromFlags(tt.binary, tt.log)
			assert.Equal(t, tt.wantMode, m)
			assert.Equal(t, tt.wantChosen, ok)
		})
	}
}

func ptr(f float64) *float64 { return &f }

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.LabelConfig
		kind    types.LabelKind
		want    Spec
		wantErr error
	}{
		{
			name: "potency defaults to log",
			kind: types.KindKd,
			want: Spec{Mode: Log},
		},
		{
			name: "potency binary uses threshold 30 lower is active",
			cfg:  types.LabelConfig{Mode: "binary"},
			kind: types.KindIC50,
			want: Spec{Mode: Binary, Threshold: 30, Direction: LowerIsActive},
		},
		{
			name: "activity score binary uses threshold 15 higher is active",
			cfg:  types.LabelConfig{Mode: "binary"},
			kind: types.KindPubChemActivity,
			want: Spec{Mode: Binary, Threshold: 15, Direction: HigherIsActive},
		},
		{
			name: "explicit direction overrides family default",
			cfg:  types.LabelConfig{Mode: "binary", Threshold: ptr(50), Direction: "higher_is_active"},
			kind: types.KindKi,
			want: Spec{Mode: Binary, Threshold: 50, Direction: HigherIsActive},
		},
		{
			name: "kiba defaults to passthrough",
			kind: types.KindKIBA,
			want: Spec{Mode: Passthrough},
		},
		{
			name:    "kiba binary needs a threshold",
			cfg:     types.LabelConfig{Mode: "binary"},
			kind:    types.KindKIBA,
			wantErr: ErrThresholdRequired,
		},
		{
			name: "kiba binary with explicit threshold",
			cfg:  types.LabelConfig{Mode: "binary", Threshold: ptr(12.1)},
			kind: types.KindKIBA,
			want: Spec{Mode: Binary, Threshold: 12.1, Direction: LowerIsActive},
		},
		{
			name:    "log on kiba is rejected",
			cfg:     types.LabelConfig{Mode: "log"},
			kind:    types.KindKIBA,
			wantErr: ErrUnsupportedMode,
		},
		{
			name:    "log on activity score is rejected",
			cfg:     types.LabelConfig{Mode: "log"},
			kind:    types.KindPubChemActivity,
			wantErr: ErrUnsupportedMode,
		},
		{
			name: "skip policy carried through",
			cfg:  types.LabelConfig{Mode: "log", OnInvalid: "skip"},
			kind: types.KindKd,
			want: Spec{Mode: Log, OnInvalid: Skip},
		},
		{
			name:    "unknown mode",
			cfg:     types.LabelConfig{Mode: "sqrt"},
			kind:    types.KindKd,
			wantErr: ErrUnsupportedMode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.cfg, tt.kind)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultDirection(t *testing.T) {
	assert.Equal(t, LowerIsActive, DefaultDirection(types.KindKd))
	assert.Equal(t, LowerIsActive, DefaultDirection(types.KindEC50))
	assert.Equal(t, LowerIsActive, DefaultDirection(types.KindKIBA))
	assert.Equal(t, HigherIsActive, DefaultDirection(types.KindPubChemActivity))
}
