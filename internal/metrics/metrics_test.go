// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dti-datasets/internal/dataset"
)

func TestObserveAndWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe("kiba", "KIBA_score", dataset.Report{Emitted: 3, Missing: 1}, 250*time.Millisecond)
	r.Observe("kiba", "KIBA_score", dataset.Report{Emitted: 2, Filtered: 4}, time.Second)

	path := filepath.Join(t.TempDir(), "textfile", "dti.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `dti_records_emitted_total{kind="KIBA_score",source="kiba"} 5`)
	assert.Contains(t, out, `dti_records_rejected_total{reason="missing",source="kiba"} 1`)
	assert.Contains(t, out, `dti_records_rejected_total{reason="filtered",source="kiba"} 4`)
	assert.Contains(t, out, `dti_records_rejected_total{reason="malformed",source="kiba"} 0`)
	assert.Contains(t, out, `dti_assemble_duration_seconds_count{source="kiba"} 2`)
	assert.Contains(t, out, "dti_last_run_timestamp_seconds")
}

func TestRegistryGathers(t *testing.T) {
	r := NewRecorder()
	r.Observe("davis", "Kd", dataset.Report{Emitted: 6}, time.Millisecond)

	families, err := r.reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"dti_records_emitted_total",
		"dti_records_rejected_total",
		"dti_assemble_duration_seconds",
		"dti_last_run_timestamp_seconds",
	}, names)
}
