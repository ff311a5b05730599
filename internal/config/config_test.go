// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dti-datasets/pkg/types"
)

func newViper(t *testing.T, yamlDoc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	if yamlDoc != "" {
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(strings.NewReader(yamlDoc)))
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, types.FormatTSV, cfg.Output.Format)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.False(t, cfg.Store.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Label.Mode)
	assert.Nil(t, cfg.Label.Threshold)
}

func TestLoadFromYAML(t *testing.T) {
	doc := `
label:
  mode: binary
  threshold: 12.1
  direction: lower_is_active
  on_invalid: skip
output:
  format: json
  path: out/kiba.json
  manifest: out/kiba.manifest.yaml
store:
  enabled: true
  path: /tmp/runs.db
logging:
  level: debug
  format: json
metrics:
  textfile: out/dti.prom
`
	cfg, err := Load(newViper(t, doc))
	require.NoError(t, err)

	assert.Equal(t, "binary", cfg.Label.Mode)
	require.NotNil(t, cfg.Label.Threshold)
	assert.Equal(t, 12.1, *cfg.Label.Threshold)
	assert.Equal(t, "lower_is_active", cfg.Label.Direction)
	assert.Equal(t, "skip", cfg.Label.OnInvalid)
	assert.Equal(t, types.FormatJSON, cfg.Output.Format)
	assert.Equal(t, "out/kiba.json", cfg.Output.Path)
	assert.Equal(t, "out/kiba.manifest.yaml", cfg.Output.Manifest)
	assert.True(t, cfg.Store.Enabled)
	assert.Equal(t, "/tmp/runs.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "out/dti.prom", cfg.Metrics.Textfile)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DTI_DATASETS_LABEL_MODE", "log")
	t.Setenv("DTI_DATASETS_LABEL_THRESHOLD", "7")
	t.Setenv("DTI_DATASETS_OUTPUT_FORMAT", "yaml")

	cfg, err := Load(newViper(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "log", cfg.Label.Mode)
	require.NotNil(t, cfg.Label.Threshold)
	assert.Equal(t, 7.0, *cfg.Label.Threshold)
	assert.Equal(t, types.FormatYAML, cfg.Output.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		key  string
	}{
		{"mode", "label:\n  mode: sigmoid\n", "label.mode"},
		{"direction", "label:\n  direction: sideways\n", "label.direction"},
		{"policy", "label:\n  on_invalid: retry\n", "label.on_invalid"},
		{"format", "output:\n  format: parquet\n", "output.format"},
		{"log level", "logging:\n  level: loud\n", "logging.level"},
		{"store path", "store:\n  enabled: true\n  path: \"\"\n", "store.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newViper(t, tt.doc))
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestIsExplicit(t *testing.T) {
	assert.Equal(t, "DTI_DATASETS_OUTPUT_FORMAT", EnvName("output.format"))

	v := newViper(t, "")
	assert.False(t, IsExplicit(v, "output.format"), "defaults are not explicit")
	v.Set("output.format", "json")
	assert.False(t, IsExplicit(v, "output.format"), "overrides are not explicit")

	v = newViper(t, "output:\n  format: tsv\n")
	assert.True(t, IsExplicit(v, "output.format"))
	assert.False(t, IsExplicit(v, "output.path"))

	t.Setenv("DTI_DATASETS_OUTPUT_PATH", "out.json")
	assert.True(t, IsExplicit(newViper(t, ""), "output.path"))
}
