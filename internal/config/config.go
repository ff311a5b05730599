// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads and validates the pipeline configuration from viper.
// Keys mirror the yaml tags of types.PipelineConfig (label.mode,
// output.format, store.path, ...), so the same names work in the config
// file, as DTI_DATASETS_* environment variables, and as bound flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/pdiddy/dti-datasets/pkg/types"
)

// EnvPrefix is the environment variable prefix for every key.
const EnvPrefix = "DTI_DATASETS"

// Defaults applied before the config file and environment are read.
const (
	DefaultFormat    = types.FormatTSV
	DefaultStorePath = "data/datasets.db"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.format", string(DefaultFormat))
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", DefaultStorePath)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// BindEnv makes every key readable from DTI_DATASETS_<SECTION>_<KEY>.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about; keys
	// without defaults need an explicit binding.
	for _, key := range []string{
		"label.mode", "label.threshold", "label.direction", "label.on_invalid",
		"output.path", "output.manifest", "metrics.textfile",
	} {
		_ = v.BindEnv(key)
	}
}

// EnvName returns the environment variable that feeds key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// IsExplicit reports whether key was given in the config file or the
// environment. Defaults and in-process overrides do not count.
func IsExplicit(v *viper.Viper, key string) bool {
	if v.InConfig(key) {
		return true
	}
	_, ok := os.LookupEnv(EnvName(key))
	return ok
}

// Load decodes v into a PipelineConfig and validates it.
func Load(v *viper.Viper) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg, DecodeYAMLTags); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return types.PipelineConfig{}, err
	}
	return cfg, nil
}

// DecodeYAMLTags makes viper decode through the yaml struct tags, so keys
// match the config file.
func DecodeYAMLTags(dc *mapstructure.DecoderConfig) {
	dc.TagName = "yaml"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks cfg against its struct tags. The returned error wraps
// ErrInvalidConfig and names each offending key.
func Validate(cfg types.PipelineConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	key := fe.Namespace()
	if i := strings.Index(key, "."); i >= 0 {
		key = key[i+1:]
	}
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s fails %s", key, fe.Tag())
	}
}
