// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dti-datasets CLI.
// Each supported source is a subcommand that reads local files, assembles
// a labelled (ligand, target, label) dataset, and writes it out.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dti-datasets/internal/config"
	"github.com/pdiddy/dti-datasets/internal/logging"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the logging configuration before any command runs.
var logger = slog.New(slog.DiscardHandler)

// rootCmd is the base command for the dti-datasets CLI.
var rootCmd = &cobra.Command{
	Use:   "dti-datasets",
	Short: "Normalize bioactivity sources into drug-target interaction datasets",
	Long: `dti-datasets reads public bioactivity data (BindingDB dumps, DAVIS and
KIBA matrices, PubChem assays) from local files and produces three aligned
sequences: ligand structure, target sequence, and label.

Labels are passed through, converted from nanomolar to p-scale (--log), or
thresholded into active/inactive classes (--binary). Output goes to stdout
or --output as TSV, JSON, or YAML, and can be kept in a local SQLite store
for later export.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lc := types.LoggingConfig{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
		}
		l, err := logging.New(lc, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./dti-datasets.yaml or ~/.config/dti-datasets/config.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")

	_ = viper.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", pf.Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dti-datasets")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dti-datasets"))
		}
	}

	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
