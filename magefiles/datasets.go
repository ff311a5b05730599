//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Dataset groups targets that build the standard datasets from files under
// data/. Download the raw files first; the CLI does not fetch anything.
type Dataset mg.Namespace

// Davis builds out/davis.tsv with p-scale labels from data/davis.
func (Dataset) Davis() error {
	mg.Deps(Build)
	return assemble("davis", "data/davis", "--log")
}

// Kiba builds out/kiba.tsv with raw KIBA scores from data/kiba.
func (Dataset) Kiba() error {
	mg.Deps(Build)
	return assemble("kiba", "data/kiba")
}

// BindingDB builds out/bindingdb.tsv with p-scale Kd labels from
// data/raw/BindingDB_All.tsv.
func (Dataset) BindingDB() error {
	mg.Deps(Build)
	return assemble("bindingdb", "data/raw/BindingDB_All.tsv", "--kind", "Kd", "--log")
}

// All builds every standard dataset.
func (Dataset) All() {
	mg.SerialDeps(Dataset.Davis, Dataset.Kiba, Dataset.BindingDB)
}

func assemble(cmd, input string, flags ...string) error {
	out := filepath.Join("out", cmd+".tsv")
	manifest := filepath.Join("out", "manifests", cmd+".yaml")
	args := append([]string{cmd, input, "-o", out, "--manifest", manifest, "--store"}, flags...)
	if err := sh.RunV(binPath, args...); err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}
