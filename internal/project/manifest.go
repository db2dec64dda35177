// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package project locates the Cargo manifest of a scanned tree and reads
// the crate identity used to title reports.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestName = "Cargo.toml"

// Manifest is the subset of Cargo.toml memscan reports.
type Manifest struct {
	Path    string   // Absolute path of the Cargo.toml
	Name    string   // [package].name, or the directory name for a virtual workspace
	Version string   // [package].version
	Members []string // [workspace].members
}

// Title returns "name version", or just the name when unversioned.
func (m Manifest) Title() string {
	if m.Version == "" {
		return m.Name
	}
	return m.Name + " " + m.Version
}

type cargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version any    `toml:"version"`
	} `toml:"package"`
	Workspace struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// FindCargoToml walks up from startDir to locate Cargo.toml.
func FindCargoToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses the manifest at path.
func Load(path string) (Manifest, error) {
	var cfg cargoManifest
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	m := Manifest{
		Path:    path,
		Name:    strings.TrimSpace(cfg.Package.Name),
		Members: cfg.Workspace.Members,
	}
	// version.workspace = true inherits from the workspace and is a table.
	if v, ok := cfg.Package.Version.(string); ok {
		m.Version = strings.TrimSpace(v)
	}
	if m.Name == "" && meta.IsDefined("workspace") {
		m.Name = filepath.Base(filepath.Dir(path))
	}
	return m, nil
}

// Find locates and parses the manifest governing startDir. ok is false when
// no Cargo.toml exists in startDir or any parent.
func Find(startDir string) (m Manifest, ok bool, err error) {
	path, ok, err := FindCargoToml(startDir)
	if err != nil || !ok {
		return Manifest{}, ok, err
	}
	m, err = Load(path)
	if err != nil {
		return Manifest{}, false, err
	}
	return m, true, nil
}
