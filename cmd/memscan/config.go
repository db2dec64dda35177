// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/petar-djukic/memscan/internal/git"
	"github.com/petar-djukic/memscan/internal/project"
	"github.com/petar-djukic/memscan/internal/report"
	"github.com/petar-djukic/memscan/pkg/memscan"
	"github.com/petar-djukic/memscan/pkg/types"
)

// newLogger returns a text logger on w, at debug level when verbose and
// warn otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// scannerConfig builds the library config from viper.
func scannerConfig(log *slog.Logger) memscan.Config {
	return memscan.Config{
		Concurrency:      viper.GetInt("concurrency"),
		Extensions:       viper.GetStringSlice("extensions"),
		Exclude:          viper.GetStringSlice("exclude"),
		RespectGitignore: viper.GetBool("gitignore"),
		ChangedOnly:      viper.GetBool("changed"),
		CacheSize:        viper.GetInt("cache-size"),
		Logger:           log,
	}
}

// resolveRoot returns the positional root argument if given, else the
// configured root.
func resolveRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return viper.GetString("root")
}

// renderOptions builds report options from viper and the kind filter.
func renderOptions(title string, kinds []string) (report.Options, error) {
	format, err := report.ParseFormat(viper.GetString("format"))
	if err != nil {
		return report.Options{}, err
	}
	parsed, err := parseKinds(kinds)
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{
		Format:  format,
		Title:   title,
		Top:     viper.GetInt("top"),
		Kinds:   parsed,
		NoColor: viper.GetBool("no-color"),
	}, nil
}

// parseKinds converts kind names, accepting comma-separated lists.
func parseKinds(names []string) ([]types.DeclKind, error) {
	var kinds []types.DeclKind
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			k, err := types.ParseDeclKind(part)
			if err != nil {
				return nil, fmt.Errorf("--kind: %w", err)
			}
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// projectTitle names the crate governing root, or "" when there is no
// readable Cargo.toml.
func projectTitle(root string, log *slog.Logger) string {
	m, ok, err := project.Find(root)
	if err != nil {
		log.Debug("reading Cargo.toml", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return m.Title()
}

// revision returns the abbreviated HEAD of the repository containing
// root, or "" outside a repository.
func revision(root string) string {
	repo, err := git.Open(root)
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	if dirty, err := repo.IsDirty(); err == nil && dirty {
		return head + "+dirty"
	}
	return head
}
