// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package memscan estimates the static memory footprint of the
// declarations in a Rust source tree.
//
// A Scanner discovers source files under a root, extracts declarations of
// every kind with lexical patterns, sizes each one heuristically and
// aggregates the results by kind and type label. Nothing is compiled or
// resolved; estimates are approximations.
package memscan

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// Error types for the memscan API.
var (
	ErrInvalidConfig   = errors.New("invalid config")
	ErrScanUnavailable = errors.New("scan unavailable")
	ErrSuperseded      = errors.New("scan superseded by a newer scan")
)

const defaultCacheSize = 1024

// Config configures a Scanner. The zero value is valid.
type Config struct {
	Concurrency      int          // Parallel file scans (default GOMAXPROCS)
	Extensions       []string     // Source file suffixes (default .rs)
	Exclude          []string     // Directory names skipped in addition to the defaults
	RespectGitignore bool         // Honor .gitignore files below the root
	ChangedOnly      bool         // Scan only files changed in the git worktree
	CacheSize        int          // Files kept in the parse cache (default 1024)
	Logger           *slog.Logger // Debug diagnostics (default discards)
}

// Stats reports counters for the most recent scan.
type Stats struct {
	FilesProcessed int // Files read and scanned, including cache hits
	FilesSkipped   int // Files that could not be read
	CacheHits      int // Files served from the parse cache
	ParseCount     int // Files scanned from fresh text
}

// validateConfig rejects values that have no sensible default.
func validateConfig(cfg Config) error {
	if cfg.Concurrency < 0 {
		return fmt.Errorf("Concurrency must not be negative, got %d", cfg.Concurrency)
	}
	if cfg.CacheSize < 0 {
		return fmt.Errorf("CacheSize must not be negative, got %d", cfg.CacheSize)
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	for _, name := range cfg.Exclude {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("exclude %q must be a directory name, not a path", name)
		}
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
}
