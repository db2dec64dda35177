// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package discover finds the Rust source files under a project root.
package discover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/petar-djukic/memscan/internal/git"
)

// ErrRootUnreadable is returned when the root does not exist, is not a
// directory or cannot be listed.
var ErrRootUnreadable = errors.New("root unreadable")

// ErrNotRepository is returned by ChangedOnly discovery outside a git
// worktree.
var ErrNotRepository = git.ErrNotRepository

// DefaultExcludes are the directory names never descended into: build
// output, tool caches and VCS metadata.
var DefaultExcludes = []string{"target", ".cargo", "node_modules", ".git"}

// DefaultExtensions selects Rust source files.
var DefaultExtensions = []string{".rs"}

// Options tunes discovery. The zero value applies the defaults.
type Options struct {
	Extensions       []string // File suffixes to collect (default .rs)
	ExtraExcludes    []string // Directory names skipped in addition to DefaultExcludes
	RespectGitignore bool     // Honor .gitignore files below the root
	ChangedOnly      bool     // Keep only files changed in the git worktree
}

// Excluded reports whether a directory with the given name is skipped.
// Matching is by exact name, not path.
func (o Options) Excluded(name string) bool {
	for _, ex := range DefaultExcludes {
		if name == ex {
			return true
		}
	}
	for _, ex := range o.ExtraExcludes {
		if name == ex {
			return true
		}
	}
	return false
}

func (o Options) wants(name string) bool {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Discover walks root and returns the absolute paths of matching files in
// traversal order. Subdirectories that cannot be read are skipped
// silently; only an unreadable root is an error.
func Discover(ctx context.Context, root string, opts Options) ([]string, error) {
	var files []string
	absRoot, err := walk(ctx, root, opts, func(path string, isDir bool) {
		if !isDir {
			files = append(files, path)
		}
	})
	if err != nil {
		return nil, err
	}

	if !opts.ChangedOnly {
		return files, nil
	}
	repo, err := git.Open(absRoot)
	if err != nil {
		return nil, err
	}
	changed, err := repo.Changed()
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(changed))
	for _, p := range changed {
		keep[p] = true
	}
	var out []string
	for _, f := range files {
		if keep[f] {
			out = append(out, f)
		}
	}
	return out, nil
}

// Dirs returns the root and every directory below it that discovery would
// descend into. Used to register file watches.
func Dirs(ctx context.Context, root string, opts Options) ([]string, error) {
	var dirs []string
	_, err := walk(ctx, root, opts, func(path string, isDir bool) {
		if isDir {
			dirs = append(dirs, path)
		}
	})
	return dirs, err
}

// walk visits every kept directory and matching file below root and
// returns the absolute root.
func walk(ctx context.Context, root string, opts Options, visit func(path string, isDir bool)) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %v", ErrRootUnreadable, root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRootUnreadable, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrRootUnreadable, absRoot)
	}

	var ignorer *git.Ignorer
	ignoreBase := absRoot
	if opts.RespectGitignore {
		ignorer, ignoreBase = loadIgnore(absRoot)
	}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == absRoot {
				return fmt.Errorf("%w: %v", ErrRootUnreadable, err)
			}
			return nil // skip inaccessible entries
		}
		rel, relErr := filepath.Rel(ignoreBase, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			if path != absRoot && (opts.Excluded(d.Name()) || ignorer.Ignored(rel, true)) {
				return filepath.SkipDir
			}
			visit(path, true)
			return nil
		}
		if !opts.wants(d.Name()) || ignorer.Ignored(rel, false) {
			return nil
		}
		visit(path, false)
		return nil
	})
	if err != nil {
		return "", err
	}
	return absRoot, nil
}

// loadIgnore reads .gitignore patterns from the enclosing repository's
// worktree root when absRoot lies inside one, so parent ignore files apply
// to a scanned subdirectory. Outside a repository it reads from absRoot.
// Returns the directory the patterns are relative to.
func loadIgnore(absRoot string) (*git.Ignorer, string) {
	base := absRoot
	if repo, err := git.Open(absRoot); err == nil {
		if rel, err := filepath.Rel(repo.Root(), absRoot); err == nil && !strings.HasPrefix(rel, "..") {
			base = repo.Root()
		}
	}
	// An unreadable .gitignore is treated like an absent one.
	ig, _ := git.LoadIgnore(base)
	return ig, base
}
