// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Ignorer matches paths against the .gitignore files under a root.
type Ignorer struct {
	matcher gitignore.Matcher
}

// LoadIgnore reads every .gitignore below root. A tree without .gitignore
// files yields an Ignorer that matches nothing. It does not require root to
// be a git repository.
func LoadIgnore(root string) (*Ignorer, error) {
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, fmt.Errorf("reading .gitignore: %w", err)
	}
	return &Ignorer{matcher: gitignore.NewMatcher(patterns)}, nil
}

// Ignored reports whether relPath, relative to the root, is ignored.
func (ig *Ignorer) Ignored(relPath string, isDir bool) bool {
	if ig == nil || ig.matcher == nil {
		return false
	}
	rel := filepath.ToSlash(relPath)
	if rel == "." || rel == "" {
		return false
	}
	return ig.matcher.Match(strings.Split(rel, "/"), isDir)
}
