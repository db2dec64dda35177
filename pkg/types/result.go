// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "sort"

// GroupKey buckets declarations that share a kind and type label.
type GroupKey struct {
	Kind      DeclKind
	TypeLabel string
}

// GroupSummary holds the count and cumulative size of one group.
type GroupSummary struct {
	Count     int
	TotalSize int
}

// Group pairs a key with its summary, used for ordered presentation.
type Group struct {
	Key GroupKey
	GroupSummary
}

// SkippedFile records a discovered file that could not be read.
type SkippedFile struct {
	File   string
	Reason string
}

// ScanResult is the immutable outcome of one scan pass.
type ScanResult struct {
	Declarations []Declaration
	Groups       map[GroupKey]GroupSummary
	TotalSize    int
	Files        int           // Files read and scanned
	Skipped      []SkippedFile // Unreadable files; never counted in totals
}

// SortedGroups returns the groups ordered by descending total size, then
// kind, then type label.
func (r *ScanResult) SortedGroups() []Group {
	groups := make([]Group, 0, len(r.Groups))
	for k, s := range r.Groups {
		groups = append(groups, Group{Key: k, GroupSummary: s})
	}
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.TotalSize != b.TotalSize {
			return a.TotalSize > b.TotalSize
		}
		if a.Key.Kind != b.Key.Kind {
			return a.Key.Kind < b.Key.Kind
		}
		return a.Key.TypeLabel < b.Key.TypeLabel
	})
	return groups
}

// Filter returns the declarations whose kind is one of kinds. With no kinds
// it returns all declarations.
func (r *ScanResult) Filter(kinds ...DeclKind) []Declaration {
	if len(kinds) == 0 {
		return r.Declarations
	}
	want := make(map[DeclKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []Declaration
	for _, d := range r.Declarations {
		if want[d.Kind] {
			out = append(out, d)
		}
	}
	return out
}

// Largest returns up to n declarations ordered by descending total size.
// Ties keep scan order.
func (r *ScanResult) Largest(n int) []Declaration {
	decls := make([]Declaration, len(r.Declarations))
	copy(decls, r.Declarations)
	sort.SliceStable(decls, func(i, j int) bool {
		return decls[i].Total() > decls[j].Total()
	})
	if n > 0 && n < len(decls) {
		decls = decls[:n]
	}
	return decls
}
