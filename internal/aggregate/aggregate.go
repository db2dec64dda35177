// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package aggregate merges per-file declaration batches into a ScanResult.
package aggregate

import "github.com/petar-djukic/memscan/pkg/types"

// Builder accumulates declaration batches. The zero value is not usable;
// call NewBuilder.
type Builder struct {
	decls  []types.Declaration
	groups map[types.GroupKey]types.GroupSummary
	total  int
	files  int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{groups: make(map[types.GroupKey]types.GroupSummary)}
}

// Add appends one file's declarations. Group sums are commutative, so the
// order of Add calls only affects the order of Declarations.
func (b *Builder) Add(batch []types.Declaration) {
	b.files++
	for _, d := range batch {
		b.decls = append(b.decls, d)
		k := d.Key()
		g := b.groups[k]
		g.Count++
		g.TotalSize += d.Total()
		b.groups[k] = g
		b.total += d.Total()
	}
}

// Result returns the accumulated ScanResult. The builder must not be used
// afterwards.
func (b *Builder) Result() *types.ScanResult {
	decls := b.decls
	if decls == nil {
		decls = []types.Declaration{}
	}
	return &types.ScanResult{
		Declarations: decls,
		Groups:       b.groups,
		TotalSize:    b.total,
		Files:        b.files,
	}
}

// Aggregate merges batches in order into a single result.
func Aggregate(batches [][]types.Declaration) *types.ScanResult {
	b := NewBuilder()
	for _, batch := range batches {
		b.Add(batch)
	}
	return b.Result()
}
