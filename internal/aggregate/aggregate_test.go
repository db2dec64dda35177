// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/memscan/pkg/types"
)

func decl(name string, kind types.DeclKind, label string, stack, heap int) types.Declaration {
	return types.Declaration{Name: name, Kind: kind, TypeLabel: label, StackSize: stack, HeapSize: heap, File: "a.rs", Line: 1}
}

func sampleBatches() [][]types.Declaration {
	return [][]types.Declaration{
		{
			decl("a", types.Binding, "i32", 4, 0),
			decl("s", types.Binding, "String", 24, 5),
		},
		{},
		{
			decl("b", types.Binding, "i32", 4, 0),
			decl("P", types.Struct, "struct", 8, 0),
			decl("t", types.Binding, "String", 24, 64),
		},
	}
}

func TestAggregate_Groups(t *testing.T) {
	r := Aggregate(sampleBatches())

	require.Len(t, r.Declarations, 5)
	assert.Equal(t, "a", r.Declarations[0].Name)
	assert.Equal(t, "t", r.Declarations[4].Name)
	assert.Equal(t, 3, r.Files)

	assert.Equal(t, types.GroupSummary{Count: 2, TotalSize: 8}, r.Groups[types.GroupKey{Kind: types.Binding, TypeLabel: "i32"}])
	assert.Equal(t, types.GroupSummary{Count: 2, TotalSize: 117}, r.Groups[types.GroupKey{Kind: types.Binding, TypeLabel: "String"}])
	assert.Equal(t, types.GroupSummary{Count: 1, TotalSize: 8}, r.Groups[types.GroupKey{Kind: types.Struct, TypeLabel: "struct"}])
	assert.Len(t, r.Groups, 3)
	assert.Equal(t, 133, r.TotalSize)
}

func TestAggregate_GroupTotalsMatchDeclarations(t *testing.T) {
	r := Aggregate(sampleBatches())

	sums := map[types.GroupKey]int{}
	total := 0
	for _, d := range r.Declarations {
		sums[d.Key()] += d.Total()
		total += d.Total()
	}
	for k, g := range r.Groups {
		assert.Equal(t, sums[k], g.TotalSize, "group %v", k)
		assert.GreaterOrEqual(t, g.Count, 1)
	}
	assert.Equal(t, total, r.TotalSize)
}

func TestAggregate_OrderIndependentGroups(t *testing.T) {
	batches := sampleBatches()
	reversed := make([][]types.Declaration, len(batches))
	for i, b := range batches {
		reversed[len(batches)-1-i] = b
	}

	forward := Aggregate(batches)
	backward := Aggregate(reversed)

	assert.Equal(t, forward.Groups, backward.Groups)
	assert.Equal(t, forward.TotalSize, backward.TotalSize)
	assert.Equal(t, forward.SortedGroups(), backward.SortedGroups())
}

func TestAggregate_Empty(t *testing.T) {
	r := Aggregate(nil)
	assert.Empty(t, r.Declarations)
	assert.NotNil(t, r.Declarations)
	assert.Empty(t, r.Groups)
	assert.Zero(t, r.TotalSize)
	assert.Zero(t, r.Files)
}

func TestBuilder_Incremental(t *testing.T) {
	b := NewBuilder()
	for _, batch := range sampleBatches() {
		b.Add(batch)
	}
	assert.Equal(t, Aggregate(sampleBatches()), b.Result())
}
