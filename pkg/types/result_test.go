// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclKind_RoundTrip(t *testing.T) {
	kinds := AllKinds()
	require.Len(t, kinds, 13)
	for _, k := range kinds {
		got, err := ParseDeclKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "extern_block", ExternBlock.String())
	assert.Equal(t, "unknown", DeclKind(99).String())

	_, err := ParseDeclKind("class")
	assert.Error(t, err)
}

func TestDeclKind_IsAggregate(t *testing.T) {
	assert.True(t, Struct.IsAggregate())
	assert.True(t, Enum.IsAggregate())
	assert.True(t, Union.IsAggregate())
	assert.False(t, Binding.IsAggregate())
	assert.False(t, Impl.IsAggregate())
}

func sampleResult() *ScanResult {
	decls := []Declaration{
		{Name: "a", Kind: Binding, TypeLabel: "u8", StackSize: 1},
		{Name: "b", Kind: Binding, TypeLabel: "String", StackSize: 24, HeapSize: 64},
		{Name: "P", Kind: Struct, TypeLabel: "struct", StackSize: 8},
		{Name: "c", Kind: Binding, TypeLabel: "u64", StackSize: 8},
	}
	return &ScanResult{
		Declarations: decls,
		Groups: map[GroupKey]GroupSummary{
			{Kind: Binding, TypeLabel: "u8"}:     {Count: 1, TotalSize: 1},
			{Kind: Binding, TypeLabel: "String"}: {Count: 1, TotalSize: 88},
			{Kind: Struct, TypeLabel: "struct"}:  {Count: 1, TotalSize: 8},
			{Kind: Binding, TypeLabel: "u64"}:    {Count: 1, TotalSize: 8},
		},
		TotalSize: 105,
	}
}

func TestScanResult_SortedGroups(t *testing.T) {
	groups := sampleResult().SortedGroups()
	require.Len(t, groups, 4)
	assert.Equal(t, "String", groups[0].Key.TypeLabel)
	assert.Equal(t, GroupKey{Kind: Binding, TypeLabel: "u64"}, groups[1].Key, "ties order by kind first")
	assert.Equal(t, GroupKey{Kind: Struct, TypeLabel: "struct"}, groups[2].Key)
	assert.Equal(t, "u8", groups[3].Key.TypeLabel)
}

func TestScanResult_Filter(t *testing.T) {
	r := sampleResult()
	assert.Len(t, r.Filter(), 4)
	structs := r.Filter(Struct)
	require.Len(t, structs, 1)
	assert.Equal(t, "P", structs[0].Name)
	assert.Empty(t, r.Filter(Trait))
}

func TestScanResult_Largest(t *testing.T) {
	r := sampleResult()

	top := r.Largest(2)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Name)
	assert.Equal(t, "P", top[1].Name, "ties keep scan order")

	assert.Len(t, r.Largest(0), 4)
	assert.Equal(t, "a", r.Declarations[0].Name, "the result is not reordered")
}

func TestDeclaration_Total(t *testing.T) {
	d := Declaration{StackSize: 24, HeapSize: 100}
	assert.Equal(t, 124, d.Total())
	assert.Equal(t, GroupKey{Kind: Binding}, Declaration{}.Key())
	assert.Equal(t, 3, TypeEstimate{Stack: 1, Heap: 2}.Total())
}
