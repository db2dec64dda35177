// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/memscan/internal/aggregate"
	"github.com/petar-djukic/memscan/pkg/types"
)

func TestDiff(t *testing.T) {
	before := sampleResult()
	after := aggregate.Aggregate([][]types.Declaration{
		{
			{Name: "count", Kind: types.Binding, TypeLabel: "i32", StackSize: 4, File: "src/main.rs", Line: 2},
			{Name: "total", Kind: types.Binding, TypeLabel: "i32", StackSize: 4, File: "src/main.rs", Line: 4},
			{Name: "buf", Kind: types.Binding, TypeLabel: "Vec<u8>", StackSize: 24, HeapSize: 4096, File: "src/main.rs", Line: 5},
		},
		{
			{Name: "Point", Kind: types.Struct, TypeLabel: "struct", StackSize: 8, File: "src/model.rs", Line: 1},
		},
	})

	d := Diff(before, after)
	require.True(t, d.Changed())
	assert.Equal(t, 41, d.TotalBefore)
	assert.Equal(t, 4136, d.TotalAfter)

	require.Len(t, d.Groups, 3)
	assert.Equal(t, types.GroupKey{Kind: types.Binding, TypeLabel: "Vec<u8>"}, d.Groups[0].Key)
	assert.Equal(t, 4120, d.Groups[0].SizeDelta())
	assert.Equal(t, 0, d.Groups[0].OldCount)

	assert.Equal(t, types.GroupKey{Kind: types.Binding, TypeLabel: "String"}, d.Groups[1].Key)
	assert.Equal(t, -29, d.Groups[1].SizeDelta())
	assert.Equal(t, 0, d.Groups[1].NewCount)

	assert.Equal(t, types.GroupKey{Kind: types.Binding, TypeLabel: "i32"}, d.Groups[2].Key)
	assert.Equal(t, 1, d.Groups[2].OldCount)
	assert.Equal(t, 2, d.Groups[2].NewCount)

	assert.Contains(t, d.Text, "-binding String count=1 size=29\n")
	assert.Contains(t, d.Text, "+binding Vec<u8> count=1 size=4120\n")
	assert.Contains(t, d.Text, "-binding i32 count=1 size=4\n")
	assert.Contains(t, d.Text, "+binding i32 count=2 size=8\n")
	assert.NotContains(t, d.Text, "struct struct")
}

func TestDiff_Identical(t *testing.T) {
	d := Diff(sampleResult(), sampleResult())
	assert.False(t, d.Changed())
	assert.Empty(t, d.Groups)
	assert.Empty(t, d.Text)
}

func TestDiff_Empty(t *testing.T) {
	empty := aggregate.Aggregate(nil)
	d := Diff(empty, sampleResult())
	assert.Len(t, d.Groups, 3)
	assert.Equal(t, 0, d.TotalBefore)
	assert.Contains(t, d.Text, "+struct struct count=1 size=8\n")
}
