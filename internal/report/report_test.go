// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/memscan/internal/aggregate"
	"github.com/petar-djukic/memscan/internal/snapshot"
	"github.com/petar-djukic/memscan/pkg/types"
)

func sampleResult() *types.ScanResult {
	r := aggregate.Aggregate([][]types.Declaration{
		{
			{Name: "count", Kind: types.Binding, TypeLabel: "i32", StackSize: 4, File: "src/main.rs", Line: 2},
			{Name: "buf", Kind: types.Binding, TypeLabel: "Vec<u8>", StackSize: 24, HeapSize: 4096, File: "src/main.rs", Line: 3},
		},
		{
			{Name: "P", Kind: types.Struct, TypeLabel: "struct", StackSize: 8, File: "src/model.rs", Line: 1},
		},
	})
	return r
}

func render(t *testing.T, r *types.ScanResult, opts Options) []string {
	t.Helper()
	opts.NoColor = true
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, opts))
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestRender_Table(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		check func(t *testing.T, lines []string)
	}{
		{
			name: "largest first with aligned columns",
			opts: Options{Format: FormatTable},
			check: func(t *testing.T, lines []string) {
				require.Len(t, lines, 6)
				assert.True(t, strings.HasPrefix(lines[0], "KIND     NAME   TYPE     STACK"))
				assert.Equal(t, "binding  buf    Vec<u8>   24 B  4.0 KiB  4.0 KiB  src/main.rs:3", lines[1])
				assert.Contains(t, lines[2], "src/model.rs:1")
				assert.Contains(t, lines[3], "src/main.rs:2")
				assert.Empty(t, lines[4])
				assert.Equal(t, "3 of 3 declarations in 2 files, estimated total 4.0 KiB", lines[5])
			},
		},
		{
			name: "top limits rows",
			opts: Options{Top: 1},
			check: func(t *testing.T, lines []string) {
				require.Len(t, lines, 4)
				assert.Contains(t, lines[1], "buf")
				assert.True(t, strings.HasPrefix(lines[3], "1 of 3 declarations"))
			},
		},
		{
			name: "kind filter",
			opts: Options{Kinds: []types.DeclKind{types.Struct}},
			check: func(t *testing.T, lines []string) {
				require.Len(t, lines, 4)
				assert.True(t, strings.HasPrefix(lines[1], "struct"))
			},
		},
		{
			name: "title",
			opts: Options{Title: "demo 0.1.0"},
			check: func(t *testing.T, lines []string) {
				assert.Equal(t, "demo 0.1.0", lines[0])
				assert.Empty(t, lines[1])
				assert.True(t, strings.HasPrefix(lines[2], "KIND"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, render(t, sampleResult(), tt.opts))
		})
	}
}

func TestRender_Groups(t *testing.T) {
	lines := render(t, sampleResult(), Options{Format: FormatGroups})
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "KIND"))
	assert.True(t, strings.HasPrefix(lines[1], "binding  Vec<u8>"))
	assert.True(t, strings.HasSuffix(lines[1], "99.7%"))
	assert.True(t, strings.HasPrefix(lines[2], "struct   struct"))
	assert.True(t, strings.HasSuffix(lines[2], "0.2%"))
	assert.True(t, strings.HasPrefix(lines[3], "binding  i32"))
	assert.True(t, strings.HasSuffix(lines[3], "0.1%"))
}

func TestRender_Files(t *testing.T) {
	lines := render(t, sampleResult(), Options{Format: FormatFiles})
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "FILE"))
	assert.True(t, strings.HasPrefix(lines[1], "src/main.rs"))
	assert.True(t, strings.HasSuffix(lines[1], "99.8%"))
	assert.True(t, strings.HasPrefix(lines[2], "src/model.rs"))
}

func TestRender_FileFilter(t *testing.T) {
	lines := render(t, sampleResult(), Options{File: "src/model.rs"})
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "src/model.rs:1")
	assert.True(t, strings.HasPrefix(lines[3], "1 of 3 declarations"))
}

func TestRender_SkippedFooter(t *testing.T) {
	r := sampleResult()
	r.Skipped = []types.SkippedFile{{File: "bad.rs", Reason: "permission denied"}}
	lines := render(t, r, Options{})
	assert.Contains(t, lines[len(lines)-1], "(1 unreadable files skipped)")
}

func TestRender_Empty(t *testing.T) {
	lines := render(t, aggregate.Aggregate(nil), Options{})
	require.Len(t, lines, 3)
	assert.Equal(t, "0 of 0 declarations in 0 files, estimated total 0 B", lines[2])
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), Options{Format: FormatJSON, Title: "demo"}))

	var doc struct {
		Title        string `json:"title"`
		TotalSize    int    `json:"total_size"`
		Files        int    `json:"files"`
		Declarations []struct {
			Name  string `json:"name"`
			Kind  string `json:"kind"`
			Type  string `json:"type"`
			Total int    `json:"total"`
			Line  int    `json:"line"`
		} `json:"declarations"`
		Groups []struct {
			Kind      string `json:"kind"`
			Type      string `json:"type"`
			Count     int    `json:"count"`
			TotalSize int    `json:"total_size"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "demo", doc.Title)
	assert.Equal(t, 4132, doc.TotalSize)
	assert.Equal(t, 2, doc.Files)
	require.Len(t, doc.Declarations, 3)
	assert.Equal(t, "count", doc.Declarations[0].Name, "declarations keep scan order")
	assert.Equal(t, "Vec<u8>", doc.Declarations[1].Type)
	assert.Equal(t, 4120, doc.Declarations[1].Total)
	require.Len(t, doc.Groups, 3)
	assert.Equal(t, "binding", doc.Groups[0].Kind)
	assert.Equal(t, 4120, doc.Groups[0].TotalSize)
	assert.Contains(t, buf.String(), `"Vec<u8>"`, "angle brackets are not escaped")
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, sampleResult(), Options{Format: "xml"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderDelta(t *testing.T) {
	before := sampleResult()
	after := aggregate.Aggregate([][]types.Declaration{
		{
			{Name: "count", Kind: types.Binding, TypeLabel: "i32", StackSize: 4, File: "src/main.rs", Line: 2},
		},
		{
			{Name: "P", Kind: types.Struct, TypeLabel: "struct", StackSize: 8, File: "src/model.rs", Line: 1},
		},
	})
	d := snapshot.Diff(before, after)

	var buf bytes.Buffer
	require.NoError(t, RenderDelta(&buf, d, Options{NoColor: true}))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "binding  Vec<u8>  1 -> 0"))
	assert.True(t, strings.HasSuffix(lines[1], "-4.0 KiB"))
	assert.Equal(t, "1 groups changed, estimated total 4.0 KiB -> 12 B (-4.0 KiB)", lines[3])

	buf.Reset()
	require.NoError(t, RenderDelta(&buf, d, Options{Format: FormatGroups, NoColor: true}))
	assert.Equal(t, "-binding Vec<u8> count=1 size=4120\n1 groups changed, estimated total 4.0 KiB -> 12 B (-4.0 KiB)\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderDelta(&buf, d, Options{Format: FormatJSON}))
	assert.Contains(t, buf.String(), `"old_size": 4120`)
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "groups", "files", "json", " JSON "} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("yaml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{3 << 30, "3.0 GiB"},
		{1 << 40, "1.0 TiB"},
		{1 << 50, "1024.0 TiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanSize(tt.n))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "i32", truncate("i32", 10))
	assert.Equal(t, "HashMap...", truncate("HashMap<String, Vec<u8>>", 10))
	assert.Equal(t, "Has", truncate("HashMap<String, Vec<u8>>", 3))
	assert.Equal(t, "HashMap<String, Vec<u8>>", truncate("HashMap<String, Vec<u8>>", 0))
}
