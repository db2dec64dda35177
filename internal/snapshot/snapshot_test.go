// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/petar-djukic/memscan/internal/aggregate"
	"github.com/petar-djukic/memscan/pkg/types"
)

func sampleResult() *types.ScanResult {
	r := aggregate.Aggregate([][]types.Declaration{
		{
			{Name: "count", Kind: types.Binding, TypeLabel: "i32", StackSize: 4, File: "src/main.rs", Line: 2},
			{Name: "name", Kind: types.Binding, TypeLabel: "String", StackSize: 24, HeapSize: 5, File: "src/main.rs", Line: 3},
		},
		{
			{Name: "Point", Kind: types.Struct, TypeLabel: "struct", StackSize: 8, File: "src/model.rs", Line: 1},
		},
	})
	return r
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snaps", "base.msgpack")
	want := sampleResult()

	snap := New(want, Meta{Project: "demo", Root: "/work/demo", Revision: "abc123def456"})
	require.NoError(t, Save(path, snap))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", loaded.Project)
	assert.Equal(t, "/work/demo", loaded.Root)
	assert.Equal(t, "abc123def456", loaded.Revision)
	assert.True(t, snap.Created.Equal(loaded.Created))

	got, err := loaded.Result()
	require.NoError(t, err)
	assert.Equal(t, want.Declarations, got.Declarations)
	assert.Equal(t, want.Groups, got.Groups)
	assert.Equal(t, want.TotalSize, got.TotalSize)
	assert.Equal(t, 2, got.Files)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is renamed into place")
}

func TestLoad_SchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.msgpack")
	snap := New(sampleResult(), Meta{})
	snap.Schema = schemaVersion + 1
	data, err := msgpack.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Load(path)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.msgpack"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.msgpack")
	require.NoError(t, os.WriteFile(garbage, []byte("not msgpack at all"), 0o644))
	_, err = Load(garbage)
	assert.Error(t, err)
}

func TestResult_UnknownKind(t *testing.T) {
	snap := New(sampleResult(), Meta{})
	snap.Declarations[0].Kind = "closure"

	_, err := snap.Result()
	assert.Error(t, err)
}
