// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_ValidRepo(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, repo.Root())
}

func TestOpen_Subdirectory(t *testing.T) {
	dir := initTestRepo(t)
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, err := Open(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, repo.Root())
}

func TestOpen_NotARepo(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestIsDirty(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.rs"), []byte("fn main() { let x = 1; }\n"), 0o644))

	dirty, err = repo.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestChanged(t *testing.T) {
	dir := initTestRepo(t)
	addFileAndCommit(t, dir, "lib.rs", "pub mod a;\n", "add lib")

	repo, err := Open(dir)
	require.NoError(t, err)

	changed, err := repo.Changed()
	require.NoError(t, err)
	assert.Empty(t, changed, "clean worktree")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.rs"), []byte("fn main() { let x = 1; }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.rs"), []byte("struct N;\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "lib.rs")))

	changed, err = repo.Changed()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "main.rs"),
		filepath.Join(dir, "new.rs"),
	}, changed)
}

func TestHead(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	repo, err := Open(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Empty(t, head, "no commits yet")

	addFileAndCommit(t, dir, "main.rs", "fn main() {}\n", "initial commit")
	head, err = repo.Head()
	require.NoError(t, err)
	assert.Len(t, head, shortHashLen)
}

func TestIgnorer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("generated/\n*.bak.rs\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", ".gitignore"), []byte("local.rs\n"), 0o644))

	ig, err := LoadIgnore(dir)
	require.NoError(t, err)

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"generated", true, true},
		{"src/generated", true, true},
		{"src/lib.rs", false, false},
		{"src/old.bak.rs", false, true},
		{"nested/local.rs", false, true},
		{"local.rs", false, false},
		{".", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ig.Ignored(filepath.FromSlash(tt.path), tt.isDir))
		})
	}
}

func TestIgnorer_NoFiles(t *testing.T) {
	ig, err := LoadIgnore(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ig.Ignored("src/lib.rs", false))

	var nilIgnorer *Ignorer
	assert.False(t, nilIgnorer.Ignored("src/lib.rs", false))
}

// initTestRepo creates a temporary git repository with one committed file.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	addFileAndCommit(t, dir, "main.rs", "fn main() {}\n", "initial commit")
	return dir
}

// addFileAndCommit adds a file and creates a commit with the given message.
func addFileAndCommit(t *testing.T, dir, name, content, msg string) {
	t.Helper()

	r, err := gogit.PlainOpen(dir)
	require.NoError(t, err)

	wt, err := r.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	_, err = wt.Add(name)
	require.NoError(t, err)

	_, err = wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
}
