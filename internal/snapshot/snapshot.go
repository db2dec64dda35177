// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package snapshot persists scan results and compares them.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/petar-djukic/memscan/internal/aggregate"
	"github.com/petar-djukic/memscan/pkg/types"
)

// schemaVersion is bumped whenever the Snapshot layout changes.
const schemaVersion uint16 = 1

// ErrSchemaMismatch is returned when loading a snapshot written with a
// different schema version.
var ErrSchemaMismatch = errors.New("snapshot schema mismatch")

// Snapshot is the on-disk form of a scan result.
type Snapshot struct {
	Schema   uint16
	Project  string    // Crate name, "" when unknown
	Root     string    // Scanned root as given
	Revision string    // Abbreviated git HEAD, "" outside a repository
	Created  time.Time // UTC

	Files        int
	TotalSize    int
	Declarations []Entry
}

// Entry is one persisted declaration. Kinds are stored by name so that
// reordering DeclKind does not corrupt old snapshots.
type Entry struct {
	Name      string
	Kind      string
	TypeLabel string
	Stack     int
	Heap      int
	File      string
	Line      int
}

// Meta describes where a result came from.
type Meta struct {
	Project  string
	Root     string
	Revision string
}

// New captures result together with meta.
func New(result *types.ScanResult, meta Meta) *Snapshot {
	s := &Snapshot{
		Schema:       schemaVersion,
		Project:      meta.Project,
		Root:         meta.Root,
		Revision:     meta.Revision,
		Created:      time.Now().UTC(),
		Files:        result.Files,
		TotalSize:    result.TotalSize,
		Declarations: make([]Entry, 0, len(result.Declarations)),
	}
	for _, d := range result.Declarations {
		s.Declarations = append(s.Declarations, Entry{
			Name:      d.Name,
			Kind:      d.Kind.String(),
			TypeLabel: d.TypeLabel,
			Stack:     d.StackSize,
			Heap:      d.HeapSize,
			File:      d.File,
			Line:      d.Line,
		})
	}
	return s
}

// Result rebuilds the scan result, recomputing groups and totals from the
// stored declarations.
func (s *Snapshot) Result() (*types.ScanResult, error) {
	decls := make([]types.Declaration, 0, len(s.Declarations))
	for _, e := range s.Declarations {
		kind, err := types.ParseDeclKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("decoding %s:%d: %w", e.File, e.Line, err)
		}
		decls = append(decls, types.Declaration{
			Name:      e.Name,
			Kind:      kind,
			TypeLabel: e.TypeLabel,
			StackSize: e.Stack,
			HeapSize:  e.Heap,
			File:      e.File,
			Line:      e.Line,
		})
	}
	result := aggregate.Aggregate([][]types.Declaration{decls})
	result.Files = s.Files
	return result, nil
}

// Save writes the snapshot to path atomically.
func Save(path string, s *Snapshot) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	f, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot from path.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	var s Snapshot
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if s.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: %s has version %d, want %d", ErrSchemaMismatch, path, s.Schema, schemaVersion)
	}
	return &s, nil
}
