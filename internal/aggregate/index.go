// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package aggregate

import (
	"sort"

	"github.com/petar-djukic/memscan/pkg/types"
)

// FileTotal is the footprint of the declarations in one file.
type FileTotal struct {
	File      string
	Count     int
	TotalSize int
}

// Index provides lookups over the declarations of a result by name, file
// and kind. Lookups return declarations in scan order.
type Index struct {
	decls  []types.Declaration
	byName map[string][]int
	byFile map[string][]int
	byKind map[types.DeclKind][]int
}

// NewIndex indexes the declarations of r.
func NewIndex(r *types.ScanResult) *Index {
	idx := &Index{
		decls:  r.Declarations,
		byName: make(map[string][]int),
		byFile: make(map[string][]int),
		byKind: make(map[types.DeclKind][]int),
	}
	for i, d := range r.Declarations {
		idx.byName[d.Name] = append(idx.byName[d.Name], i)
		idx.byFile[d.File] = append(idx.byFile[d.File], i)
		idx.byKind[d.Kind] = append(idx.byKind[d.Kind], i)
	}
	return idx
}

// ByName returns all declarations with the given name.
func (idx *Index) ByName(name string) []types.Declaration {
	return idx.lookup(idx.byName[name])
}

// ByFile returns all declarations in the given root-relative file.
func (idx *Index) ByFile(file string) []types.Declaration {
	return idx.lookup(idx.byFile[file])
}

// ByKind returns all declarations of the given kind.
func (idx *Index) ByKind(kind types.DeclKind) []types.Declaration {
	return idx.lookup(idx.byKind[kind])
}

// Len returns the number of indexed declarations.
func (idx *Index) Len() int {
	return len(idx.decls)
}

// Files returns per-file totals ordered by descending size, then path.
func (idx *Index) Files() []FileTotal {
	files := make([]FileTotal, 0, len(idx.byFile))
	for file, indices := range idx.byFile {
		ft := FileTotal{File: file, Count: len(indices)}
		for _, i := range indices {
			ft.TotalSize += idx.decls[i].Total()
		}
		files = append(files, ft)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].TotalSize != files[j].TotalSize {
			return files[i].TotalSize > files[j].TotalSize
		}
		return files[i].File < files[j].File
	})
	return files
}

func (idx *Index) lookup(indices []int) []types.Declaration {
	if len(indices) == 0 {
		return nil
	}
	result := make([]types.Declaration, len(indices))
	for i, j := range indices {
		result[i] = idx.decls[j]
	}
	return result
}
