// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package estimate converts a type label, and optionally the initializer
// text seen next to it, into a stack/heap byte estimate.
//
// The estimate is a lexical heuristic: it never resolves user types and
// never fails. Anything it does not recognize is sized as an 8-byte value.
package estimate

import (
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/petar-djukic/memscan/pkg/types"
)

const (
	defaultStringHeap = 64 // String with no recognizable initializer
	defaultVecFactor  = 16 // Vec<T> defaults to 16 elements
	mapEntrySize      = 64 // Per-entry cost of maps and sets
	nestedElemSize    = 24 // String or Vec stored as an element
	defaultElemSize   = 8

	// MaxEstimate bounds any single literal-derived size so that sums of
	// estimates cannot overflow.
	MaxEstimate = 1 << 40
)

// Estimate returns the stack/heap estimate for a type label. init is the
// initializer expression text, or "" when none was observed.
func Estimate(label, init string) types.TypeEstimate {
	t := parseType(label)
	r := lookup(t)

	est := types.TypeEstimate{Stack: r.stack, Heap: r.heap}
	switch {
	case r.class == classArray:
		est = arrayEstimate(t)
	case r.class.growable():
		est.Heap = heapEstimate(r.class, t, strings.TrimSpace(init))
	}
	return clamp(est)
}

// StackOf returns only the stack portion of the estimate for label.
func StackOf(label string) int {
	return Estimate(label, "").Stack
}

// arrayEstimate sizes [T; N] as N stack bytes. A length that is not a
// non-negative integer literal falls back to the default estimate.
func arrayEstimate(t typeText) types.TypeEstimate {
	m := arrayPattern.FindStringSubmatch(t.raw)
	if m == nil {
		return fallback()
	}
	n, ok := parseCount(m[2])
	if !ok {
		return fallback()
	}
	return types.TypeEstimate{Stack: n}
}

// ElementSize returns the per-element size used for a vector element type:
// the primitive width, 24 for nested strings and vectors, 8 otherwise.
func ElementSize(elem string) int {
	t := parseType(elem)
	switch r := lookup(t); r.class {
	case classWide, classWord, classHalf, classChar, classShort, classByte:
		return r.stack
	case classString, classVec:
		return nestedElemSize
	default:
		return defaultElemSize
	}
}

func fallback() types.TypeEstimate {
	r := rules[len(rules)-1]
	return types.TypeEstimate{Stack: r.stack, Heap: r.heap}
}

func clamp(e types.TypeEstimate) types.TypeEstimate {
	if e.Stack < 0 {
		e.Stack = 0
	}
	if e.Heap < 0 {
		e.Heap = 0
	}
	return e
}

// parseCount parses a non-negative integer literal, accepting digit
// separators and an integer type suffix (1_024, 16usize).
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "_", "")
	for _, suffix := range []string{"usize", "u64", "u32", "u16", "u8", "isize", "i64", "i32"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	if s == "" {
		return 0, false
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	n, err := safecast.Conv[int](u)
	if err != nil || n > MaxEstimate {
		return MaxEstimate, true
	}
	return n, true
}

// mulSat multiplies two non-negative ints, saturating at MaxEstimate.
func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > MaxEstimate/b {
		return MaxEstimate
	}
	return a * b
}
