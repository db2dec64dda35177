// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package snapshot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/petar-djukic/memscan/pkg/types"
)

// GroupDelta compares one (kind, label) group across two results. A group
// absent on one side has zero count and size there.
type GroupDelta struct {
	Key      types.GroupKey
	OldCount int
	NewCount int
	OldSize  int
	NewSize  int
}

// SizeDelta returns NewSize - OldSize.
func (d GroupDelta) SizeDelta() int {
	return d.NewSize - d.OldSize
}

// Delta is the difference between two scan results.
type Delta struct {
	Groups      []GroupDelta // Changed groups, largest absolute size change first
	TotalBefore int
	TotalAfter  int
	Text        string // Line diff of the group summaries, "" when identical
}

// Diff compares two results group by group.
func Diff(before, after *types.ScanResult) *Delta {
	keys := make(map[types.GroupKey]bool)
	for k := range before.Groups {
		keys[k] = true
	}
	for k := range after.Groups {
		keys[k] = true
	}

	d := &Delta{TotalBefore: before.TotalSize, TotalAfter: after.TotalSize}
	for k := range keys {
		o, n := before.Groups[k], after.Groups[k]
		if o == n {
			continue
		}
		d.Groups = append(d.Groups, GroupDelta{
			Key:      k,
			OldCount: o.Count,
			NewCount: n.Count,
			OldSize:  o.TotalSize,
			NewSize:  n.TotalSize,
		})
	}
	sort.Slice(d.Groups, func(i, j int) bool {
		a, b := d.Groups[i], d.Groups[j]
		if da, db := abs(a.SizeDelta()), abs(b.SizeDelta()); da != db {
			return da > db
		}
		if a.Key.Kind != b.Key.Kind {
			return a.Key.Kind < b.Key.Kind
		}
		return a.Key.TypeLabel < b.Key.TypeLabel
	})

	d.Text = lineDiff(summaryText(before), summaryText(after))
	return d
}

// Changed reports whether any group differs.
func (d *Delta) Changed() bool {
	return len(d.Groups) > 0
}

// summaryText renders one line per group in a stable order so that line
// diffs align groups by key.
func summaryText(r *types.ScanResult) string {
	groups := r.SortedGroups()
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Key, groups[j].Key
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.TypeLabel < b.TypeLabel
	})
	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&b, "%s %s count=%d size=%d\n", g.Key.Kind, g.Key.TypeLabel, g.Count, g.TotalSize)
	}
	return b.String()
}

// lineDiff returns a unified-style line diff of a and b: removed lines
// prefixed with "-", added with "+", unchanged lines omitted.
func lineDiff(a, b string) string {
	if a == b {
		return ""
	}
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out strings.Builder
	for _, diff := range diffs {
		var prefix string
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	return out.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
