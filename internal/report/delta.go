// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/petar-djukic/memscan/internal/snapshot"
)

// RenderDelta writes a comparison of two results. The groups format prints
// the line diff of the group summaries; table prints one row per changed
// group.
func RenderDelta(w io.Writer, d *snapshot.Delta, opts Options) error {
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = defaultLabelWidth
	}
	st := newStyles(opts.NoColor)
	switch opts.Format {
	case FormatTable, "":
	case FormatGroups:
		var b strings.Builder
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				b.WriteString(st.gain(strings.TrimSuffix(line, "\n")) + "\n")
			case strings.HasPrefix(line, "-"):
				b.WriteString(st.loss(strings.TrimSuffix(line, "\n")) + "\n")
			}
		}
		b.WriteString(st.dim(deltaFooter(d)) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	case FormatJSON:
		return renderDeltaJSON(w, d)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	t := newTable(st, "KIND", "TYPE", "COUNT", "BEFORE", "AFTER", "CHANGE")
	t.alignRight(2, 3, 4, 5)
	for i, g := range d.Groups {
		if opts.Top > 0 && i == opts.Top {
			break
		}
		t.addRow(sizeClass(abs(g.SizeDelta())),
			g.Key.Kind.String(),
			truncate(g.Key.TypeLabel, opts.LabelWidth),
			fmt.Sprintf("%d -> %d", g.OldCount, g.NewCount),
			HumanSize(g.OldSize),
			HumanSize(g.NewSize),
			signedSize(g.SizeDelta()))
	}
	return writeReport(w, st, opts.Title, t, deltaFooter(d))
}

func deltaFooter(d *snapshot.Delta) string {
	return fmt.Sprintf("%d groups changed, estimated total %s -> %s (%s)",
		len(d.Groups), HumanSize(d.TotalBefore), HumanSize(d.TotalAfter), signedSize(d.TotalAfter-d.TotalBefore))
}

// signedSize formats a size change with an explicit sign.
func signedSize(n int) string {
	switch {
	case n > 0:
		return "+" + HumanSize(n)
	case n < 0:
		return "-" + HumanSize(-n)
	default:
		return "0 B"
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type jsonDelta struct {
	TotalBefore int             `json:"total_before"`
	TotalAfter  int             `json:"total_after"`
	Groups      []jsonGroupDiff `json:"groups"`
}

type jsonGroupDiff struct {
	Kind     string `json:"kind"`
	Type     string `json:"type"`
	OldCount int    `json:"old_count"`
	NewCount int    `json:"new_count"`
	OldSize  int    `json:"old_size"`
	NewSize  int    `json:"new_size"`
}

func renderDeltaJSON(w io.Writer, d *snapshot.Delta) error {
	out := jsonDelta{TotalBefore: d.TotalBefore, TotalAfter: d.TotalAfter, Groups: []jsonGroupDiff{}}
	for _, g := range d.Groups {
		out.Groups = append(out.Groups, jsonGroupDiff{
			Kind:     g.Key.Kind.String(),
			Type:     g.Key.TypeLabel,
			OldCount: g.OldCount,
			NewCount: g.NewCount,
			OldSize:  g.OldSize,
			NewSize:  g.NewSize,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
