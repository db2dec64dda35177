// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report renders scan results for terminals and machines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/petar-djukic/memscan/internal/aggregate"
	"github.com/petar-djukic/memscan/pkg/types"
)

// Format selects the rendering.
type Format string

// Supported formats.
const (
	FormatTable  Format = "table"  // Largest declarations, one per row
	FormatGroups Format = "groups" // Per (kind, type) group summary
	FormatFiles  Format = "files"  // Per file totals
	FormatJSON   Format = "json"   // Full result as JSON
)

// ErrUnknownFormat is returned for a format name not listed above.
var ErrUnknownFormat = errors.New("unknown format")

const defaultLabelWidth = 40

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatGroups, FormatFiles, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want table, groups, files or json)", ErrUnknownFormat, s)
	}
}

// Options controls rendering.
type Options struct {
	Format     Format
	Title      string           // Heading, usually the crate name
	Top        int              // Maximum rows, 0 for all
	Kinds      []types.DeclKind // Restrict rows to these kinds, none for all
	File       string           // Restrict declaration rows to one root-relative file
	LabelWidth int              // Type label column width (default 40)
	NoColor    bool
}

// Render writes r to w in the requested format.
func Render(w io.Writer, r *types.ScanResult, opts Options) error {
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = defaultLabelWidth
	}
	switch opts.Format {
	case FormatTable, "":
		return renderDeclarations(w, r, opts)
	case FormatGroups:
		return renderGroups(w, r, opts)
	case FormatFiles:
		return renderFiles(w, r, opts)
	case FormatJSON:
		return renderJSON(w, r, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

func renderDeclarations(w io.Writer, r *types.ScanResult, opts Options) error {
	st := newStyles(opts.NoColor)
	decls := r.Declarations
	if opts.File != "" {
		decls = aggregate.NewIndex(r).ByFile(opts.File)
	}
	shown := (&types.ScanResult{Declarations: decls}).Filter(opts.Kinds...)
	shown = (&types.ScanResult{Declarations: shown}).Largest(opts.Top)

	t := newTable(st, "KIND", "NAME", "TYPE", "STACK", "HEAP", "TOTAL", "LOCATION")
	t.alignRight(3, 4, 5)
	for _, d := range shown {
		t.addRow(sizeClass(d.Total()),
			d.Kind.String(),
			d.Name,
			truncate(d.TypeLabel, opts.LabelWidth),
			HumanSize(d.StackSize),
			HumanSize(d.HeapSize),
			HumanSize(d.Total()),
			fmt.Sprintf("%s:%d", d.File, d.Line))
	}
	return writeReport(w, st, opts.Title, t, footer(r, len(shown)))
}

func renderGroups(w io.Writer, r *types.ScanResult, opts Options) error {
	st := newStyles(opts.NoColor)
	want := kindSet(opts.Kinds)

	t := newTable(st, "KIND", "TYPE", "COUNT", "TOTAL", "SHARE")
	t.alignRight(2, 3, 4)
	rows := 0
	for _, g := range r.SortedGroups() {
		if want != nil && !want[g.Key.Kind] {
			continue
		}
		if opts.Top > 0 && rows == opts.Top {
			break
		}
		t.addRow(sizeClass(g.TotalSize),
			g.Key.Kind.String(),
			truncate(g.Key.TypeLabel, opts.LabelWidth),
			fmt.Sprintf("%d", g.Count),
			HumanSize(g.TotalSize),
			share(g.TotalSize, r.TotalSize))
		rows++
	}
	return writeReport(w, st, opts.Title, t, footer(r, len(r.Declarations)))
}

func renderFiles(w io.Writer, r *types.ScanResult, opts Options) error {
	st := newStyles(opts.NoColor)

	t := newTable(st, "FILE", "DECLS", "TOTAL", "SHARE")
	t.alignRight(1, 2, 3)
	for i, f := range aggregate.NewIndex(r).Files() {
		if opts.Top > 0 && i == opts.Top {
			break
		}
		t.addRow(sizeClass(f.TotalSize),
			f.File,
			fmt.Sprintf("%d", f.Count),
			HumanSize(f.TotalSize),
			share(f.TotalSize, r.TotalSize))
	}
	return writeReport(w, st, opts.Title, t, footer(r, len(r.Declarations)))
}

func writeReport(w io.Writer, st styles, title string, t *table, foot string) error {
	var b strings.Builder
	if title != "" {
		b.WriteString(st.title(title))
		b.WriteString("\n\n")
	}
	t.render(&b)
	b.WriteString("\n")
	b.WriteString(st.dim(foot))
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func footer(r *types.ScanResult, shown int) string {
	s := fmt.Sprintf("%d of %d declarations in %d files, estimated total %s",
		shown, len(r.Declarations), r.Files, HumanSize(r.TotalSize))
	if n := len(r.Skipped); n > 0 {
		s += fmt.Sprintf(" (%d unreadable files skipped)", n)
	}
	return s
}

func share(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(total))
}

func kindSet(kinds []types.DeclKind) map[types.DeclKind]bool {
	if len(kinds) == 0 {
		return nil
	}
	set := make(map[types.DeclKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// jsonResult is the JSON document layout.
type jsonResult struct {
	Title        string            `json:"title,omitempty"`
	TotalSize    int               `json:"total_size"`
	Files        int               `json:"files"`
	Declarations []jsonDeclaration `json:"declarations"`
	Groups       []jsonGroup       `json:"groups"`
	Skipped      []jsonSkipped     `json:"skipped,omitempty"`
}

type jsonDeclaration struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Type  string `json:"type"`
	Stack int    `json:"stack"`
	Heap  int    `json:"heap"`
	Total int    `json:"total"`
	File  string `json:"file"`
	Line  int    `json:"line"`
}

type jsonGroup struct {
	Kind      string `json:"kind"`
	Type      string `json:"type"`
	Count     int    `json:"count"`
	TotalSize int    `json:"total_size"`
}

type jsonSkipped struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

func renderJSON(w io.Writer, r *types.ScanResult, opts Options) error {
	out := jsonResult{
		Title:        opts.Title,
		TotalSize:    r.TotalSize,
		Files:        r.Files,
		Declarations: []jsonDeclaration{},
		Groups:       []jsonGroup{},
	}
	for _, d := range r.Filter(opts.Kinds...) {
		out.Declarations = append(out.Declarations, jsonDeclaration{
			Name:  d.Name,
			Kind:  d.Kind.String(),
			Type:  d.TypeLabel,
			Stack: d.StackSize,
			Heap:  d.HeapSize,
			Total: d.Total(),
			File:  d.File,
			Line:  d.Line,
		})
	}
	want := kindSet(opts.Kinds)
	for _, g := range r.SortedGroups() {
		if want != nil && !want[g.Key.Kind] {
			continue
		}
		out.Groups = append(out.Groups, jsonGroup{
			Kind:      g.Key.Kind.String(),
			Type:      g.Key.TypeLabel,
			Count:     g.Count,
			TotalSize: g.TotalSize,
		})
	}
	for _, s := range r.Skipped {
		out.Skipped = append(out.Skipped, jsonSkipped{File: s.File, Reason: s.Reason})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// HumanSize formats a byte count with binary units.
func HumanSize(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	units := []string{"KiB", "MiB", "GiB", "TiB"}
	v := float64(n) / unit
	i := 0
	for v >= unit && i < len(units)-1 {
		v /= unit
		i++
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}
