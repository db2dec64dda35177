// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

// Size thresholds for row highlighting.
const (
	largeSize  = 64 << 10
	mediumSize = 1 << 10
)

type level int

const (
	levelSmall level = iota
	levelMedium
	levelLarge
)

func sizeClass(n int) level {
	switch {
	case n >= largeSize:
		return levelLarge
	case n >= mediumSize:
		return levelMedium
	default:
		return levelSmall
	}
}

// styles applies terminal styling. With color disabled every function
// returns its input unchanged, so widths measured before styling hold.
type styles struct {
	title  func(string) string
	header func(string) string
	dim    func(string) string
	size   map[level]func(string) string
	gain   func(string) string
	loss   func(string) string
}

func newStyles(noColor bool) styles {
	plain := func(s string) string { return s }
	if noColor {
		return styles{
			title:  plain,
			header: plain,
			dim:    plain,
			size:   map[level]func(string) string{levelSmall: plain, levelMedium: plain, levelLarge: plain},
			gain:   plain,
			loss:   plain,
		}
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	return styles{
		title:  func(s string) string { return titleStyle.Render(s) },
		header: func(s string) string { return headerStyle.Render(s) },
		dim:    func(s string) string { return dimStyle.Render(s) },
		size: map[level]func(string) string{
			levelSmall:  plain,
			levelMedium: color.New(color.FgYellow).Sprint,
			levelLarge:  color.New(color.FgRed, color.Bold).Sprint,
		},
		gain: color.New(color.FgRed).Sprint,
		loss: color.New(color.FgGreen).Sprint,
	}
}

// table lays out rows in aligned columns using display widths.
type table struct {
	st     styles
	header []string
	right  map[int]bool
	rows   [][]string
	levels []level
}

func newTable(st styles, header ...string) *table {
	return &table{st: st, header: header, right: map[int]bool{}}
}

func (t *table) alignRight(cols ...int) {
	for _, c := range cols {
		t.right[c] = true
	}
}

func (t *table) addRow(l level, cells ...string) {
	t.rows = append(t.rows, cells)
	t.levels = append(t.levels, l)
}

func (t *table) widths() []int {
	w := make([]int, len(t.header))
	for i, h := range t.header {
		w[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > w[i] {
				w[i] = cw
			}
		}
	}
	return w
}

func (t *table) pad(i, width int, cell string) string {
	if t.right[i] {
		return runewidth.FillLeft(cell, width)
	}
	return runewidth.FillRight(cell, width)
}

func (t *table) line(b *strings.Builder, w []int, cells []string, style func(string) string) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		width := w[i]
		if i == len(cells)-1 && !t.right[i] {
			width = 0 // no trailing padding
		}
		parts[i] = t.pad(i, width, cell)
	}
	b.WriteString(style(strings.Join(parts, columnGap)))
	b.WriteString("\n")
}

func (t *table) render(b *strings.Builder) {
	w := t.widths()
	t.line(b, w, t.header, t.st.header)
	for i, row := range t.rows {
		t.line(b, w, row, t.st.size[t.levels[i]])
	}
}

// truncate shortens value to width display columns, marking the cut with
// an ellipsis.
func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
