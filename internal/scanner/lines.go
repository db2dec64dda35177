// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package scanner

import (
	"sort"
	"strings"
)

const commentMarker = "//"

// LineIndex maps byte offsets in a text to 1-based line numbers.
type LineIndex struct {
	text   string
	starts []int // byte offset of the first character of each line
}

// NewLineIndex indexes the line starts of text.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// Line returns the 1-based line containing offset. Offsets outside the text
// clamp to the first or last line.
func (li *LineIndex) Line(offset int) int {
	if offset <= 0 {
		return 1
	}
	// First line start strictly greater than offset, minus one.
	return sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
}

// Text returns the text of a 1-based line without its line terminator, or
// "" when line is out of range.
func (li *LineIndex) Text(line int) string {
	if line < 1 || line > len(li.starts) {
		return ""
	}
	start := li.starts[line-1]
	end := len(li.text)
	if line < len(li.starts) {
		end = li.starts[line] - 1
	}
	return strings.TrimSuffix(li.text[start:end], "\r")
}

// lineCount returns the number of lines in the text.
func (li *LineIndex) lineCount() int {
	return len(li.starts)
}

// Commented reports whether the line holding offset is a single-line
// comment. Block comments are not tracked.
func (li *LineIndex) Commented(offset int) bool {
	return strings.HasPrefix(strings.TrimSpace(li.Text(li.Line(offset))), commentMarker)
}
