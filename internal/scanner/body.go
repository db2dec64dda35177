// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package scanner

import (
	"regexp"
	"strings"

	"github.com/petar-djukic/memscan/internal/estimate"
	"github.com/petar-djukic/memscan/pkg/types"
)

const (
	discriminantSize = 8 // enum tag
	aggregateFloor   = 8 // struct or union with no recognizable field
)

var fieldPattern = regexp.MustCompile(`(?s)^(?:pub(?:\s*\([^)]*\))?\s+)?([A-Za-z_]\w*)\s*:\s*(.+)$`)

// ParseBody returns the comma-separated segments of the first brace-delimited
// body at or after start. The search gives up at a ';' seen before any '{'
// (unit and tuple structs) and when the braces never balance.
//
// Commas are split outside (), [] and {} but not outside <>, so generic
// arguments with several parameters are split apart.
func ParseBody(text string, start int) []string {
	if start < 0 || start >= len(text) {
		return nil
	}
	open := -1
	for i := start; i < len(text); i++ {
		if text[i] == '{' {
			open = i
			break
		}
		if text[i] == ';' {
			return nil
		}
	}
	if open < 0 {
		return nil
	}
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return splitSegments(stripComments(text[open+1 : i]))
			}
		case '/':
			if strings.HasPrefix(text[i:], commentMarker) {
				if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
					i += nl
				} else {
					return nil
				}
			}
		}
	}
	return nil
}

// stripComments removes line comments and attribute lines from a body so
// their commas and brackets never reach the splitter.
func stripComments(body string) string {
	lines := strings.Split(body, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if i := strings.Index(line, commentMarker); i >= 0 {
			line = line[:i]
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#[") {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "\n")
}

// splitSegments splits a comment-free body on commas outside brackets and
// drops blank segments.
func splitSegments(body string) []string {
	var segments []string
	depth, begin := 0, 0
	flush := func(end int) {
		if seg := cleanSegment(body[begin:end]); seg != "" {
			segments = append(segments, seg)
		}
	}
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(i)
				begin = i + 1
			}
		}
	}
	flush(len(body))
	return segments
}

func cleanSegment(seg string) string {
	return strings.Join(strings.Fields(seg), " ")
}

// StructSize sums the estimates of the fields in a struct or union body.
// A body with no recognizable field gets the 8-byte floor.
func StructSize(segments []string) types.TypeEstimate {
	var total types.TypeEstimate
	matched := false
	for _, seg := range segments {
		m := fieldPattern.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		matched = true
		e := estimate.Estimate(m[2], "")
		total.Stack += e.Stack
		total.Heap += e.Heap
	}
	if !matched {
		return types.TypeEstimate{Stack: aggregateFloor}
	}
	return total
}

// EnumSize is the 8-byte discriminant plus the largest variant payload.
// Heap is never modeled for enums.
func EnumSize(segments []string) types.TypeEstimate {
	largest := 0
	for _, seg := range segments {
		if n := variantSize(seg); n > largest {
			largest = n
		}
	}
	return types.TypeEstimate{Stack: discriminantSize + largest}
}

// variantSize sums the stack sizes of a tuple payload or the fields of a
// struct-like payload. Unit variants are 0.
func variantSize(seg string) int {
	paren := strings.IndexByte(seg, '(')
	brace := strings.IndexByte(seg, '{')
	switch {
	case paren >= 0 && (brace < 0 || paren < brace):
		payload := seg[paren+1:]
		if end := strings.LastIndexByte(payload, ')'); end >= 0 {
			payload = payload[:end]
		}
		size := 0
		for _, part := range strings.Split(payload, ",") {
			if part = strings.TrimSpace(part); part != "" {
				size += estimate.StackOf(part)
			}
		}
		return size
	case brace >= 0:
		payload := seg[brace+1:]
		if end := strings.LastIndexByte(payload, '}'); end >= 0 {
			payload = payload[:end]
		}
		fields := splitSegments(payload)
		size := 0
		for _, f := range fields {
			if m := fieldPattern.FindStringSubmatch(f); m != nil {
				size += estimate.StackOf(m[2])
			}
		}
		return size
	default:
		return 0
	}
}

// AggregateSize sizes a struct, enum or union whose keyword match ends at
// start in text.
func AggregateSize(kind types.DeclKind, text string, start int) types.TypeEstimate {
	segments := ParseBody(text, start)
	if kind == types.Enum {
		return EnumSize(segments)
	}
	return StructSize(segments)
}
