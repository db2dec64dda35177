// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package estimate

import (
	"regexp"
	"strings"
)

var (
	emptyCtorPattern = regexp.MustCompile(`^(?:[\w:<>, &']*::)?(?:new|default)\(\s*\)$|^vec!\s*[\[(]\s*[\])]$|^\[\s*\]$`)
	capacityPattern  = regexp.MustCompile(`with_capacity\(\s*([^()]*?)\s*\)`)
	stringCtor       = regexp.MustCompile(`String::from\(|String::from_str\(|\.to_string\(\)|\.to_owned\(\)|\.into\(\)|format!\(`)
	quotedPattern    = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
	listPattern      = regexp.MustCompile(`^vec!\s*\[(.*)\]$|^vec!\s*\((.*)\)$|::from\(\s*\[(.*)\]\s*\)$|^\[(.*)\]$`)
)

// heapEstimate refines the heap size of strings, vectors, maps and sets
// from the initializer text. Unrecognized or malformed initializers yield
// the class default.
func heapEstimate(c class, t typeText, init string) int {
	elem := elemSize(c, t)
	def := defaultHeap(c, elem)
	if init == "" {
		return def
	}
	if emptyCtorPattern.MatchString(init) {
		return 0
	}
	if m := capacityPattern.FindStringSubmatch(init); m != nil {
		n, ok := parseCount(m[1])
		if !ok {
			return def
		}
		return mulSat(n, elem)
	}
	if c == classString {
		if n, ok := stringLiteralLen(init); ok {
			return n
		}
		return def
	}
	if n, ok := listLen(init); ok {
		return mulSat(n, elem)
	}
	return def
}

func elemSize(c class, t typeText) int {
	switch c {
	case classString:
		return 1
	case classVec:
		return ElementSize(genericArgs(t.raw))
	default:
		return mapEntrySize
	}
}

func defaultHeap(c class, elem int) int {
	switch c {
	case classString:
		return defaultStringHeap
	case classVec:
		return elem * defaultVecFactor
	default:
		return 0
	}
}

// stringLiteralLen returns the byte length of the first quoted literal in
// a string-producing constructor, as written in the source.
func stringLiteralLen(init string) (int, bool) {
	if !stringCtor.MatchString(init) {
		return 0, false
	}
	m := quotedPattern.FindStringSubmatch(init)
	if m == nil {
		return 0, false
	}
	return len(m[1]), true
}

// listLen counts the elements of an inline list literal. The repeat form
// [value; count] yields count.
func listLen(init string) (int, bool) {
	m := listPattern.FindStringSubmatch(init)
	if m == nil {
		return 0, false
	}
	var body string
	for _, g := range m[1:] {
		if g != "" {
			body = g
			break
		}
	}
	if strings.TrimSpace(body) == "" {
		return 0, true
	}
	if parts := splitTopLevel(body, ';'); len(parts) == 2 {
		return parseCount(parts[1])
	}
	n := 0
	for _, p := range splitTopLevel(body, ',') {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n, true
}

// splitTopLevel splits s on sep outside of brackets and string literals.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	inString := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inString:
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inString = false
			}
		case ch == '"':
			inString = true
		case ch == '(' || ch == '[' || ch == '{':
			depth++
		case ch == ')' || ch == ']' || ch == '}':
			depth--
		case ch == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
