// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package estimate

import (
	"regexp"
	"strings"
)

// class identifies which row of the rule table a type label fell into.
type class int

const (
	classArray class = iota
	classSliceRef
	classRef
	classString
	classVec
	classMap
	classSet
	classBox
	classShared
	classOptional
	classWide
	classWord
	classHalf
	classChar
	classShort
	classByte
	classOther
)

// growable reports whether the class has a content-dependent heap estimate.
func (c class) growable() bool {
	return c == classString || c == classVec || c == classMap || c == classSet
}

// rule is one row of the ordered predicate table. The first rule whose
// match returns true decides the class and the base estimate.
type rule struct {
	name  string
	class class
	match func(t typeText) bool
	stack int
	heap  int
}

var (
	arrayPattern    = regexp.MustCompile(`^\[\s*(.+?)\s*;\s*([^\]]+?)\s*\]$`)
	sliceRefPattern = regexp.MustCompile(`^&\s*(?:'\w+\s+)?(?:mut\s+)?(?:str\b|\[)`)
)

// rules is evaluated top to bottom. Container rules match on the head of the
// type so the outermost wrapper decides; primitive widths are compared as
// whole words with the wider widths first so i128 is never read as i8.
var rules = []rule{
	{name: "fixed array", class: classArray, match: func(t typeText) bool { return arrayPattern.MatchString(t.raw) }},
	{name: "borrowed slice", class: classSliceRef, stack: 16, match: func(t typeText) bool { return sliceRefPattern.MatchString(t.raw) }},
	{name: "reference", class: classRef, stack: 8, match: isReference},
	{name: "string", class: classString, stack: 24, match: headIn("String")},
	{name: "vector", class: classVec, stack: 24, match: headIn("Vec", "VecDeque")},
	{name: "map", class: classMap, stack: 48, match: headIn("HashMap", "BTreeMap")},
	{name: "set", class: classSet, stack: 32, match: headIn("HashSet", "BTreeSet")},
	{name: "box", class: classBox, stack: 8, heap: 8, match: headIn("Box")},
	{name: "shared pointer", class: classShared, stack: 8, heap: 24, match: headIn("Rc", "Arc")},
	{name: "optional", class: classOptional, stack: 24, match: headIn("Option", "Result")},
	{name: "128-bit", class: classWide, stack: 16, match: headIn("i128", "u128")},
	{name: "64-bit", class: classWord, stack: 8, match: headIn("i64", "u64", "f64", "isize", "usize")},
	{name: "32-bit", class: classHalf, stack: 4, match: headIn("i32", "u32", "f32")},
	{name: "char", class: classChar, stack: 4, match: headIn("char")},
	{name: "16-bit", class: classShort, stack: 2, match: headIn("i16", "u16")},
	{name: "8-bit", class: classByte, stack: 1, match: headIn("i8", "u8", "bool")},
	{name: "other", class: classOther, stack: 8, match: func(typeText) bool { return true }},
}

// ruleNames returns the rule table names in evaluation order.
func ruleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// lookup returns the first rule matching t. The table ends with a catch-all
// so lookup always succeeds.
func lookup(t typeText) rule {
	for _, r := range rules {
		if r.match(t) {
			return r
		}
	}
	return rules[len(rules)-1]
}

func headIn(names ...string) func(typeText) bool {
	return func(t typeText) bool {
		for _, n := range names {
			if t.head == n {
				return true
			}
		}
		return false
	}
}

func isReference(t typeText) bool {
	return strings.HasPrefix(t.raw, "&") ||
		strings.HasPrefix(t.raw, "*const ") ||
		strings.HasPrefix(t.raw, "*mut ")
}

// typeText is a normalized type label.
type typeText struct {
	raw  string // trimmed label without leading mut/dyn/impl
	head string // outermost type name without path or generics
}

var labelPrefixes = []string{"mut ", "dyn ", "impl "}

func parseType(label string) typeText {
	raw := strings.TrimSpace(label)
	for trimmed := true; trimmed; {
		trimmed = false
		for _, p := range labelPrefixes {
			if strings.HasPrefix(raw, p) {
				raw = strings.TrimSpace(raw[len(p):])
				trimmed = true
			}
		}
	}
	return typeText{raw: raw, head: typeHead(raw)}
}

// typeHead returns the last path segment before any generic arguments, or
// "" for references, pointers, arrays, slices and tuples.
func typeHead(raw string) string {
	if raw == "" || strings.ContainsAny(raw[:1], "&*[(") {
		return ""
	}
	head := raw
	if i := strings.IndexByte(head, '<'); i >= 0 {
		head = head[:i]
	}
	if i := strings.LastIndex(head, "::"); i >= 0 {
		head = head[i+2:]
	}
	return strings.TrimSpace(head)
}

// genericArgs returns the text between the first '<' and the last '>'.
func genericArgs(raw string) string {
	open := strings.IndexByte(raw, '<')
	end := strings.LastIndexByte(raw, '>')
	if open < 0 || end <= open {
		return ""
	}
	return strings.TrimSpace(raw[open+1 : end])
}
