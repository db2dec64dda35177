// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package scanner

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/petar-djukic/memscan/pkg/types"
)

// Fragments shared by the declaration patterns. Leading indentation is
// [ \t]* rather than \s* so a match never starts on a previous line.
const (
	indent = `(?m)^[ \t]*`
	vis    = `(?:pub(?:\s*\([^)]*\))?\s+)?`
	ident  = `([A-Za-z_]\w*)`
)

var (
	bindingPattern = regexp.MustCompile(`(?m)(?:^|[^'*\w])(?:let|const|static)\s+(?:mut\s+)?(?:ref\s+)?` + ident +
		`(?:\s*:\s*((?:\[[^\]\n]*\]|[^=;\n\[])+?))?[ \t]*(?:(=)|;|$)`)

	functionPattern = regexp.MustCompile(indent +
		`((?:pub(?:\s*\([^)]*\))?\s+|default\s+|async\s+|const\s+|unsafe\s+|extern\s+(?:"[^"]*"\s+)?)*)` +
		`fn\s+` + ident + `\b`)

	structPattern = regexp.MustCompile(indent + vis + `struct\s+` + ident)
	enumPattern   = regexp.MustCompile(indent + vis + `enum\s+` + ident)
	unionPattern  = regexp.MustCompile(indent + vis + `union\s+` + ident)

	traitPattern = regexp.MustCompile(indent + vis + `(?:unsafe\s+)?(?:auto\s+)?trait\s+` + ident)

	implPattern = regexp.MustCompile(indent + `(?:unsafe\s+)?impl\b\s*(?:<[^{\n]*?>)?\s*` +
		`(?:(!?[A-Za-z_][\w:]*(?:<[^{\n]*?>)?)\s+for\s+)?&?([A-Za-z_][\w:]*)`)

	typeAliasPattern = regexp.MustCompile(indent + vis + `type\s+` + ident + `\s*(?:<[^=;]*?>)?\s*=\s*([^;]+);`)
	modulePattern    = regexp.MustCompile(indent + vis + `mod\s+` + ident)
	macroPattern     = regexp.MustCompile(`\bmacro_rules!\s*` + ident)
	usePattern       = regexp.MustCompile(indent + vis + `use\s+([^;]+);`)

	externCratePattern = regexp.MustCompile(indent + vis + `extern\s+crate\s+` + ident)
	externBlockPattern = regexp.MustCompile(`\bextern\s+"([^"]*)"\s*\{`)

	selfParam = regexp.MustCompile(`^(?:&\s*(?:'\w+\s+)?)?(?:mut\s+)?self\b`)
	asAlias   = regexp.MustCompile(`\s+as\s+(\w+)\s*$`)
	whereWord = regexp.MustCompile(`\bwhere\b`)
)

// nonBindingNames are keywords that follow const/static but start an item
// other than a binding (const fn, const unsafe fn, ...).
var nonBindingNames = map[string]bool{
	"fn":     true,
	"unsafe": true,
	"async":  true,
	"extern": true,
}

// RawMatch is one declaration found by a matcher, before sizing.
type RawMatch struct {
	Kind     types.DeclKind
	Name     string
	TypeText string // Annotation, alias definition or signature summary
	Init     string // Binding initializer, "" when absent
	Trait    string // Implemented trait for impl blocks
	Params   int    // Parameter count for functions
	Offset   int    // Byte offset of the name, used for the line
	End      int    // Byte offset just past the match
}

// matcher extracts one declaration kind.
type matcher struct {
	kind    types.DeclKind
	pattern *regexp.Regexp
	build   func(text string, loc []int) (RawMatch, bool)
}

// matchers holds one matcher per kind in DeclKind order.
var matchers = []matcher{
	{types.Binding, bindingPattern, buildBinding},
	{types.Function, functionPattern, buildFunction},
	{types.Struct, structPattern, buildNamed},
	{types.Enum, enumPattern, buildNamed},
	{types.Trait, traitPattern, buildNamed},
	{types.Impl, implPattern, buildImpl},
	{types.TypeAlias, typeAliasPattern, buildTypeAlias},
	{types.Module, modulePattern, buildNamed},
	{types.Union, unionPattern, buildNamed},
	{types.Macro, macroPattern, buildNamed},
	{types.Use, usePattern, buildUse},
	{types.ExternCrate, externCratePattern, buildNamed},
	{types.ExternBlock, externBlockPattern, buildNamed},
}

// group returns submatch i of loc, or "" when it did not participate.
func group(text string, loc []int, i int) string {
	if 2*i+1 >= len(loc) || loc[2*i] < 0 {
		return ""
	}
	return text[loc[2*i]:loc[2*i+1]]
}

func buildNamed(text string, loc []int) (RawMatch, bool) {
	return RawMatch{Name: group(text, loc, 1), Offset: loc[2], End: loc[1]}, true
}

func buildBinding(text string, loc []int) (RawMatch, bool) {
	name := group(text, loc, 1)
	if nonBindingNames[name] {
		return RawMatch{}, false
	}
	m := RawMatch{
		Name:     name,
		TypeText: strings.TrimSpace(group(text, loc, 2)),
		Offset:   loc[2],
		End:      loc[1],
	}
	if loc[6] >= 0 {
		m.Init = readInitializer(text, loc[7])
	}
	return m, true
}

// readInitializer returns the expression starting at from, up to the first
// ';' outside brackets and string literals or the end of the line.
func readInitializer(text string, from int) string {
	depth := 0
	inString := false
	i := from
loop:
	for ; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '\n':
			break loop
		case inString:
			if ch == '\\' && i+1 < len(text) && text[i+1] != '\n' {
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
		case ch == ';' && depth <= 0:
			break loop
		}
	}
	return strings.TrimSpace(text[from:i])
}

func buildFunction(text string, loc []int) (RawMatch, bool) {
	list, ret, end, ok := readSignature(text, loc[1])
	if !ok {
		return RawMatch{}, false
	}
	params := countParams(list)
	return RawMatch{
		Name:     group(text, loc, 2),
		TypeText: FunctionLabel(params, ret),
		Params:   params,
		Offset:   loc[4],
		End:      end,
	}, true
}

// readSignature reads the optional generics, the parameter list and the
// return type following a function name at from. Brackets are balanced,
// so closures, tuples and bounds inside the signature stay intact.
func readSignature(text string, from int) (params, ret string, end int, ok bool) {
	i := skipSpace(text, from)
	if i < len(text) && text[i] == '<' {
		if i = skipGenerics(text, i); i < 0 {
			return "", "", 0, false
		}
		i = skipSpace(text, i)
	}
	if i >= len(text) || text[i] != '(' {
		return "", "", 0, false
	}
	closing := matchParen(text, i)
	if closing < 0 {
		return "", "", 0, false
	}
	params = text[i+1 : closing]
	end = closing + 1
	if j := skipSpace(text, end); strings.HasPrefix(text[j:], "->") {
		ret, end = readReturnType(text, j+2)
	}
	return params, ret, end, true
}

func skipSpace(text string, i int) int {
	for i < len(text) && strings.IndexByte(" \t\r\n", text[i]) >= 0 {
		i++
	}
	return i
}

// skipGenerics returns the offset just past the '>' closing the generic
// list that opens at i, or -1. The '>' of an arrow does not close.
func skipGenerics(text string, i int) int {
	depth := 0
	for ; i < len(text); i++ {
		switch text[i] {
		case '<':
			depth++
		case '>':
			if text[i-1] == '-' {
				continue
			}
			depth--
			if depth == 0 {
				return i + 1
			}
		case '{', ';':
			return -1
		}
	}
	return -1
}

// matchParen returns the offset of the ')' matching the '(' at i, or -1.
func matchParen(text string, i int) int {
	depth := 0
	for ; i < len(text); i++ {
		switch text[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth == 0 {
				return i
			}
		case '{':
			return -1
		}
	}
	return -1
}

// readReturnType reads a return type up to the body, a ';', the end of the
// line or a where clause, whichever comes first outside parentheses.
func readReturnType(text string, from int) (string, int) {
	depth := 0
	i := from
loop:
	for ; i < len(text); i++ {
		switch text[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '{', ';', '\n':
			if depth <= 0 {
				break loop
			}
		}
	}
	ret := text[from:i]
	if w := whereWord.FindStringIndex(ret); w != nil {
		ret = ret[:w[0]]
	}
	return strings.TrimSpace(ret), i
}

// FunctionLabel renders the signature summary used as a function's label.
func FunctionLabel(params int, ret string) string {
	var b strings.Builder
	b.WriteString("fn(")
	b.WriteString(strconv.Itoa(params))
	b.WriteString(")")
	if ret != "" {
		b.WriteString(" -> ")
		b.WriteString(ret)
	}
	return b.String()
}

// countParams counts comma-separated parameters, ignoring a leading self
// receiver and blank segments.
func countParams(params string) int {
	n := 0
	for i, p := range strings.Split(params, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i == 0 && selfParam.MatchString(p) {
			continue
		}
		n++
	}
	return n
}

func buildImpl(text string, loc []int) (RawMatch, bool) {
	trait := group(text, loc, 1)
	if i := strings.IndexByte(trait, '<'); i >= 0 {
		trait = trait[:i]
	}
	if i := strings.LastIndex(trait, "::"); i >= 0 {
		trait = trait[i+2:]
	}
	return RawMatch{
		Name:   group(text, loc, 2),
		Trait:  trait,
		Offset: loc[4],
		End:    loc[1],
	}, true
}

func buildTypeAlias(text string, loc []int) (RawMatch, bool) {
	return RawMatch{
		Name:     group(text, loc, 1),
		TypeText: strings.Join(strings.Fields(group(text, loc, 2)), " "),
		Offset:   loc[2],
		End:      loc[1],
	}, true
}

func buildUse(text string, loc []int) (RawMatch, bool) {
	path := group(text, loc, 1)
	name := UseName(path)
	if name == "" {
		return RawMatch{}, false
	}
	return RawMatch{Name: name, TypeText: path, Offset: loc[2], End: loc[1]}, true
}

// UseName returns the display name of a use path: the alias when renamed
// with as, otherwise the last path segment with braces and whitespace
// removed.
func UseName(path string) string {
	if m := asAlias.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	last := path
	if i := strings.LastIndex(path, "::"); i >= 0 {
		last = path[i+2:]
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, last)
}
