// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package estimate

import "regexp"

// InferredLabel is the type label of a binding with no annotation whose
// initializer is not recognized.
const InferredLabel = "inferred"

// inferRules map initializer shapes to a type label, first match wins.
var inferRules = []struct {
	pattern *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`^String::|\.to_string\(\)$|\.to_owned\(\)$|^format!`), "String"},
	{regexp.MustCompile(`^vec!|^Vec::`), "Vec<_>"},
	{regexp.MustCompile(`^VecDeque::`), "VecDeque<_>"},
	{regexp.MustCompile(`^HashMap::`), "HashMap<_, _>"},
	{regexp.MustCompile(`^BTreeMap::`), "BTreeMap<_, _>"},
	{regexp.MustCompile(`^HashSet::`), "HashSet<_>"},
	{regexp.MustCompile(`^BTreeSet::`), "BTreeSet<_>"},
	{regexp.MustCompile(`^Box::`), "Box<_>"},
	{regexp.MustCompile(`^Rc::`), "Rc<_>"},
	{regexp.MustCompile(`^Arc::`), "Arc<_>"},
	{regexp.MustCompile(`^(?:Some\(|None$)`), "Option<_>"},
	{regexp.MustCompile(`^(?:Ok|Err)\(`), "Result<_, _>"},
	{regexp.MustCompile(`^b?"`), "&str"},
	{regexp.MustCompile(`^'(?:[^'\\]|\\.+)'$`), "char"},
	{regexp.MustCompile(`^(?:true|false)$`), "bool"},
	{regexp.MustCompile(`^-?[0-9][0-9_]*\.[0-9_]*(?:f64)?$|^-?[0-9][0-9_]*f64$`), "f64"},
	{regexp.MustCompile(`^-?[0-9][0-9_]*f32$`), "f32"},
	{regexp.MustCompile(`^-?[0-9][0-9_]*(i8|u8|i16|u16|i32|u32|i64|u64|i128|u128|isize|usize)$`), "$1"},
	{regexp.MustCompile(`^-?(?:[0-9][0-9_]*|0x[0-9a-fA-F_]+|0b[01_]+|0o[0-7_]+)$`), "i32"},
}

// InferLabel guesses a type label from an initializer expression. It returns
// InferredLabel when no shape matches.
func InferLabel(init string) string {
	for _, r := range inferRules {
		if m := r.pattern.FindStringSubmatchIndex(init); m != nil {
			return string(r.pattern.ExpandString(nil, r.label, init, m))
		}
	}
	return InferredLabel
}
