// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scanner extracts declarations from Rust source text with lexical
// patterns and sizes them.
//
// Each declaration kind has its own matcher and runs as an independent pass
// over the text, so one line may yield declarations of several kinds. A
// match whose line starts with // is dropped; block comments and string
// literals are not tracked.
package scanner

import (
	"github.com/petar-djukic/memscan/internal/estimate"
	"github.com/petar-djukic/memscan/pkg/types"
)

const fnPointerSize = 8

// Labels for kinds whose type label is a fixed tag.
const (
	LabelStruct      = "struct"
	LabelEnum        = "enum"
	LabelUnion       = "union"
	LabelTrait       = "trait"
	LabelImpl        = "impl"
	LabelModule      = "module"
	LabelMacro       = "macro"
	LabelUse         = "use"
	LabelExternCrate = "extern crate"
	LabelExternBlock = "extern block"
)

// Scan runs every matcher over text and returns the raw matches in kind
// order, then offset order. Matches on commented lines are dropped.
func Scan(text string) []RawMatch {
	return scan(text, NewLineIndex(text))
}

func scan(text string, lines *LineIndex) []RawMatch {
	var out []RawMatch
	for _, m := range matchers {
		for _, loc := range m.pattern.FindAllStringSubmatchIndex(text, -1) {
			raw, ok := m.build(text, loc)
			if !ok || raw.Name == "" {
				continue
			}
			if lines.Commented(raw.Offset) {
				continue
			}
			raw.Kind = m.kind
			out = append(out, raw)
		}
	}
	return out
}

// ScanFile scans text and returns sized declarations attributed to file,
// a slash-separated path relative to the scan root.
func ScanFile(file, text string) []types.Declaration {
	lines := NewLineIndex(text)
	raws := scan(text, lines)
	decls := make([]types.Declaration, 0, len(raws))
	for _, raw := range raws {
		label, size := Size(raw, text)
		decls = append(decls, types.Declaration{
			Name:      raw.Name,
			Kind:      raw.Kind,
			TypeLabel: label,
			StackSize: size.Stack,
			HeapSize:  size.Heap,
			File:      file,
			Line:      lines.Line(raw.Offset),
		})
	}
	return decls
}

// Size returns the type label and estimate for a raw match. Items that
// occupy no runtime memory (traits, impls, modules, macros, imports and
// extern items) are zero-sized.
func Size(raw RawMatch, text string) (string, types.TypeEstimate) {
	switch raw.Kind {
	case types.Binding:
		label := raw.TypeText
		if label == "" {
			label = estimate.InferLabel(raw.Init)
		}
		return label, estimate.Estimate(label, raw.Init)
	case types.Function:
		return raw.TypeText, types.TypeEstimate{Stack: fnPointerSize}
	case types.TypeAlias:
		return raw.TypeText, estimate.Estimate(raw.TypeText, "")
	case types.Struct:
		return LabelStruct, AggregateSize(raw.Kind, text, raw.End)
	case types.Enum:
		return LabelEnum, AggregateSize(raw.Kind, text, raw.End)
	case types.Union:
		return LabelUnion, AggregateSize(raw.Kind, text, raw.End)
	case types.Trait:
		return LabelTrait, types.TypeEstimate{}
	case types.Impl:
		if raw.Trait != "" {
			return LabelImpl + " " + raw.Trait, types.TypeEstimate{}
		}
		return LabelImpl, types.TypeEstimate{}
	case types.Module:
		return LabelModule, types.TypeEstimate{}
	case types.Macro:
		return LabelMacro, types.TypeEstimate{}
	case types.Use:
		return LabelUse, types.TypeEstimate{}
	case types.ExternCrate:
		return LabelExternCrate, types.TypeEstimate{}
	case types.ExternBlock:
		return LabelExternBlock, types.TypeEstimate{}
	default:
		return "", types.TypeEstimate{}
	}
}
