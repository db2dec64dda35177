// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the data model shared across memscan packages.
package types

import "fmt"

// DeclKind identifies the category of a scanned declaration.
type DeclKind int

const (
	Binding     DeclKind = iota // let/const/static binding
	Function                    // fn item
	Struct                      // struct type
	Enum                        // enum type
	Trait                       // trait definition
	Impl                        // impl block
	TypeAlias                   // type alias
	Module                      // mod item
	Union                       // union type
	Macro                       // macro_rules! definition
	Use                         // use import
	ExternCrate                 // extern crate
	ExternBlock                 // extern "ABI" { ... }
)

var kindNames = [...]string{
	Binding:     "binding",
	Function:    "function",
	Struct:      "struct",
	Enum:        "enum",
	Trait:       "trait",
	Impl:        "impl",
	TypeAlias:   "type_alias",
	Module:      "module",
	Union:       "union",
	Macro:       "macro",
	Use:         "use",
	ExternCrate: "extern_crate",
	ExternBlock: "extern_block",
}

// String returns the snake_case name of the kind.
func (k DeclKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// AllKinds returns every declaration kind in declaration order.
func AllKinds() []DeclKind {
	kinds := make([]DeclKind, len(kindNames))
	for i := range kindNames {
		kinds[i] = DeclKind(i)
	}
	return kinds
}

// ParseDeclKind is the inverse of DeclKind.String.
func ParseDeclKind(s string) (DeclKind, error) {
	for i, name := range kindNames {
		if name == s {
			return DeclKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown declaration kind %q", s)
}

// IsAggregate reports whether the kind is sized from its body.
func (k DeclKind) IsAggregate() bool {
	return k == Struct || k == Enum || k == Union
}

// TypeEstimate is a stack/heap byte pair. Both fields are never negative.
type TypeEstimate struct {
	Stack int
	Heap  int
}

// Total returns Stack + Heap.
func (e TypeEstimate) Total() int {
	return e.Stack + e.Heap
}

// Declaration is one scanned lexical item with its estimated footprint.
type Declaration struct {
	Name      string   // Identifier text
	Kind      DeclKind // Declaration category
	TypeLabel string   // Human-readable type or signature
	StackSize int      // Inline bytes
	HeapSize  int      // Content-dependent bytes
	File      string   // Slash-separated path relative to the scan root
	Line      int      // Line number (1-based)
}

// Total returns StackSize + HeapSize.
func (d Declaration) Total() int {
	return d.StackSize + d.HeapSize
}

// Key returns the group key the declaration is bucketed under.
func (d Declaration) Key() GroupKey {
	return GroupKey{Kind: d.Kind, TypeLabel: d.TypeLabel}
}
