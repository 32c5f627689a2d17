// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ref implements the ColumnRef sum type called for in
// spec.md's DESIGN NOTES: rather than packing column ids and
// column-combination ids into one shared integer namespace (the
// source's approach, flagged there as a "class of miscasts" waiting
// to happen), a Ref is tagged with which namespace it names. Reducer
// keys throughout the shuffle pipeline (C5, C7) are Refs, not bare
// uint32s.
package ref

import "fmt"

// Kind distinguishes a plain column id from a column-combination id.
type Kind uint8

const (
	// Column identifies a single column, per internal/colid.
	Column Kind = iota
	// Combination identifies a column-combination, per internal/combindex.
	Combination
)

// Ref is a tagged reference into either namespace.
type Ref struct {
	Kind Kind
	ID   uint32
}

// Col builds a Ref naming a plain column id.
func Col(id uint32) Ref { return Ref{Kind: Column, ID: id} }

// Comb builds a Ref naming a column-combination id.
func Comb(id uint32) Ref { return Ref{Kind: Combination, ID: id} }

// Less gives Refs a total order: Column refs sort before Combination
// refs, ties broken by ID. Used to keep attribute sets canonically
// sorted.
func (r Ref) Less(o Ref) bool {
	if r.Kind != o.Kind {
		return r.Kind < o.Kind
	}
	return r.ID < o.ID
}

func (r Ref) String() string {
	switch r.Kind {
	case Column:
		return fmt.Sprintf("col(%d)", r.ID)
	default:
		return fmt.Sprintf("comb(%d)", r.ID)
	}
}
