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

// Package attrset implements the attribute-set codec (C3): a compact
// representation of a small set of column/combination refs and the
// union/intersection operations the unary and n-ary pipelines reduce
// with.
//
// Attribute sets in practice hold a handful of refs (the columns or
// combinations sharing one cell value), so this is a sorted,
// length-implicit slice intersected by linear merge, per spec.md's
// design note to avoid hashed sets in the hot path.
package attrset

import (
	"sort"

	"github.com/dolthub/indy/internal/ref"
)

// Set is a canonically-sorted, duplicate-free slice of Refs.
type Set []ref.Ref

// New builds a Set from refs, sorting and deduplicating them.
func New(refs ...ref.Ref) Set {
	s := append(Set(nil), refs...)
	sort.Slice(s, func(i, j int) bool { return s[i].Less(s[j]) })
	return dedup(s)
}

func dedup(s Set) Set {
	if len(s) < 2 {
		return s
	}
	out := s[:1]
	for _, r := range s[1:] {
		if r != out[len(out)-1] {
			out = append(out, r)
		}
	}
	return out
}

// Len reports the set's size.
func (s Set) Len() int { return len(s) }

// Contains reports whether r is a member of s. s must be sorted (true
// of every Set returned by this package).
func (s Set) Contains(r ref.Ref) bool {
	i := sort.Search(len(s), func(i int) bool { return !s[i].Less(r) })
	return i < len(s) && s[i] == r
}

// Without returns a copy of s with r removed, if present.
func (s Set) Without(r ref.Ref) Set {
	out := make(Set, 0, len(s))
	for _, x := range s {
		if x != r {
			out = append(out, x)
		}
	}
	return out
}

// Union returns the sorted union of a and b via linear merge.
func Union(a, b Set) Set {
	out := make(Set, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Less(b[j]):
			out = append(out, a[i])
			i++
		case b[j].Less(a[i]):
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Intersect returns the sorted intersection of a and b via linear
// merge. This is the hot-path operation: every reduce step in C5/C7
// intersects one more group's attribute set into the running result.
func Intersect(a, b Set) Set {
	out := make(Set, 0, minLen(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Less(b[j]):
			i++
		case b[j].Less(a[i]):
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func minLen(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Equal reports whether a and b contain exactly the same refs.
func Equal(a, b Set) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsUniverse reports whether s equals the full set of refs considered
// "compatible" with the value that produced it (universe). Callers use
// this to short-circuit the quadratic emission a value present in
// every column would otherwise cause: when a group's attribute set is
// the universe, the reduction for any member is just "all other
// members", computed in O(1) rather than by intersecting explicit
// per-member sets.
func IsUniverse(s Set, universe Set) bool {
	return Equal(s, universe)
}
