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

// Package ind implements the IND value type (C2): an immutable pair of
// equal-length, positionally-paired column-id arrays with the
// subsumption, projection and ordering operations the rest of the
// engine builds on.
package ind

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/hashstructure"

	"github.com/dolthub/indy/internal/colid"
	"github.com/dolthub/indy/internal/errkind"
)

// IND is a pair of equal-length column-id arrays: Dep[i] is included in
// Ref[i] for every position i. For arity >= 2, Dep is strictly
// ascending; Ref is an arbitrary permutation positionally paired to
// Dep. Values are never mutated after construction.
type IND struct {
	Dep []colid.ID
	Ref []colid.ID
}

// Empty is the distinguished singleton [] ⊆ [], used as the LHS of
// 0-ary augmentation rules.
var Empty = IND{Dep: nil, Ref: nil}

// New builds an IND from parallel dep/ref slices. For arity >= 2 the
// caller must have dep already sorted ascending with ref permuted to
// match; New does not sort, since sortedness is meaningful input from
// the generator, not something to silently paper over.
func New(dep, ref []colid.ID) IND {
	if len(dep) != len(ref) {
		panic(fmt.Sprintf("ind: dep/ref length mismatch: %d vs %d", len(dep), len(ref)))
	}
	return IND{Dep: dep, Ref: ref}
}

// Unary builds the arity-1 IND dep ⊆ ref.
func Unary(dep, ref colid.ID) IND {
	return IND{Dep: []colid.ID{dep}, Ref: []colid.ID{ref}}
}

// Arity returns the IND's arity.
func (x IND) Arity() int { return len(x.Dep) }

// CheckInvariant verifies x against spec §8's universal sortedness
// invariant: Dep and Ref have equal length, and for arity >= 2, Dep is
// strictly ascending. Returns an errkind.InternalInvariant error if
// violated; a caller that receives a malformed IND from its own
// pipeline has a bug, not a recoverable input problem.
func (x IND) CheckInvariant() error {
	if len(x.Dep) != len(x.Ref) {
		return errkind.InternalInvariant.New(fmt.Sprintf("dep/ref length mismatch: %d vs %d", len(x.Dep), len(x.Ref)))
	}
	for i := 1; i < len(x.Dep); i++ {
		if x.Dep[i-1] >= x.Dep[i] {
			return errkind.InternalInvariant.New(fmt.Sprintf("dep[] not strictly ascending at position %d: %v", i, x.Dep))
		}
	}
	return nil
}

// IsTrivial reports whether dep == ref elementwise.
func (x IND) IsTrivial() bool {
	for i := range x.Dep {
		if x.Dep[i] != x.Ref[i] {
			return false
		}
	}
	return true
}

// Project returns the arity-1 IND at position i: dep[i] ⊆ ref[i].
func (x IND) Project(i int) IND {
	if i < 0 || i >= x.Arity() {
		panic(fmt.Sprintf("ind: Project: index %d out of bounds for arity %d", i, x.Arity()))
	}
	return Unary(x.Dep[i], x.Ref[i])
}

// Coproject returns the arity-(n-1) IND obtained by removing position i
// from both sides.
func (x IND) Coproject(i int) (IND, error) {
	n := x.Arity()
	if i < 0 || i >= n {
		return IND{}, fmt.Errorf("ind: Coproject: index %d out of bounds for arity %d", i, n)
	}
	dep := make([]colid.ID, 0, n-1)
	ref := make([]colid.ID, 0, n-1)
	for j := 0; j < n; j++ {
		if j == i {
			continue
		}
		dep = append(dep, x.Dep[j])
		ref = append(ref, x.Ref[j])
	}
	return IND{Dep: dep, Ref: ref}, nil
}

// IsImpliedBy reports whether there is an order-preserving injection
// phi : [0, x.Arity()) -> [0, that.Arity()) such that x.Dep[i] ==
// that.Dep[phi(i)] and x.Ref[i] == that.Ref[phi(i)] for every i. Both
// INDs must have Dep sorted ascending (true of every arity >= 2 IND
// produced by this module); the check then reduces to a linear
// two-pointer merge over the lexicographic (dep, ref) pair ordering.
func (x IND) IsImpliedBy(that IND) bool {
	if x.Arity() == 0 {
		return true
	}
	if x.Arity() > that.Arity() {
		return false
	}
	i, j := 0, 0
	for i < x.Arity() && j < that.Arity() {
		switch comparePair(x.Dep[i], x.Ref[i], that.Dep[j], that.Ref[j]) {
		case 0:
			i++
			j++
		case 1:
			// that[j] is strictly less than x[i]: advance in "that".
			j++
		default:
			// x[i] is strictly less than that[j]: no future match possible.
			return false
		}
	}
	return i == x.Arity()
}

// comparePair compares two (dep, ref) positions lexicographically:
// -1 if (d1,r1) < (d2,r2), 0 if equal, 1 if (d1,r1) > (d2,r2).
func comparePair(d1, r1, d2, r2 colid.ID) int {
	switch {
	case d1 < d2:
		return -1
	case d1 > d2:
		return 1
	case r1 < r2:
		return -1
	case r1 > r2:
		return 1
	default:
		return 0
	}
}

// Equal reports bit-identical (Dep, Ref) arrays.
func (x IND) Equal(y IND) bool {
	if len(x.Dep) != len(y.Dep) {
		return false
	}
	for i := range x.Dep {
		if x.Dep[i] != y.Dep[i] || x.Ref[i] != y.Ref[i] {
			return false
		}
	}
	return true
}

// Hash returns a content hash over (Dep, Ref), suitable for use as a
// map key surrogate when the arrays themselves aren't comparable
// (slices aren't valid Go map keys).
func (x IND) Hash() uint64 {
	h, err := hashstructure.Hash(struct {
		Dep []colid.ID
		Ref []colid.ID
	}{x.Dep, x.Ref}, nil)
	if err != nil {
		// hashstructure only fails on unsupported field types; Dep/Ref
		// are plain uint32 slices, so this is unreachable in practice.
		panic(fmt.Sprintf("ind: Hash: %v", err))
	}
	return h
}

// Key returns a comparable map key for x, for use in plain Go maps
// where Hash's uint64 collision risk is undesirable.
func (x IND) Key() string {
	var b strings.Builder
	for _, d := range x.Dep {
		fmt.Fprintf(&b, "%d,", d)
	}
	b.WriteByte(';')
	for _, r := range x.Ref {
		fmt.Fprintf(&b, "%d,", r)
	}
	return b.String()
}

// String renders "[d1, ...] ⊆ [r1, ...]" using raw column ids.
func (x IND) String() string {
	return fmt.Sprintf("%s ⊆ %s", formatIDs(x.Dep), formatIDs(x.Ref))
}

func formatIDs(ids []colid.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// NameResolver resolves a column id to a "table.column" display name,
// implemented in terms of a colid.Codec plus a table/column name
// registry (see colid.Registry).
type NameResolver interface {
	ColumnName(id colid.ID) string
}

// Pretty renders x using table/column names resolved through r.
func (x IND) Pretty(r NameResolver) string {
	depNames := make([]string, len(x.Dep))
	refNames := make([]string, len(x.Ref))
	for i, id := range x.Dep {
		depNames[i] = r.ColumnName(id)
	}
	for i, id := range x.Ref {
		refNames[i] = r.ColumnName(id)
	}
	return fmt.Sprintf("[%s] ⊆ [%s]", strings.Join(depNames, ", "), strings.Join(refNames, ", "))
}

// StandardLess implements the standard ordering: first by arity, then
// lexicographically by Dep, then lexicographically by Ref.
func StandardLess(a, b IND) bool {
	if len(a.Dep) != len(b.Dep) {
		return len(a.Dep) < len(b.Dep)
	}
	if c := compareSlices(a.Dep, b.Dep); c != 0 {
		return c < 0
	}
	return compareSlices(a.Ref, b.Ref) < 0
}

// LexicographicLess implements the lexicographic ordering used to
// merge arity-comparable candidates for Apriori generation: compare by
// Dep up to the shorter arity, the shorter arity wins on prefix
// equality, then compare by Ref the same way.
func LexicographicLess(a, b IND) bool {
	if c := compareSlicesPrefix(a.Dep, b.Dep); c != 0 {
		return c < 0
	}
	if len(a.Dep) != len(b.Dep) {
		return len(a.Dep) < len(b.Dep)
	}
	return compareSlicesPrefix(a.Ref, b.Ref) < 0
}

func compareSlices(a, b []colid.ID) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func compareSlicesPrefix(a, b []colid.ID) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// SortByStandard sorts inds in place by StandardLess.
func SortByStandard(inds []IND) {
	sort.Slice(inds, func(i, j int) bool { return StandardLess(inds[i], inds[j]) })
}

// SortByLexicographic sorts inds in place by LexicographicLess.
func SortByLexicographic(inds []IND) {
	sort.Slice(inds, func(i, j int) bool { return LexicographicLess(inds[i], inds[j]) })
}
