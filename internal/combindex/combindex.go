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

// Package combindex implements the column-combination indexer (C6): a
// mapping from the column sequences used by arity-(k+1) IND candidates
// to 32-bit combination ids, each a hash of its sequence (see below).
//
// Combination identity is order-sensitive, not merely set-sensitive.
// spec.md §4.4 describes extracting "sorted column sequences" for both
// sides of a candidate, but a candidate's ref side is in general an
// arbitrary permutation positionally paired to its (sorted) dep side,
// so collapsing both to one canonical sorted order would conflate
// distinct pairings that share a column set and leave the per-candidate
// dep[i]/ref[i] correspondence unrecoverable at validation time. Indexing
// the exact sequence each side actually presents keeps every
// combination's row-tuple formed in the order its owning candidate
// needs; see DESIGN.md.
//
// A combination's id is a deterministic hash of its exact sequence
// rather than an arbitrary per-instance counter, so any later pass (C9's
// augmentation rules, in particular) can recompute the same ref.Ref for
// a sequence it already knows, e.g. a lower-arity IND's ref side, by
// calling ComboRef directly, without needing the Indexer instance that
// originally validated it to still be alive. spec.md §4.6 phrases this
// as comparing statistics keyed by "sorted(ref(ind))"; here that key is
// ComboRef(ind.Ref), consistent with the order-sensitive identity above.
package combindex

import (
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	"github.com/dolthub/indy/internal/ind"
	"github.com/dolthub/indy/internal/ref"
)

// Indexer tracks every distinct column sequence it is asked to index, so
// callers can later enumerate the combinations seen (IDs, Columns, Len).
// Combination ids are drawn from their own namespace (ref.Combination),
// disjoint from plain column ids per spec.md's DESIGN NOTES, so no
// bit-packing trick is needed to keep them apart.
type Indexer struct {
	mu      sync.Mutex
	columns map[uint32][]uint32
}

// New returns an empty Indexer.
func New() *Indexer {
	return &Indexer{columns: make(map[uint32][]uint32)}
}

// ComboRef computes the combination ref for the exact sequence columns,
// independent of any Indexer instance. Two calls with the same sequence
// (same columns, same order) always return the same ref.
func ComboRef(columns []uint32) ref.Ref {
	return ref.Comb(contentID(keyOf(columns)))
}

// Index returns the combination ref for the exact sequence columns and
// records it so it later appears in IDs/Columns/Len.
func (ix *Indexer) Index(columns []uint32) ref.Ref {
	seq := append([]uint32(nil), columns...)
	r := ComboRef(seq)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.columns[r.ID]; !ok {
		ix.columns[r.ID] = seq
	}
	return r
}

func contentID(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}

// Columns returns the exact column sequence for a previously-indexed
// combination id, in the order it was first indexed.
func (ix *Indexer) Columns(id uint32) []uint32 {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.columns[id]
}

// Len reports how many distinct combinations have been indexed.
func (ix *Indexer) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.columns)
}

// IDs returns every combination id indexed so far, in no particular
// order.
func (ix *Indexer) IDs() []uint32 {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ids := make([]uint32, 0, len(ix.columns))
	for id := range ix.columns {
		ids = append(ids, id)
	}
	return ids
}

func keyOf(seq []uint32) string {
	var b strings.Builder
	for _, c := range seq {
		b.WriteString(strconv.FormatUint(uint64(c), 10))
		b.WriteByte(',')
	}
	return b.String()
}

// IndexCandidates indexes both sides of every candidate IND, returning
// the Indexer plus, for each candidate, the (dep ref, ref ref) pair of
// combination refs naming its two sides. This is step 1 of C6's
// construction from the arity-(k+1) candidate set.
func IndexCandidates(candidates []ind.IND) (*Indexer, map[int]DepRefPair) {
	ix := New()
	pairs := make(map[int]DepRefPair, len(candidates))
	for i, c := range candidates {
		depRef := ix.Index(c.Dep)
		refRef := ix.Index(c.Ref)
		pairs[i] = DepRefPair{Dep: depRef, Ref: refRef}
	}
	return ix, pairs
}

// DepRefPair names a candidate's two sides as combination refs.
type DepRefPair struct {
	Dep ref.Ref
	Ref ref.Ref
}
