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

// Package narypipeline runs the n-ary IND validation pass for one
// arity k+1: build the column-combination index (C6) from a candidate
// set, emit combination cells (C7), reduce them exactly as the unary
// pipeline does (§4.3) but keyed by combination ref, and confirm each
// candidate whose dep combination's inclusion set contains its ref
// combination: spec.md's "explicit membership check against C_{k+1}"
// that filters pseudo-INDs out of the reduction.
package narypipeline

import (
	"context"

	"github.com/dolthub/indy/internal/attrset"
	"github.com/dolthub/indy/internal/cellemit"
	"github.com/dolthub/indy/internal/colid"
	"github.com/dolthub/indy/internal/combindex"
	"github.com/dolthub/indy/internal/ind"
	"github.com/dolthub/indy/internal/log"
	"github.com/dolthub/indy/internal/naryemit"
	"github.com/dolthub/indy/internal/ref"
	"github.com/dolthub/indy/internal/stats"
	"github.com/dolthub/indy/internal/substrate"
	"github.com/dolthub/indy/internal/tabsource"
)

// TableInfo pairs a table with the table id its columns were registered
// under.
type TableInfo struct {
	Table   tabsource.Table
	TableID uint32
}

// Result is the n-ary pass's output: the subset of candidates confirmed
// as real INDs, plus the combination-level statistics gathered while
// confirming them.
type Result struct {
	Inds  []ind.IND
	Stats *stats.Tables
}

// Run validates candidates (the arity-(k+1) candidate set C8 produced)
// against tables, using codec to locate a column's owning table.
func Run(ctx context.Context, exec substrate.Executor, jobName string, tables []TableInfo, codec *colid.Codec, candidates []ind.IND, policy cellemit.Policy) (*Result, error) {
	if len(candidates) == 0 {
		return &Result{Stats: stats.New()}, nil
	}

	ix, pairs := combindex.IndexCandidates(candidates)

	naryTables := make([]naryemit.TableInfo, len(tables))
	for i, t := range tables {
		naryTables[i] = naryemit.TableInfo{Table: t.Table, TableID: t.TableID}
	}

	emitted, err := naryemit.Run(ctx, exec, jobName, naryTables, codec, ix, policy)
	if err != nil {
		return nil, err
	}

	st := stats.New()
	for id, n := range emitted.NullCounts {
		st.NullCount[ref.Comb(id)] = n
	}

	universeRefs := make([]ref.Ref, 0, ix.Len())
	for _, id := range ix.IDs() {
		universeRefs = append(universeRefs, ref.Comb(id))
	}
	universe := attrset.New(universeRefs...)

	groups := substrate.GroupByCollect(emitted.Cells, func(c cellemit.Cell) string { return c.Value })

	// Seed every combination's inclusion set at "everything else" so a
	// combination whose every occurrence falls in a universe-wide group
	// (see below) ends up included in everything rather than nothing.
	incMap := make(map[ref.Ref]attrset.Set, len(universe))
	for _, r := range universe {
		incMap[r] = universe.Without(r)
	}

	for value, groupCells := range groups {
		refs := make([]ref.Ref, len(groupCells))
		for i, c := range groupCells {
			refs[i] = c.Ref
		}
		set := attrset.New(refs...)

		if value != cellemit.NullSentinel {
			for _, r := range set {
				st.DistinctCount[r]++
			}
		}

		if attrset.IsUniverse(set, universe) {
			continue
		}

		for _, c := range set {
			incMap[c] = attrset.Intersect(incMap[c], set.Without(c))
		}
	}

	var confirmed []ind.IND
	for i, c := range candidates {
		pair := pairs[i]
		if pair.Dep == pair.Ref {
			confirmed = append(confirmed, c) // trivial: a combination always includes itself
			continue
		}
		if incMap[pair.Dep].Contains(pair.Ref) {
			confirmed = append(confirmed, c)
		}
	}

	log.Debugf("n-ary pipeline: %d combinations, %d cells, %d/%d candidates confirmed",
		ix.Len(), len(emitted.Cells), len(confirmed), len(candidates))

	return &Result{Inds: confirmed, Stats: st}, nil
}
