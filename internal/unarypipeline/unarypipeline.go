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

// Package unarypipeline implements the unary IND pipeline (C5): group
// emitted cells by value, derive an attribute set per group, reduce by
// intersection to the per-column inclusion set, and accumulate the
// null/distinct/table-width statistics alongside.
package unarypipeline

import (
	"context"

	"github.com/dolthub/indy/internal/attrset"
	"github.com/dolthub/indy/internal/cellemit"
	"github.com/dolthub/indy/internal/ind"
	"github.com/dolthub/indy/internal/log"
	"github.com/dolthub/indy/internal/ref"
	"github.com/dolthub/indy/internal/stats"
	"github.com/dolthub/indy/internal/substrate"
	"github.com/dolthub/indy/internal/tabsource"
)

// TableInfo pairs a registered table with the column ids already
// assigned to it by the colid registry.
type TableInfo struct {
	Table     tabsource.Table
	TableID   uint32
	ColumnIDs []uint32
}

// Result is the unary pass's output: every discovered unary IND, plus
// the statistics accumulated while finding them.
type Result struct {
	Inds  []ind.IND
	Stats *stats.Tables
}

const (
	accNullCount  = "nullCount"
	accTableWidth = "tableWidth"
)

// Run executes the unary pipeline over tables using exec.
func Run(ctx context.Context, exec substrate.Executor, jobName string, tables []TableInfo, policy cellemit.Policy) (*Result, error) {
	var allCells []cellemit.Cell
	var universeRefs []ref.Ref

	result, err := exec.Execute(ctx, jobName, func(j *substrate.Job) error {
		for _, t := range tables {
			colRefs := make([]ref.Ref, len(t.ColumnIDs))
			for i, id := range t.ColumnIDs {
				colRefs[i] = ref.Col(id)
			}

			cells, width, err := cellemit.EmitUnaryCells(t.Table, colRefs, policy, func(r ref.Ref) {
				substrate.Broadcast(j, accNullCount, []ref.Ref{r}, func(r ref.Ref, acc *substrate.CounterMap) {
					acc.Add(r.ID, 1)
				})
			})
			if err != nil {
				return err
			}
			allCells = append(allCells, cells...)
			universeRefs = append(universeRefs, colRefs[:width]...)

			substrate.Broadcast(j, accTableWidth, []uint32{uint32(width)}, func(w uint32, acc *substrate.CounterMap) {
				acc.Add(t.TableID, uint64(w))
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	st := stats.New()
	if nullCounts, ok := result.AccumulatorResult(accNullCount); ok {
		for k, v := range nullCounts {
			st.NullCount[ref.Col(k)] = v
		}
	}
	if widths, ok := result.AccumulatorResult(accTableWidth); ok {
		for k, v := range widths {
			st.TableWidth[k] = uint32(v)
		}
	}

	universe := attrset.New(universeRefs...)

	groups := substrate.GroupByCollect(allCells, func(c cellemit.Cell) string { return c.Value })

	// inc(r) starts as "everything else", the weakest possible
	// constraint, and is narrowed by every value group that actually
	// distinguishes r from some other ref. A ref whose every occurrence
	// falls in a universe-wide group (see below) never gets narrowed
	// at all, which correctly leaves it included in everything, not in
	// nothing.
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
			// Intersecting with "everything" never shrinks any future
			// result, so this group carries no information. Skip it
			// rather than materialise the quadratic per-member removal.
			continue
		}

		for _, c := range set {
			incMap[c] = attrset.Intersect(incMap[c], set.Without(c))
		}
	}

	var inds []ind.IND
	for _, r := range universe {
		inc := incMap[r]
		inc = attrset.Union(inc, attrset.New(r)) // trivial self-inclusion always holds
		for _, other := range inc {
			inds = append(inds, ind.Unary(r.ID, other.ID))
		}
	}

	log.Debugf("unary pipeline: %d cells, %d value groups, %d inds", len(allCells), len(groups), len(inds))

	return &Result{Inds: inds, Stats: st}, nil
}
