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

// Package naryemit implements the n-ary cell emitter (C7): for every
// row of a table and every indexed column combination whose columns
// all belong to that table, emit one (tupleValue, combinationRef)
// cell, sharing the null/sampling policy with the unary emitter (C4).
package naryemit

import (
	"context"
	"io"

	"github.com/dolthub/indy/internal/cellemit"
	"github.com/dolthub/indy/internal/colid"
	"github.com/dolthub/indy/internal/combindex"
	"github.com/dolthub/indy/internal/errkind"
	"github.com/dolthub/indy/internal/ref"
	"github.com/dolthub/indy/internal/substrate"
	"github.com/dolthub/indy/internal/tabsource"
)

// TableInfo pairs a table with the table id its columns were registered
// under, so combinations can be matched to the table that can supply
// their values.
type TableInfo struct {
	Table   tabsource.Table
	TableID uint32
}

// Result is the n-ary emitter's output.
type Result struct {
	// Cells holds one entry per (row, combination) pair that survived
	// the null/sampling policy.
	Cells []cellemit.Cell
	// NullCounts counts, per combination id, how many tuples had at
	// least one null component.
	NullCounts map[uint32]uint64
}

const accNullCount = "naryNullCount"

// Run emits combination cells for every table in tables, restricted to
// the combinations ix already holds (built by C8/C6 for this arity).
func Run(ctx context.Context, exec substrate.Executor, jobName string, tables []TableInfo, codec *colid.Codec, ix *combindex.Indexer, policy cellemit.Policy) (*Result, error) {
	combosByTable := groupCombosByTable(codec, ix)

	var allCells []cellemit.Cell
	result, err := exec.Execute(ctx, jobName, func(j *substrate.Job) error {
		for _, t := range tables {
			combos := combosByTable[t.TableID]
			if len(combos) == 0 {
				continue
			}
			cells, err := emitTableCells(t.Table, combos, policy, func(r ref.Ref) {
				substrate.Broadcast(j, accNullCount, []ref.Ref{r}, func(r ref.Ref, acc *substrate.CounterMap) {
					acc.Add(r.ID, 1)
				})
			})
			if err != nil {
				return err
			}
			allCells = append(allCells, cells...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	nullCounts := map[uint32]uint64{}
	if counts, ok := result.AccumulatorResult(accNullCount); ok {
		nullCounts = counts
	}
	return &Result{Cells: allCells, NullCounts: nullCounts}, nil
}

// combo is one indexed combination restricted to a single table: its
// columns resolved to the row positions that table stores them at.
type combo struct {
	id      uint32
	indices []int
}

func groupCombosByTable(codec *colid.Codec, ix *combindex.Indexer) map[uint32][]combo {
	out := map[uint32][]combo{}
	for _, id := range ix.IDs() {
		cols := ix.Columns(id)
		if len(cols) == 0 {
			continue
		}
		tableID := codec.TableID(cols[0])
		indices := make([]int, len(cols))
		sameTable := true
		for i, c := range cols {
			if codec.TableID(c) != tableID {
				sameTable = false
				break
			}
			indices[i] = codec.ColumnIndex(c)
		}
		if !sameTable {
			// A combination spanning more than one table can never be
			// satisfied by a single row; no table will ever emit it.
			continue
		}
		out[tableID] = append(out[tableID], combo{id: id, indices: indices})
	}
	return out
}

func emitTableCells(table tabsource.Table, combos []combo, p cellemit.Policy, onNull cellemit.NullAccumulator) ([]cellemit.Cell, error) {
	it, err := table.GenerateNewCopy()
	if err != nil {
		return nil, errkind.Input.New(err.Error())
	}
	defer it.Close()

	var cells []cellemit.Cell
	values := make([]string, 0, 8)
	schemaWidth := len(table.ColumnNames())
	for rowIdx := 0; p.SampleRows < 0 || rowIdx < p.SampleRows; rowIdx++ {
		row, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errkind.Input.New(err.Error())
		}

		if len(row) != schemaWidth && p.DropDifferingLines {
			continue
		}

		for _, c := range combos {
			values = values[:0]
			anyNull := false
			skip := false
			for _, idx := range c.indices {
				var v string
				if idx >= len(row) {
					if p.DropDifferingLines {
						skip = true
						break
					}
					v = p.NullString
				} else {
					v = row[idx]
				}
				if cellemit.IsNull(v, p) {
					anyNull = true
				}
				values = append(values, v)
			}
			if skip {
				continue
			}

			comboRef := ref.Comb(c.id)
			if anyNull {
				if onNull != nil {
					onNull(comboRef)
				}
				if p.DropNulls {
					continue
				}
				cells = append(cells, cellemit.Cell{Value: cellemit.NullSentinel, Ref: comboRef})
				continue
			}
			cells = append(cells, cellemit.Cell{Value: cellemit.JoinTuple(values), Ref: comboRef})
		}
	}
	return cells, nil
}
