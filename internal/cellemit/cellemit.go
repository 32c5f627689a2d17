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

// Package cellemit is the cell emitter (C4): turns table rows into
// (value, ref) pairs, sharing one null/sampling/column-limit policy
// between the unary pipeline (C5, one ref per column) and the n-ary
// pipeline (C7, one ref per column combination).
package cellemit

import (
	"io"
	"strconv"
	"strings"

	"github.com/dolthub/indy/internal/errkind"
	"github.com/dolthub/indy/internal/ref"
	"github.com/dolthub/indy/internal/tabsource"
)

// NullSentinel is the textual value emitted for a null cell when
// Policy.DropNulls is false. Every null cell of every column shares
// this sentinel, so per spec §4.3 they group into one attribute set
// spanning every column that contains a null, under whatever semantics
// the caller's null-handling configuration implies.
const NullSentinel = "\x00NULL\x00"

// Policy is the emission policy shared by C4 and C7.
type Policy struct {
	// DropNulls discards null cells instead of emitting NullSentinel.
	DropNulls bool
	// NullString is the textual value that marks a cell as null. A cell
	// is null exactly when it equals NullString; an empty cell counts as
	// null only when NullString is itself empty.
	NullString string
	// MaxColumns caps the number of columns read per table; -1 = no cap.
	MaxColumns int
	// SampleRows caps the number of rows read per table; -1 = all rows.
	SampleRows int
	// DropDifferingLines silently skips a row whose field count
	// doesn't match the declared schema, instead of emitting whatever
	// prefix can be matched positionally.
	DropDifferingLines bool
}

// IsNull reports whether v should be treated as a null cell under p.
func IsNull(v string, p Policy) bool {
	return v == p.NullString
}

// Cell is one emitted (value, ref) pair.
type Cell struct {
	Value string
	Ref   ref.Ref
}

// EffectiveColumnCount applies MaxColumns to n.
func (p Policy) EffectiveColumnCount(n int) int {
	if p.MaxColumns >= 0 && p.MaxColumns < n {
		return p.MaxColumns
	}
	return n
}

// NullAccumulator receives one call, naming the cell's ref, per null
// cell observed, so the caller can broadcast it into a stats.Tables via
// whatever accumulator the execution substrate provides.
type NullAccumulator func(r ref.Ref)

// EmitUnaryCells reads every (sampled) row of table and emits one Cell
// per non-skipped (row, column) position, using colIDs[i] as the ref
// for column i. It reports the effective column count actually used
// (after MaxColumns), for the caller to record as tableWidth.
func EmitUnaryCells(table tabsource.Table, colIDs []ref.Ref, p Policy, onNull NullAccumulator) ([]Cell, int, error) {
	width := p.EffectiveColumnCount(len(colIDs))
	cols := colIDs[:width]

	it, err := table.GenerateNewCopy()
	if err != nil {
		return nil, 0, errkind.Input.New(err.Error())
	}
	defer it.Close()

	var cells []Cell
	for rowIdx := 0; p.SampleRows < 0 || rowIdx < p.SampleRows; rowIdx++ {
		row, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, errkind.Input.New(err.Error())
		}

		if len(row) != len(colIDs) && p.DropDifferingLines {
			continue
		}

		n := width
		if len(row) < n {
			n = len(row)
		}
		for i := 0; i < n; i++ {
			v := row[i]
			r := cols[i]
			if IsNull(v, p) {
				if onNull != nil {
					onNull(r)
				}
				if p.DropNulls {
					continue
				}
				cells = append(cells, Cell{Value: NullSentinel, Ref: r})
				continue
			}
			cells = append(cells, Cell{Value: v, Ref: r})
		}
	}
	return cells, width, nil
}

// JoinTuple renders a combination's per-row values into one string key
// for the n-ary emitter (C7), unambiguous regardless of value content
// via a length-prefixed encoding.
func JoinTuple(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}
