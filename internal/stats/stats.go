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

// Package stats holds the three parallel per-arity statistics tables
// named in spec §3: distinctCount and nullCount over column/combination
// refs, and tableWidth over table ids. tableWidth is populated during
// arity 1 and immutable thereafter.
package stats

import "github.com/dolthub/indy/internal/ref"

// Tables is the statistics accumulated for one arity level.
type Tables struct {
	DistinctCount map[ref.Ref]uint64
	NullCount     map[ref.Ref]uint64
	TableWidth    map[uint32]uint32
}

// New returns an empty statistics table.
func New() *Tables {
	return &Tables{
		DistinctCount: make(map[ref.Ref]uint64),
		NullCount:     make(map[ref.Ref]uint64),
		TableWidth:    make(map[uint32]uint32),
	}
}

// IsVoid reports whether r has zero distinct non-null values.
func (t *Tables) IsVoid(r ref.Ref) bool {
	return t.DistinctCount[r] == 0
}

// Merge folds other's counters into t, summing DistinctCount/NullCount
// and taking the max of TableWidth (used when chunked n-ary passes are
// merged back together, per spec §4.4 "Chunking").
func (t *Tables) Merge(other *Tables) {
	for k, v := range other.DistinctCount {
		t.DistinctCount[k] += v
	}
	for k, v := range other.NullCount {
		t.NullCount[k] += v
	}
	for k, v := range other.TableWidth {
		if v > t.TableWidth[k] {
			t.TableWidth[k] = v
		}
	}
}
