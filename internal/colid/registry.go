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

package colid

import "fmt"

// Registry binds a Codec to the table/column names of every table
// indexed so far, and resolves ids back to "relation.column" display
// names. It is the C2 NameResolver used for IND pretty-printing.
type Registry struct {
	codec  *Codec
	tables []tableEntry
}

type tableEntry struct {
	base     uint32
	relation string
	columns  []string
}

// NewRegistry builds an empty Registry over codec.
func NewRegistry(codec *Codec) *Registry {
	return &Registry{codec: codec}
}

// Codec returns the underlying column-id codec.
func (r *Registry) Codec() *Codec { return r.codec }

// AddTable assigns column ids to relation's columns and returns the
// base column id (see Codec.NextTable), along with the full ordered
// list of column ids.
func (r *Registry) AddTable(relation string, columns []string) (base uint32, ids []ID) {
	_, base = r.codec.NextTable()
	ids = make([]ID, len(columns))
	for i := range columns {
		ids[i] = r.codec.ColumnID(base, i)
	}
	r.tables = append(r.tables, tableEntry{base: base, relation: relation, columns: columns})
	return base, ids
}

// ColumnName resolves id to "relation.column", or a synthetic
// placeholder if the id isn't known to this registry (e.g. a stale id
// from a previous run).
func (r *Registry) ColumnName(id ID) string {
	base := id &^ r.codec.ColumnMask()
	idx := int(id - base)
	for _, t := range r.tables {
		if t.base == base {
			if idx >= 0 && idx < len(t.columns) {
				return t.relation + "." + t.columns[idx]
			}
			return fmt.Sprintf("%s.#%d", t.relation, idx)
		}
	}
	return fmt.Sprintf("col(%d)", id)
}

// TableWidth returns the number of columns registered for the table
// whose base column id is base, or 0 if unknown.
func (r *Registry) TableWidth(base uint32) int {
	for _, t := range r.tables {
		if t.base == base {
			return len(t.columns)
		}
	}
	return 0
}
