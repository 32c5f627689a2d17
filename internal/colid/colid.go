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

// Package colid implements the column-id codec (C1): packing a
// (tableId, columnIndex) pair into a single 32-bit id using a
// configurable split between table bits and column bits.
package colid

import "fmt"

// ID is a packed column identifier. The low NumColumnBits bits of a
// Codec encode the column index within a table; the high bits encode
// the table id.
type ID = uint32

// Codec packs and unpacks column ids given a fixed column-bit width.
// Its column-bit width never changes after construction, but NextTable
// advances an internal table counter, so NextTable must not be called
// concurrently with other uses of the same Codec.
type Codec struct {
	numColumnBits uint
	mask          uint32
	tableStride   uint32
	nextTableBase uint32
}

// NewCodec builds a Codec for numColumnBits in [1, 31].
func NewCodec(numColumnBits int) (*Codec, error) {
	if numColumnBits < 1 || numColumnBits > 31 {
		return nil, fmt.Errorf("colid: numColumnBits must be in [1, 31], got %d", numColumnBits)
	}
	mask := uint32(1)<<uint(numColumnBits) - 1
	return &Codec{
		numColumnBits: uint(numColumnBits),
		mask:          mask,
		tableStride:   mask + 1,
	}, nil
}

// ColumnMask returns (1 << numColumnBits) - 1.
func (c *Codec) ColumnMask() uint32 { return c.mask }

// NextTable assigns a new table and returns its table id (mask,
// mask+tableStride, mask+2*tableStride, ...) and its base column id
// (0, tableStride, 2*tableStride, ...), so that the table's "marker"
// id (base | mask) and its column-0 id (base) are both derivable
// without a side table.
func (c *Codec) NextTable() (tableID uint32, base uint32) {
	base = c.nextTableBase
	c.nextTableBase += c.tableStride
	return base | c.mask, base
}

// ColumnID returns the id of column i (0-based) of the table whose
// base column id (as returned by NextTable) is base.
func (c *Codec) ColumnID(base uint32, i int) ID {
	return base + uint32(i)
}

// Decode splits a column id back into its table id, table base, and
// column index.
func (c *Codec) Decode(id ID) (tableID, base uint32, columnIndex int) {
	base = id &^ c.mask
	tableID = base | c.mask
	columnIndex = int(id - base)
	return
}

// TableID returns just the table id component of a column id.
func (c *Codec) TableID(id ID) uint32 {
	return (id &^ c.mask) | c.mask
}

// ColumnIndex returns just the column-index component of a column id.
func (c *Codec) ColumnIndex(id ID) int {
	base := id &^ c.mask
	return int(id - base)
}
