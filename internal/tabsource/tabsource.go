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

// Package tabsource is the §6 input-iteration interface: each table
// is offered as a restartable row iterator plus its relation name and
// ordered column-name list. CSV parsing and record-source iteration
// are explicitly out of scope for the core (spec §1); this package
// only defines the contract the core depends on, plus a reference
// CSV-backed implementation for the CLI and a trivial in-memory one
// for tests.
package tabsource

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/dolthub/indy/internal/errkind"
)

// Row is one relation row, as ordered textual field values. Typed
// values are expected to already be normalised to their textual form
// upstream.
type Row []string

// RowIterator yields the rows of one pass over a table.
type RowIterator interface {
	// Next returns the next row, or io.EOF once exhausted.
	Next() (Row, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Table is a restartable relational input.
type Table interface {
	// RelationName is the table's display name, e.g. for IND
	// pretty-printing.
	RelationName() string
	// ColumnNames lists the table's columns in positional order.
	ColumnNames() []string
	// GenerateNewCopy returns a fresh iterator over the table's rows,
	// independent of any previously-returned iterator.
	GenerateNewCopy() (RowIterator, error)
}

// CSVConfig holds the CSV controls named in spec §6.
type CSVConfig struct {
	FieldSeparator rune
	// QuoteChar is carried but not consulted by CSVTable: encoding/csv
	// always quotes with '"'.
	QuoteChar               rune
	UseStrictQuotes         bool
	IgnoreLeadingWhiteSpace bool
}

// CSVTable is the reference CSV-backed Table implementation. It reads
// the whole file on every GenerateNewCopy, which is adequate for the
// batch, single-pass-per-arity usage this engine makes of it.
type CSVTable struct {
	relation string
	path     string
	columns  []string
	cfg      CSVConfig
}

// NewCSVTable builds a CSVTable whose first row is read as the header
// (the column-name list) and whose path is re-opened on every
// GenerateNewCopy.
func NewCSVTable(relation, path string, cfg CSVConfig) (*CSVTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errkind.Input.New("opening " + path + ": " + err.Error())
	}
	defer f.Close()

	r := newCSVReader(f, cfg)
	header, err := r.Read()
	if err != nil {
		return nil, errkind.Input.New("reading header of " + path + ": " + err.Error())
	}

	return &CSVTable{relation: relation, path: path, columns: header, cfg: cfg}, nil
}

func newCSVReader(r io.Reader, cfg CSVConfig) *csv.Reader {
	cr := csv.NewReader(r)
	if cfg.FieldSeparator != 0 {
		cr.Comma = cfg.FieldSeparator
	}
	cr.LazyQuotes = !cfg.UseStrictQuotes
	cr.TrimLeadingSpace = cfg.IgnoreLeadingWhiteSpace
	cr.FieldsPerRecord = -1 // rows of differing width are handled by the emitter, not rejected here
	return cr
}

func (t *CSVTable) RelationName() string  { return t.relation }
func (t *CSVTable) ColumnNames() []string { return t.columns }

// GenerateNewCopy reopens the underlying file and skips the header row.
func (t *CSVTable) GenerateNewCopy() (RowIterator, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, errkind.Input.New("reopening " + t.path + ": " + err.Error())
	}
	r := newCSVReader(f, t.cfg)
	if _, err := r.Read(); err != nil {
		f.Close()
		return nil, errkind.Input.New("re-reading header of " + t.path + ": " + err.Error())
	}
	return &csvRowIterator{f: f, r: r}, nil
}

type csvRowIterator struct {
	f *os.File
	r *csv.Reader
}

func (it *csvRowIterator) Next() (Row, error) {
	rec, err := it.r.Read()
	if err != nil {
		return nil, err // surfaces io.EOF verbatim
	}
	return Row(rec), nil
}

func (it *csvRowIterator) Close() error {
	return it.f.Close()
}

// MemTable is an in-memory Table, used by tests and by callers that
// already have their data in slices.
type MemTable struct {
	Relation string
	Columns  []string
	Rows     []Row
}

func (t *MemTable) RelationName() string  { return t.Relation }
func (t *MemTable) ColumnNames() []string { return t.Columns }

func (t *MemTable) GenerateNewCopy() (RowIterator, error) {
	return &memRowIterator{rows: t.Rows}, nil
}

type memRowIterator struct {
	rows []Row
	pos  int
}

func (it *memRowIterator) Next() (Row, error) {
	if it.pos >= len(it.rows) {
		return nil, io.EOF
	}
	r := it.rows[it.pos]
	it.pos++
	return r, nil
}

func (it *memRowIterator) Close() error { return nil }
