package narypipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/indy/internal/cellemit"
	"github.com/dolthub/indy/internal/colid"
	"github.com/dolthub/indy/internal/ind"
	"github.com/dolthub/indy/internal/substrate"
	"github.com/dolthub/indy/internal/tabsource"
)

func setup(t *testing.T) *colid.Registry {
	t.Helper()
	codec, err := colid.NewCodec(16)
	require.NoError(t, err)
	return colid.NewRegistry(codec)
}

func TestRunConfirmsBinaryInclusion(t *testing.T) {
	require := require.New(t)
	reg := setup(t)

	_, rIDs := reg.AddTable("R", []string{"a", "b"})
	_, sIDs := reg.AddTable("S", []string{"x", "y"})
	rTblID := reg.Codec().TableID(rIDs[0])
	sTblID := reg.Codec().TableID(sIDs[0])

	r := &tabsource.MemTable{Relation: "R", Columns: []string{"a", "b"}, Rows: []tabsource.Row{
		{"1", "10"}, {"2", "20"},
	}}
	s := &tabsource.MemTable{Relation: "S", Columns: []string{"x", "y"}, Rows: []tabsource.Row{
		{"1", "10"}, {"2", "20"}, {"3", "30"},
	}}

	candidate := ind.New(rIDs, sIDs) // R[a,b] ⊆ S[x,y]

	var local substrate.Local
	result, err := Run(context.Background(), local, "job", []TableInfo{
		{Table: r, TableID: rTblID},
		{Table: s, TableID: sTblID},
	}, reg.Codec(), []ind.IND{candidate}, cellemit.Policy{NullString: "\x00", SampleRows: -1, MaxColumns: -1})
	require.NoError(err)
	require.Len(result.Inds, 1)
	require.True(result.Inds[0].Equal(candidate))
}

func TestRunRejectsCandidateNotActuallyIncluded(t *testing.T) {
	require := require.New(t)
	reg := setup(t)

	_, rIDs := reg.AddTable("R", []string{"a", "b"})
	_, sIDs := reg.AddTable("S", []string{"x", "y"})
	rTblID := reg.Codec().TableID(rIDs[0])
	sTblID := reg.Codec().TableID(sIDs[0])

	r := &tabsource.MemTable{Relation: "R", Columns: []string{"a", "b"}, Rows: []tabsource.Row{
		{"1", "10"}, {"99", "20"},
	}}
	s := &tabsource.MemTable{Relation: "S", Columns: []string{"x", "y"}, Rows: []tabsource.Row{
		{"1", "10"}, {"2", "20"},
	}}

	candidate := ind.New(rIDs, sIDs)

	var local substrate.Local
	result, err := Run(context.Background(), local, "job", []TableInfo{
		{Table: r, TableID: rTblID},
		{Table: s, TableID: sTblID},
	}, reg.Codec(), []ind.IND{candidate}, cellemit.Policy{NullString: "\x00", SampleRows: -1, MaxColumns: -1})
	require.NoError(err)
	require.Empty(result.Inds)
}

func TestRunRespectsRefPermutation(t *testing.T) {
	require := require.New(t)
	reg := setup(t)

	_, rIDs := reg.AddTable("R", []string{"a", "b"})
	_, sIDs := reg.AddTable("S", []string{"x", "y"})
	rTblID := reg.Codec().TableID(rIDs[0])
	sTblID := reg.Codec().TableID(sIDs[0])

	// R(a,b) pairs a with S.y and b with S.x (swapped), and every row
	// obeys that swapped pairing; the canonical (unswapped) pairing
	// does not hold.
	r := &tabsource.MemTable{Relation: "R", Columns: []string{"a", "b"}, Rows: []tabsource.Row{
		{"10", "1"}, {"20", "2"},
	}}
	s := &tabsource.MemTable{Relation: "S", Columns: []string{"x", "y"}, Rows: []tabsource.Row{
		{"1", "10"}, {"2", "20"},
	}}

	swapped := ind.New(rIDs, []colid.ID{sIDs[1], sIDs[0]}) // a->S.y, b->S.x
	canonical := ind.New(rIDs, sIDs)                       // a->S.x, b->S.y

	var local substrate.Local
	result, err := Run(context.Background(), local, "job", []TableInfo{
		{Table: r, TableID: rTblID},
		{Table: s, TableID: sTblID},
	}, reg.Codec(), []ind.IND{swapped, canonical}, cellemit.Policy{NullString: "\x00", SampleRows: -1, MaxColumns: -1})
	require.NoError(err)
	require.Len(result.Inds, 1)
	require.True(result.Inds[0].Equal(swapped), "only the permutation actually holding in the data should confirm")
}

func TestRunWithNoCandidatesReturnsEmpty(t *testing.T) {
	require := require.New(t)
	reg := setup(t)
	var local substrate.Local
	result, err := Run(context.Background(), local, "job", nil, reg.Codec(), nil, cellemit.Policy{})
	require.NoError(err)
	require.Empty(result.Inds)
}
