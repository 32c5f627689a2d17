package unarypipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/indy/internal/cellemit"
	"github.com/dolthub/indy/internal/colid"
	"github.com/dolthub/indy/internal/ref"
	"github.com/dolthub/indy/internal/substrate"
	"github.com/dolthub/indy/internal/tabsource"
)

func setup(t *testing.T) *colid.Registry {
	t.Helper()
	codec, err := colid.NewCodec(16)
	require.NoError(t, err)
	return colid.NewRegistry(codec)
}

func tableInfo(reg *colid.Registry, relation string, columns []string, rows []tabsource.Row) TableInfo {
	_, ids := reg.AddTable(relation, columns)
	tblID := reg.Codec().TableID(ids[0])
	return TableInfo{
		Table:     &tabsource.MemTable{Relation: relation, Columns: columns, Rows: rows},
		TableID:   tblID,
		ColumnIDs: ids,
	}
}

func TestUnaryInclusionTwoTables(t *testing.T) {
	require := require.New(t)
	reg := setup(t)

	r := tableInfo(reg, "R", []string{"a", "b"}, []tabsource.Row{
		{"1", "10"}, {"2", "20"}, {"3", "30"},
	})
	s := tableInfo(reg, "S", []string{"x", "y"}, []tabsource.Row{
		{"1", "99"}, {"2", "99"}, {"3", "99"}, {"4", "99"},
	})

	var local substrate.Local
	result, err := Run(context.Background(), local, "job", []TableInfo{r, s}, cellemit.Policy{
		NullString: "\x00", SampleRows: -1, MaxColumns: -1,
	})
	require.NoError(err)

	raID := r.ColumnIDs[0]
	sxID := s.ColumnIDs[0]

	found := map[string]bool{}
	for _, x := range result.Inds {
		found[reg.ColumnName(x.Dep[0])+"->"+reg.ColumnName(x.Ref[0])] = true
	}
	require.True(found["R.a->S.x"], "expected R.a included in S.x, got %v", found)
	require.False(found["R.b->S.x"], "R.b must not be included in S.x")

	require.Equal(uint64(3), result.Stats.DistinctCount[ref.Col(raID)])
	require.Equal(uint64(4), result.Stats.DistinctCount[ref.Col(sxID)])
}

func TestVoidDepColumnStillSurfacesAnInd(t *testing.T) {
	require := require.New(t)
	reg := setup(t)

	r := tableInfo(reg, "R", []string{"a", "b"}, []tabsource.Row{
		{"\x00", "1"}, {"\x00", "2"},
	})
	s := tableInfo(reg, "S", []string{"x"}, []tabsource.Row{{"7"}})

	var local substrate.Local
	result, err := Run(context.Background(), local, "job", []TableInfo{r, s}, cellemit.Policy{
		DropNulls: true, NullString: "\x00", SampleRows: -1, MaxColumns: -1,
	})
	require.NoError(err)

	raID := r.ColumnIDs[0]
	sxID := s.ColumnIDs[0]
	require.Equal(uint64(0), result.Stats.DistinctCount[ref.Col(raID)])

	// R.a has no distinct non-null values, so it is included in every
	// other column per §4.3's void-column rule; C5 must still hand this
	// IND to C9, which is the stage that turns it into the required
	// 0-ary IAR rather than reporting it directly.
	found := false
	for _, x := range result.Inds {
		if x.Dep[0] == raID && x.Ref[0] == sxID {
			found = true
		}
	}
	require.True(found, "void dep column R.a must still surface R.a->S.x for C9 to convert into an IAR")
}

func TestTrivialSelfIND(t *testing.T) {
	require := require.New(t)
	reg := setup(t)

	r := tableInfo(reg, "R", []string{"a"}, []tabsource.Row{{"1"}, {"2"}, {"3"}})

	var local substrate.Local
	result, err := Run(context.Background(), local, "job", []TableInfo{r}, cellemit.Policy{
		NullString: "\x00", SampleRows: -1, MaxColumns: -1,
	})
	require.NoError(err)

	require.Len(result.Inds, 1)
	require.True(result.Inds[0].IsTrivial())
}
