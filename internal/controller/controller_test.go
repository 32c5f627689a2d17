package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/indy/internal/config"
	"github.com/dolthub/indy/internal/ind"
	"github.com/dolthub/indy/internal/tabsource"
)

// With the default NumColumnBits=16 and tables registered in the order
// given to Options.Tables, column ids are predictable: the first
// table's columns are 0, 1, ...; the second table's start at 0x10000.
const (
	rA uint32 = 0
	rB uint32 = 1
	sX uint32 = 0x10000
	sY uint32 = 0x10001
)

func TestRunFindsUnaryIndsAcrossTwoTables(t *testing.T) {
	require := require.New(t)

	r := &tabsource.MemTable{Relation: "R", Columns: []string{"a", "b"}, Rows: []tabsource.Row{
		{"1", "10"}, {"2", "20"}, {"3", "30"},
	}}
	s := &tabsource.MemTable{Relation: "S", Columns: []string{"x", "y"}, Rows: []tabsource.Row{
		{"1", "99"}, {"2", "99"}, {"3", "99"}, {"4", "99"},
	}}

	cfg := config.Default()
	cfg.MaxArity = 1

	summary, err := Run(context.Background(), Options{
		Config: cfg,
		Tables: []TableSpec{
			{Relation: "R", Columns: []string{"a", "b"}, Table: r},
			{Relation: "S", Columns: []string{"x", "y"}, Table: s},
		},
	})
	require.NoError(err)
	require.NotEmpty(summary.RunID)

	require.True(hasUnary(summary.Inds, rA, sX), "R.a's values {1,2,3} are a subset of S.x's {1,2,3,4}")
	require.False(hasUnary(summary.Inds, rB, sX), "R.b's values {10,20,30} are not a subset of S.x's {1,2,3,4}")
}

func TestRunOnlyCountIndsStopsAfterArityOne(t *testing.T) {
	require := require.New(t)

	r := &tabsource.MemTable{Relation: "R", Columns: []string{"a"}, Rows: []tabsource.Row{{"1"}, {"2"}}}
	s := &tabsource.MemTable{Relation: "S", Columns: []string{"x"}, Rows: []tabsource.Row{{"1"}, {"2"}, {"3"}}}

	cfg := config.Default()
	cfg.OnlyCountInds = true

	summary, err := Run(context.Background(), Options{
		Config: cfg,
		Tables: []TableSpec{
			{Relation: "R", Columns: []string{"a"}, Table: r},
			{Relation: "S", Columns: []string{"x"}, Table: s},
		},
	})
	require.NoError(err)
	require.Empty(summary.Inds)
	require.Greater(summary.Count, 0)
}

func TestRunBinaryIndGetsReplacedByEquivalenceIAR(t *testing.T) {
	require := require.New(t)

	r := &tabsource.MemTable{Relation: "R", Columns: []string{"a", "b"}, Rows: []tabsource.Row{
		{"1", "10"}, {"2", "20"}, {"3", "30"},
	}}
	s := &tabsource.MemTable{Relation: "S", Columns: []string{"x", "y"}, Rows: []tabsource.Row{
		{"1", "10"}, {"2", "20"}, {"3", "30"}, {"4", "40"},
	}}

	cfg := config.Default()
	cfg.MaxArity = -1
	cfg.NaryRestriction = config.RestrictionNone
	cfg.CandidateGenerator = config.GeneratorApriori

	summary, err := Run(context.Background(), Options{
		Config: cfg,
		Tables: []TableSpec{
			{Relation: "R", Columns: []string{"a", "b"}, Table: r},
			{Relation: "S", Columns: []string{"x", "y"}, Table: s},
		},
	})
	require.NoError(err)

	for _, x := range summary.Inds {
		require.NotEqual(2, x.Arity(), "the arity-2 IND should have been replaced by an IAR, not reported directly")
	}
	require.NotEmpty(summary.IARs)

	// An IAR's RHS is always a unary projection; the arity-2 IND
	// R[a,b] ⊆ S[x,y] is recovered by pairing one of its unary
	// coprojections (the LHS) with the other position (the RHS).
	foundReplacement := false
	for _, iar := range summary.IARs {
		if (iar.LHS.Equal(ind.Unary(rA, sX)) && iar.RHS.Equal(ind.Unary(rB, sY))) ||
			(iar.LHS.Equal(ind.Unary(rB, sY)) && iar.RHS.Equal(ind.Unary(rA, sX))) {
			foundReplacement = true
		}
	}
	require.True(foundReplacement, "expected an IAR recovering the arity-2 IND")
}

func TestRunVoidDepColumnProducesZeroAryIAR(t *testing.T) {
	require := require.New(t)

	r := &tabsource.MemTable{Relation: "R", Columns: []string{"a", "b"}, Rows: []tabsource.Row{
		{"\x00", "1"}, {"\x00", "2"},
	}}
	s := &tabsource.MemTable{Relation: "S", Columns: []string{"x"}, Rows: []tabsource.Row{{"7"}}}

	cfg := config.Default()
	cfg.MaxArity = 1
	cfg.NullString = "\x00"

	summary, err := Run(context.Background(), Options{
		Config: cfg,
		Tables: []TableSpec{
			{Relation: "R", Columns: []string{"a", "b"}, Table: r},
			{Relation: "S", Columns: []string{"x"}, Table: s},
		},
	})
	require.NoError(err)

	require.False(hasUnary(summary.Inds, rA, sX), "R.a's void-column IND should have been replaced by an IAR, not reported directly")

	foundVoidIAR := false
	for _, iar := range summary.IARs {
		if iar.LHS.Arity() == 0 && iar.RHS.Dep[0] == rA && iar.RHS.Ref[0] == sX {
			foundVoidIAR = true
		}
	}
	require.True(foundVoidIAR, "expected a 0-ary IAR for void column R.a's inclusion in S.x")
}

func hasUnary(inds []ind.IND, dep, ref uint32) bool {
	for _, x := range inds {
		if x.Arity() == 1 && x.Dep[0] == dep && x.Ref[0] == ref {
			return true
		}
	}
	return false
}
