package candidate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/indy/internal/config"
	"github.com/dolthub/indy/internal/ind"
	"github.com/dolthub/indy/internal/ref"
	"github.com/dolthub/indy/internal/stats"
)

func TestGenerateMergesSiblingsAndKeepsBothPermutations(t *testing.T) {
	require := require.New(t)

	ik := []ind.IND{
		ind.Unary(1, 10),
		ind.Unary(2, 20),
		ind.Unary(1, 20),
		ind.Unary(2, 10),
	}

	st := stats.New()
	out := Generate(ik, Options{Restriction: config.RestrictionNone}, st)

	require.Len(out, 2)
	found := map[string]bool{}
	for _, c := range out {
		found[c.Key()] = true
		require.Equal(2, c.Arity())
		require.Equal([]uint32{1, 2}, c.Dep)
	}
	require.True(found[ind.New([]uint32{1, 2}, []uint32{10, 20}).Key()])
	require.True(found[ind.New([]uint32{1, 2}, []uint32{20, 10}).Key()])
}

func TestGenerateRejectsCandidateFailingClosure(t *testing.T) {
	require := require.New(t)

	// At arity 1->2 every merge's two coprojections are trivially its
	// own two parents, so the closure check only becomes a real
	// constraint from arity 2 onward: merging these two arity-2
	// siblings (sharing dep[0]=1, ref[0]=10) yields a third
	// coprojection, dep=[2,3]⊆ref=[20,30], that is not itself a known
	// arity-2 IND.
	ik := []ind.IND{
		ind.New([]uint32{1, 2}, []uint32{10, 20}),
		ind.New([]uint32{1, 3}, []uint32{10, 30}),
	}
	st := stats.New()
	out := Generate(ik, Options{Restriction: config.RestrictionNone}, st)
	require.Empty(out, "dep=[2,3]⊆ref=[20,30] is not a known arity-2 IND")

	ik = append(ik, ind.New([]uint32{2, 3}, []uint32{20, 30}))
	out = Generate(ik, Options{Restriction: config.RestrictionNone}, st)
	require.Len(out, 1, "with the missing coprojection present, closure holds")
	require.True(out[0].Equal(ind.New([]uint32{1, 2, 3}, []uint32{10, 20, 30})))
}

func TestGenerateAppliesNoRepetitionsRestriction(t *testing.T) {
	require := require.New(t)

	ik := []ind.IND{
		ind.Unary(1, 2),
		ind.Unary(3, 1),
	}
	st := stats.New()

	none := Generate(ik, Options{Restriction: config.RestrictionNone}, st)
	require.Len(none, 1, "with no restriction the candidate survives")

	noRep := Generate(ik, Options{Restriction: config.RestrictionNoRepetitions}, st)
	require.Empty(noRep, "column 1 repeats across dep and ref")
}

func TestGenerateAppliesDepRefDisjointRestriction(t *testing.T) {
	require := require.New(t)

	ik := []ind.IND{
		ind.Unary(1, 2),
		ind.Unary(3, 1),
	}
	st := stats.New()
	out := Generate(ik, Options{Restriction: config.RestrictionDepRefDisjoint}, st)
	require.Empty(out, "column 1 appears on both dep and ref sides")
}

func TestGenerateExcludesVoidColumns(t *testing.T) {
	require := require.New(t)

	ik := []ind.IND{
		ind.Unary(1, 10),
		ind.Unary(2, 20),
		ind.Unary(1, 20),
		ind.Unary(2, 10),
	}
	st := stats.New()
	st.DistinctCount[ref.Col(1)] = 5 // column 1 is non-void
	// column 2 is left absent from DistinctCount, i.e. void (0 distinct values)

	out := Generate(ik, Options{Restriction: config.RestrictionNone, ExcludeVoid: true}, st)
	require.Empty(out, "every candidate here has column 2 on its dep or ref side")
}

func TestConsolidateRemovesSubsumedLowerArityInds(t *testing.T) {
	require := require.New(t)

	allInds := []ind.IND{
		ind.Unary(1, 10),
		ind.Unary(2, 20),
		ind.Unary(5, 50), // unrelated, survives
	}
	newInds := []ind.IND{
		ind.New([]uint32{1, 2}, []uint32{10, 20}),
	}
	out := Consolidate(allInds, newInds)
	require.Len(out, 1)
	require.True(out[0].Equal(ind.Unary(5, 50)))
}
