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

// Package candidate implements the Apriori-style candidate generator
// (C8): given the validated arity-k IND set, synthesize the arity-(k+1)
// candidates worth validating, pruned by the Apriori closure check, the
// configured NaryRestriction, and (optionally) void-column exclusion.
package candidate

import (
	"sort"

	"github.com/dolthub/indy/internal/colid"
	"github.com/dolthub/indy/internal/config"
	"github.com/dolthub/indy/internal/ind"
	"github.com/dolthub/indy/internal/log"
	"github.com/dolthub/indy/internal/ref"
	"github.com/dolthub/indy/internal/stats"
)

// Options configures one Generate call. Restriction and ExcludeVoid
// come straight off the resolved Config (Config.Resolved() already
// forces ExcludeVoid for the binder generator).
type Options struct {
	Restriction config.NaryRestriction
	ExcludeVoid bool
}

// Generate synthesizes the arity-(k+1) candidate set from ik, the
// validated arity-k IND set, per spec.md §4.5. unaryStats is the
// arity-1 distinct-count table, carried forward unchanged across every
// later arity: voidness is a column-level property (a column with zero
// distinct non-null values can never honestly participate in any real
// IND), so the exclusion check always consults it rather than a
// higher-arity combination's distinct count, which doesn't exist yet
// at candidate-generation time. See DESIGN.md.
func Generate(ik []ind.IND, opts Options, unaryStats *stats.Tables) []ind.IND {
	if len(ik) == 0 {
		return nil
	}

	sorted := append([]ind.IND(nil), ik...)
	ind.SortByLexicographic(sorted)

	knownAtK := make(map[string]bool, len(ik))
	for _, x := range ik {
		knownAtK[x.Key()] = true
	}

	seen := map[string]bool{}
	var out []ind.IND

	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && samePrefix(sorted[i], sorted[j]) {
			j++
		}
		for a := i; a < j; a++ {
			for b := a + 1; b < j; b++ {
				merged, ok := merge(sorted[a], sorted[b])
				if !ok {
					continue
				}
				if seen[merged.Key()] {
					continue
				}
				if !closureHolds(merged, knownAtK) {
					continue
				}
				if !passesRestriction(merged, opts.Restriction) {
					continue
				}
				if opts.ExcludeVoid && (!isNonVoid(merged.Dep, unaryStats) || !isNonVoid(merged.Ref, unaryStats)) {
					continue
				}
				seen[merged.Key()] = true
				out = append(out, merged)
				if log.V(1) {
					log.Debugf("candidate: admitted %s", merged.String())
				}
			}
		}
		i = j
	}
	return out
}

// Consolidate removes from allInds any IND that is subsumed by a
// member of newInds (necessarily of larger arity, per the controller's
// ARITY-k step), returning the surviving subset. It does not mutate
// allInds.
func Consolidate(allInds, newInds []ind.IND) []ind.IND {
	out := make([]ind.IND, 0, len(allInds))
	for _, old := range allInds {
		subsumed := false
		for _, n := range newInds {
			if old.IsImpliedBy(n) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, old)
		}
	}
	return out
}

// samePrefix reports whether a and b, both arity k from the same
// sorted-by-lexicographic run, share their first k-1 (dep, ref)
// positions, making them Apriori merge siblings.
func samePrefix(a, b ind.IND) bool {
	n := len(a.Dep) - 1
	for i := 0; i < n; i++ {
		if a.Dep[i] != b.Dep[i] || a.Ref[i] != b.Ref[i] {
			return false
		}
	}
	return true
}

type depRefPos struct {
	dep colid.ID
	ref colid.ID
}

// merge combines sibling INDs a and b (same arity-(k-1) prefix, distinct
// last dep elements) into the arity-(k+1) candidate: the union of dep
// positions sorted ascending, with ref positions carried along and
// reordered to match. Returns ok=false if the union degenerates (a
// repeated column id on either side collapses the arity below k+1).
func merge(a, b ind.IND) (ind.IND, bool) {
	n := len(a.Dep)
	positions := make([]depRefPos, 0, n+1)
	for i := 0; i < n-1; i++ {
		positions = append(positions, depRefPos{a.Dep[i], a.Ref[i]})
	}
	positions = append(positions, depRefPos{a.Dep[n-1], a.Ref[n-1]})
	positions = append(positions, depRefPos{b.Dep[n-1], b.Ref[n-1]})

	seenDep := make(map[colid.ID]bool, len(positions))
	seenRef := make(map[colid.ID]bool, len(positions))
	for _, p := range positions {
		if seenDep[p.dep] || seenRef[p.ref] {
			return ind.IND{}, false
		}
		seenDep[p.dep] = true
		seenRef[p.ref] = true
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].dep < positions[j].dep })

	dep := make([]colid.ID, len(positions))
	ref := make([]colid.ID, len(positions))
	for i, p := range positions {
		dep[i] = p.dep
		ref[i] = p.ref
	}
	return ind.New(dep, ref), true
}

// closureHolds is the standard Apriori admission check: every one of
// merged's k+1 coprojections must already be a known arity-k IND.
func closureHolds(merged ind.IND, knownAtK map[string]bool) bool {
	for i := 0; i < merged.Arity(); i++ {
		sub, err := merged.Coproject(i)
		if err != nil {
			return false
		}
		if !knownAtK[sub.Key()] {
			return false
		}
	}
	return true
}

func passesRestriction(merged ind.IND, restriction config.NaryRestriction) bool {
	switch restriction {
	case config.RestrictionNoRepetitions:
		seen := make(map[colid.ID]bool, 2*merged.Arity())
		for _, c := range merged.Dep {
			if seen[c] {
				return false
			}
			seen[c] = true
		}
		for _, c := range merged.Ref {
			if seen[c] {
				return false
			}
			seen[c] = true
		}
		return true
	case config.RestrictionDepRefDisjoint:
		depSet := make(map[colid.ID]bool, merged.Arity())
		for _, c := range merged.Dep {
			depSet[c] = true
		}
		for _, c := range merged.Ref {
			if depSet[c] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func isNonVoid(side []colid.ID, unaryStats *stats.Tables) bool {
	for _, c := range side {
		if unaryStats.IsVoid(ref.Col(c)) {
			return false
		}
	}
	return true
}
