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

// Package augment implements the augmentation-rule engine (C9): after
// validating arity k, walk the newly-confirmed INDs and replace the
// ones whose statistics make them redundant with an IAR (IND
// Augmentation Rule) recoverable from a surviving lower-arity IND,
// per spec.md §4.6.
package augment

import (
	"fmt"

	"github.com/dolthub/indy/internal/colid"
	"github.com/dolthub/indy/internal/combindex"
	"github.com/dolthub/indy/internal/ind"
	"github.com/dolthub/indy/internal/log"
	"github.com/dolthub/indy/internal/ref"
	"github.com/dolthub/indy/internal/stats"
)

// IAR records that RHS is logically recoverable once LHS is known to
// hold: LHS is ind.Empty for a 0-ary rule (the void-column case).
type IAR struct {
	LHS ind.IND
	RHS ind.IND
}

func (r IAR) String() string {
	return fmt.Sprintf("%s ⇒ %s", r.LHS.String(), r.RHS.String())
}

// Result is the outcome of augmenting one arity's IND set.
type Result struct {
	IARs     []IAR
	Survived []ind.IND
}

// Apply walks newInds, the just-validated arity-k IND set, extracting
// augmentation rules for redundant members and returning the surviving
// subset. st is this arity's statistics table; prev is the previous
// arity's (nil at k=1, where the distinct/null-equivalence rule has no
// lower arity to compare against).
func Apply(newInds []ind.IND, st, prev *stats.Tables) *Result {
	res := &Result{Survived: make([]ind.IND, 0, len(newInds))}
	for _, x := range newInds {
		if x.Arity() == 1 {
			applyVoidUnary(x, st, res)
			continue
		}
		applyNary(x, st, prev, res)
	}
	if len(res.IARs) > 0 {
		log.Debugf("augment: %d IARs extracted, %d/%d INDs survive", len(res.IARs), len(res.Survived), len(newInds))
	}
	return res
}

// applyVoidUnary is the k=1 void rule: a dep column with no distinct
// non-null values, or a ref column with exactly one, makes the
// inclusion uninteresting. It's recoverable from the 0-ary IAR rather
// than reported as its own IND.
func applyVoidUnary(x ind.IND, st *stats.Tables, res *Result) {
	dep := ref.Col(x.Dep[0])
	rf := ref.Col(x.Ref[0])
	if st.DistinctCount[dep] == 0 || st.DistinctCount[rf] == 1 {
		res.IARs = append(res.IARs, IAR{LHS: ind.Empty, RHS: x})
		return
	}
	res.Survived = append(res.Survived, x)
}

// applyNary handles k>=2: the void rule (dep combination has no
// distinct non-null tuples) takes priority; otherwise the
// distinct/null-count-equivalence rule checks each coprojection in
// turn.
func applyNary(x ind.IND, st, prev *stats.Tables, res *Result) {
	depCombo := sideRef(x.Dep)
	if st.DistinctCount[depCombo] == 0 {
		for i := 0; i < x.Arity(); i++ {
			co, err := x.Coproject(i)
			if err != nil {
				continue
			}
			res.IARs = append(res.IARs, IAR{LHS: co, RHS: x.Project(i)})
		}
		return
	}

	if prev == nil {
		res.Survived = append(res.Survived, x)
		return
	}

	refCombo := sideRef(x.Ref)
	removed := false
	for i := 0; i < x.Arity(); i++ {
		g, err := x.Coproject(i)
		if err != nil {
			continue
		}
		gRefCombo := sideRef(g.Ref)
		if st.DistinctCount[refCombo] == prev.DistinctCount[gRefCombo] &&
			st.NullCount[refCombo] == prev.NullCount[gRefCombo] {
			res.IARs = append(res.IARs, IAR{LHS: g, RHS: x.Project(i)})
			removed = true
		}
	}
	if !removed {
		res.Survived = append(res.Survived, x)
	}
}

// sideRef names a dep or ref side with the same ref used to key its
// statistics during validation: a plain column ref at arity 1, the
// exact-sequence combination ref (see internal/combindex) at arity>=2.
func sideRef(side []colid.ID) ref.Ref {
	if len(side) == 1 {
		return ref.Col(side[0])
	}
	return combindex.ComboRef(side)
}
