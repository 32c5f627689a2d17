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

// Package substrate is the §6 execution-substrate interface: a
// data-parallel operator graph offering flatMap / groupBy+reduce /
// broadcast / output, abstracted so the core (C5, C7) never depends on
// a concrete distributed engine. It also provides an in-process
// reference implementation, Local, used by the CLI and by this
// module's own tests. A real deployment swaps Local for an adapter
// over whatever data-parallel engine it already runs.
//
// The core makes no ordering assumption within a group and requires
// that every value of a group reach one reduce invocation atomically;
// Local satisfies this by fully materializing each group before
// reducing it.
package substrate

import (
	"context"
	"sync"

	"github.com/dolthub/indy/internal/errkind"
)

// Executor runs a job built from flatMap/groupBy+reduce/broadcast/output
// calls and returns its result once every derived stream has been
// consumed.
type Executor interface {
	Execute(ctx context.Context, jobName string, build func(j *Job) error) (*JobResult, error)
}

// Job is the operator-graph context passed to an Executor's build
// function. It owns the broadcast accumulators for one pass.
type Job struct {
	mu           sync.Mutex
	accumulators map[string]*CounterMap
}

func newJob() *Job {
	return &Job{accumulators: make(map[string]*CounterMap)}
}

// accumulator returns (creating if absent) the named broadcast
// accumulator.
func (j *Job) accumulator(name string) *CounterMap {
	j.mu.Lock()
	defer j.mu.Unlock()
	a, ok := j.accumulators[name]
	if !ok {
		a = NewCounterMap()
		j.accumulators[name] = a
	}
	return a
}

// JobResult is returned by Execute; it exposes every accumulator
// broadcast into during the job.
type JobResult struct {
	accumulators map[string]*CounterMap
}

// AccumulatorResult returns the named accumulator's final snapshot.
func (r *JobResult) AccumulatorResult(key string) (map[uint32]uint64, bool) {
	a, ok := r.accumulators[key]
	if !ok {
		return nil, false
	}
	return a.Snapshot(), true
}

// CounterMap is a broadcast-style accumulator: a map from a dense
// uint32 key (a column or combination id, or a table id) to a
// monotonically-increasing uint64 counter. Safe for concurrent Add
// from multiple reducer goroutines.
type CounterMap struct {
	mu sync.Mutex
	m  map[uint32]uint64
}

// NewCounterMap returns an empty accumulator.
func NewCounterMap() *CounterMap {
	return &CounterMap{m: make(map[uint32]uint64)}
}

// Add increments the counter for key by delta.
func (c *CounterMap) Add(key uint32, delta uint64) {
	c.mu.Lock()
	c.m[key] += delta
	c.mu.Unlock()
}

// Snapshot returns a copy of the accumulator's current contents.
func (c *CounterMap) Snapshot() map[uint32]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[uint32]uint64, len(c.m))
	for k, v := range c.m {
		out[k] = v
	}
	return out
}

// FlatMap applies fn to every element of src and concatenates the
// results, mirroring the substrate's flatMap(source, fn) -> stream.
func FlatMap[S, T any](src []S, fn func(S) []T) []T {
	out := make([]T, 0, len(src))
	for _, s := range src {
		out = append(out, fn(s)...)
	}
	return out
}

// GroupByReduce groups src by keyFn and folds each group with
// combine, returning one output element per distinct key. combine must
// be deterministic and associative/commutative over the group's
// multiset, since the core makes no ordering assumption within a
// group.
func GroupByReduce[T any, K comparable](src []T, keyFn func(T) K, combine func(acc, next T) T) map[K]T {
	groups := make(map[K]T, len(src))
	seen := make(map[K]bool, len(src))
	for _, t := range src {
		k := keyFn(t)
		if !seen[k] {
			groups[k] = t
			seen[k] = true
			continue
		}
		groups[k] = combine(groups[k], t)
	}
	return groups
}

// GroupByCollect groups src by keyFn, returning every member of each
// group rather than a single reduced value. Used where the reduce
// step needs the full group (e.g. to derive an attribute set from
// every (value, columnId) pair sharing a value), not a running fold.
func GroupByCollect[T any, K comparable](src []T, keyFn func(T) K) map[K][]T {
	groups := make(map[K][]T, len(src))
	for _, t := range src {
		k := keyFn(t)
		groups[k] = append(groups[k], t)
	}
	return groups
}

// Broadcast accumulates toAcc(item) into the job's named accumulator
// for every item of src.
func Broadcast[T any](j *Job, name string, src []T, toAcc func(T, *CounterMap)) {
	acc := j.accumulator(name)
	for _, t := range src {
		toAcc(t, acc)
	}
}

// Output delivers every element of src to sink, in src order. Callers
// must not depend on delivery order.
func Output[T any](src []T, sink func(T)) {
	for _, t := range src {
		sink(t)
	}
}

// Local is an in-process reference Executor: every stream is fully
// materialized in memory and groupBy/reduce runs synchronously. It is
// adequate for the CLI and for tests; a production deployment
// supplies an Executor backed by whatever distributed engine it runs.
type Local struct{}

// Execute runs build against a fresh Job and returns its JobResult.
func (Local) Execute(ctx context.Context, jobName string, build func(j *Job) error) (*JobResult, error) {
	select {
	case <-ctx.Done():
		return nil, errkind.Cancelled.New(ctx.Err().Error())
	default:
	}
	j := newJob()
	if err := build(j); err != nil {
		return nil, errkind.SubstrateFailure.New(err.Error())
	}
	return &JobResult{accumulators: j.accumulators}, nil
}
