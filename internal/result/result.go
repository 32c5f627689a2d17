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

// Package result implements the §5 result-streaming contract: a
// thread-safe per-IND collector callback, delivered at most once per
// IND per pass, plus the scoped registry a collector uses to publish
// itself for remote workers to call back into, register-by-id and
// release-on-exit, scoped here to one controller run instead of one
// connection.
package result

import (
	"sync"

	"github.com/dolthub/indy/internal/ind"
)

// Collector receives one callback per freshly discovered IND. An
// implementation must be safe for concurrent use: a data-parallel
// validation pass may invoke it from any worker.
type Collector interface {
	Emit(x ind.IND)
}

// CollectorFunc adapts a plain function to Collector.
type CollectorFunc func(x ind.IND)

// Emit implements Collector.
func (f CollectorFunc) Emit(x ind.IND) { f(x) }

// SliceCollector is the reference Collector: it appends every
// delivered IND to an internal slice under a mutex.
type SliceCollector struct {
	mu   sync.Mutex
	inds []ind.IND
}

// NewSliceCollector returns an empty SliceCollector.
func NewSliceCollector() *SliceCollector {
	return &SliceCollector{}
}

// Emit implements Collector.
func (s *SliceCollector) Emit(x ind.IND) {
	s.mu.Lock()
	s.inds = append(s.inds, x)
	s.mu.Unlock()
}

// Inds returns a snapshot of every IND delivered so far.
func (s *SliceCollector) Inds() []ind.IND {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ind.IND, len(s.inds))
	copy(out, s.inds)
	return out
}

// Registry is the one mutable process-wide resource §5 names: the
// publication point a run's streaming collector uses to make itself
// reachable from remote workers. A deployment normally shares one
// Registry process-wide; internal/controller scopes its acquisition to
// a single run id, released on every exit path including panic.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Collector
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Collector)}
}

// Acquire registers c under runID and returns a release func that
// unregisters it. Acquire panics on a run id collision: two runs
// sharing an id is a caller bug, not a recoverable condition.
func (r *Registry) Acquire(runID string, c Collector) (release func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[runID]; exists {
		panic("result: registry: run id already registered: " + runID)
	}
	r.entries[runID] = c
	return func() { r.release(runID) }
}

func (r *Registry) release(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, runID)
}

// Lookup resolves a previously-Acquired collector by run id, for a
// remote worker delivering a result out-of-band.
func (r *Registry) Lookup(runID string) (Collector, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.entries[runID]
	return c, ok
}

// Len reports how many runs are currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// ShutdownAll releases every currently-registered collector. Used at
// process teardown; a controller run releases only its own entry via
// the release func Acquire returned.
func (r *Registry) ShutdownAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.entries {
		delete(r.entries, k)
	}
}
