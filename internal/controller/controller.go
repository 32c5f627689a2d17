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

// Package controller implements the run controller (C10): the state
// machine INIT → ARITY-1 → (ARITY-k, k>=2)* → DONE | FAILED that owns
// allInds/newInds across arities and wires every other component
// together (C1-C9) into one run.
package controller

import (
	"context"

	"github.com/dolthub/indy/internal/augment"
	"github.com/dolthub/indy/internal/candidate"
	"github.com/dolthub/indy/internal/cellemit"
	"github.com/dolthub/indy/internal/colid"
	"github.com/dolthub/indy/internal/config"
	"github.com/dolthub/indy/internal/ind"
	"github.com/dolthub/indy/internal/log"
	"github.com/dolthub/indy/internal/narypipeline"
	"github.com/dolthub/indy/internal/result"
	"github.com/dolthub/indy/internal/runid"
	"github.com/dolthub/indy/internal/stats"
	"github.com/dolthub/indy/internal/substrate"
	"github.com/dolthub/indy/internal/tabsource"
	"github.com/dolthub/indy/internal/trace"
	"github.com/dolthub/indy/internal/unarypipeline"
)

// maxCandidatesPerChunk bounds the size of a single n-ary validation
// pass's candidate set; a larger C_{k+1} is partitioned into disjoint
// chunks per spec.md §4.4 "Chunking", each run as its own pass with
// stats merged back together afterward.
const maxCandidatesPerChunk = 4096

// TableSpec names one input table and the relation/column names its
// columns are registered under.
type TableSpec struct {
	Relation string
	Columns  []string
	Table    tabsource.Table
}

// Options configures one run.
type Options struct {
	Config config.Config
	Tables []TableSpec
	// Collector receives each freshly discovered IND, at most once per
	// arity, as it becomes known. Defaults to an internal
	// result.SliceCollector if nil.
	Collector result.Collector
	// Registry is the scoped publication point the run's collector is
	// acquired under (see internal/result). A private Registry is used
	// if nil; share one across runs only if a remote deployment needs
	// to look collectors up by run id.
	Registry *result.Registry
	// Executor runs each pass's operator graph. Defaults to
	// substrate.Local{} if nil.
	Executor substrate.Executor
}

// Summary is the outcome of a completed run: the consolidated
// maximal IND set, every IAR extracted along the way, and (when
// OnlyCountInds is set) just the arity-1 count.
type Summary struct {
	RunID string
	Inds  []ind.IND
	IARs  []augment.IAR
	// Count is set instead of Inds when Config.OnlyCountInds is true.
	Count int
}

// Run executes INIT -> ARITY-1 -> (ARITY-k)* -> DONE, returning the
// run summary or the first fatal error encountered. The streaming
// collector is always released, including on an error return or panic.
func Run(ctx context.Context, opts Options) (summary *Summary, err error) {
	cfg := opts.Config.Resolved()
	if verr := cfg.Validate(); verr != nil {
		return nil, verr
	}

	runID := runid.New()
	log.WithField("run.id", runID).Info("starting IND discovery run")

	registry := opts.Registry
	if registry == nil {
		registry = result.NewRegistry()
	}
	collector := opts.Collector
	if collector == nil {
		collector = result.NewSliceCollector()
	}
	release := registry.Acquire(runID, collector)
	defer release()

	codec, cerr := colid.NewCodec(cfg.NumColumnBits)
	if cerr != nil {
		return nil, cerr
	}
	reg := colid.NewRegistry(codec)

	var unaryTables []unarypipeline.TableInfo
	var naryTables []narypipeline.TableInfo
	for _, t := range opts.Tables {
		base, ids := reg.AddTable(t.Relation, t.Columns)
		tableID := codec.TableID(base)
		unaryTables = append(unaryTables, unarypipeline.TableInfo{Table: t.Table, TableID: tableID, ColumnIDs: ids})
		naryTables = append(naryTables, narypipeline.TableInfo{Table: t.Table, TableID: tableID})
	}

	policy := cellemit.Policy{
		DropNulls:          cfg.IsDropNulls,
		NullString:         cfg.NullString,
		MaxColumns:         cfg.MaxColumns,
		SampleRows:         cfg.SampleRows,
		DropDifferingLines: cfg.DropDifferingLines,
	}

	exec := opts.Executor
	if exec == nil {
		exec = substrate.Local{}
	}

	span, arityCtx := trace.StartArity(ctx, runID, 1)
	unaryRes, uerr := unarypipeline.Run(arityCtx, exec, runid.JobName(runID, 1), unaryTables, policy)
	span.Finish()
	if uerr != nil {
		return nil, uerr
	}

	augRes := augment.Apply(unaryRes.Inds, unaryRes.Stats, nil)
	iars := append([]augment.IAR(nil), augRes.IARs...)
	allInds := append([]ind.IND(nil), augRes.Survived...)
	emitAll(collector, augRes.Survived)

	if cfg.OnlyCountInds {
		log.Debugf("run %s: onlyCountInds set, stopping after arity 1 with %d INDs", runID, len(allInds))
		return &Summary{RunID: runID, Count: len(allInds), IARs: iars}, nil
	}

	// validatedAtK carries the *full* arity-k IND set (pre-augmentation)
	// forward into the next round's candidate generator: §8's Apriori
	// closure property defines I_k as the validated set, and an IND
	// augmentation replaces with an IAR doesn't make it any less true,
	// only less worth reporting on its own. See DESIGN.md.
	validatedAtK := unaryRes.Inds
	prevStats := unaryRes.Stats

	candOpts := candidate.Options{Restriction: cfg.NaryRestriction, ExcludeVoid: cfg.IsExcludeVoidIndsFromCandidateGeneration}

	for arity := 2; cfg.MaxArity < 0 || arity <= cfg.MaxArity; arity++ {
		candidates := candidate.Generate(validatedAtK, candOpts, unaryRes.Stats)
		if len(candidates) == 0 {
			log.Debugf("run %s: no arity-%d candidates, done", runID, arity)
			break
		}

		naryRes, nerr := runNaryArity(ctx, runID, arity, exec, naryTables, codec, candidates, policy)
		if nerr != nil {
			return nil, nerr
		}
		for _, x := range naryRes.Inds {
			if ierr := x.CheckInvariant(); ierr != nil {
				return nil, ierr
			}
		}

		augRes = augment.Apply(naryRes.Inds, naryRes.Stats, prevStats)
		iars = append(iars, augRes.IARs...)
		allInds = candidate.Consolidate(allInds, augRes.Survived)
		allInds = append(allInds, augRes.Survived...)
		emitAll(collector, augRes.Survived)

		validatedAtK = naryRes.Inds
		prevStats = naryRes.Stats
	}

	log.WithField("run.id", runID).Infof("run complete: %d INDs, %d IARs", len(allInds), len(iars))
	return &Summary{RunID: runID, Inds: allInds, IARs: iars}, nil
}

// runNaryArity validates one arity's candidate set, chunking it per
// spec.md §4.4 if it's larger than maxCandidatesPerChunk and merging
// the per-chunk results back together.
func runNaryArity(ctx context.Context, runID string, arity int, exec substrate.Executor, tables []narypipeline.TableInfo, codec *colid.Codec, candidates []ind.IND, policy cellemit.Policy) (*narypipeline.Result, error) {
	span, arityCtx := trace.StartArity(ctx, runID, arity)
	defer span.Finish()

	chunks := chunkCandidates(candidates, maxCandidatesPerChunk)
	if len(chunks) == 1 {
		return narypipeline.Run(arityCtx, exec, runid.JobName(runID, arity), tables, codec, chunks[0], policy)
	}

	log.Debugf("run %s: arity %d candidate set chunked into %d passes", runID, arity, len(chunks))
	merged := &narypipeline.Result{Stats: stats.New()}
	for i, chunk := range chunks {
		chunkRes, err := narypipeline.Run(arityCtx, exec, runid.ChunkJobName(runID, arity, i), tables, codec, chunk, policy)
		if err != nil {
			return nil, err
		}
		merged.Inds = append(merged.Inds, chunkRes.Inds...)
		merged.Stats.Merge(chunkRes.Stats)
	}
	return merged, nil
}

func chunkCandidates(candidates []ind.IND, size int) [][]ind.IND {
	if len(candidates) <= size {
		return [][]ind.IND{candidates}
	}
	var chunks [][]ind.IND
	for i := 0; i < len(candidates); i += size {
		end := i + size
		if end > len(candidates) {
			end = len(candidates)
		}
		chunks = append(chunks, candidates[i:end])
	}
	return chunks
}

func emitAll(c result.Collector, inds []ind.IND) {
	for _, x := range inds {
		c.Emit(x)
	}
}
