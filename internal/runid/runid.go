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

// Package runid mints identifiers for a controller run: a UUID used
// both as part of the execution substrate's job names and as the key
// under which the streaming collector registers itself in the scoped
// remote registry (see internal/result).
package runid

import (
	"strconv"

	uuid "github.com/satori/go.uuid"
)

// New returns a fresh run id.
func New() string {
	return uuid.NewV4().String()
}

// JobName returns the substrate job name for arity k of run id.
func JobName(runID string, arity int) string {
	return "ind-discovery-" + runID + "-arity-" + strconv.Itoa(arity)
}

// ChunkJobName returns the substrate job name for chunk index of
// arity k's candidate set, when a large candidate set is partitioned
// per spec.md §4.4 "Chunking".
func ChunkJobName(runID string, arity, index int) string {
	return JobName(runID, arity) + "-chunk-" + strconv.Itoa(index)
}
