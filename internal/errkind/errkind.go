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

// Package errkind defines the typed error kinds surfaced by run().
//
// Each kind is a gopkg.in/src-d/go-errors.v1 Kind, the same pattern the
// teacher uses for auth.ErrNotAuthorized/auth.ErrNoPermission: a
// package-level *errors.Kind built with errors.NewKind, instantiated at
// the call site with .New(args...). Callers test provenance with
// SomeKind.Is(err) rather than type assertions.
package errkind

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// Configuration marks an invalid or missing setting, detected before
	// any pass runs (e.g. maxArity > 1 without a nary restriction).
	Configuration = errors.NewKind("configuration error: %s")

	// Input marks an unreadable source or a mid-stream parse failure that
	// is not being silently dropped under dropDifferingLines.
	Input = errors.NewKind("input error: %s")

	// SubstrateFailure marks a failure reported by the execution
	// substrate. The cause's message text is formatted into the error's
	// message; the original error value is not attached.
	SubstrateFailure = errors.NewKind("execution substrate failure: %s")

	// InternalInvariant marks a violated IND or combination invariant,
	// e.g. a dep[] array found unsorted. Indicates a bug in the core.
	InternalInvariant = errors.NewKind("internal invariant violated: %s")

	// Cancelled marks a controller run aborted mid-flight.
	Cancelled = errors.NewKind("run cancelled: %s")
)
