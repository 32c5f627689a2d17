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

// Package trace wraps each arity pass in an opentracing span, carried
// on the run's context.Context.
package trace

import (
	"context"
	"strconv"

	opentracing "github.com/opentracing/opentracing-go"
)

// StartArity starts a span named "arity-<k>" as a child of any span
// already present on ctx, returning the span and a context carrying
// it. Callers must call span.Finish() (typically via defer).
func StartArity(ctx context.Context, runID string, arity int) (opentracing.Span, context.Context) {
	span, childCtx := opentracing.StartSpanFromContext(ctx, spanName(arity))
	span.SetTag("run.id", runID)
	span.SetTag("arity", arity)
	return span, childCtx
}

func spanName(arity int) string {
	if arity <= 0 {
		return "arity-unknown"
	}
	return "arity-" + strconv.Itoa(arity)
}
