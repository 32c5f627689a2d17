package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartArityReturnsSpanAndContext(t *testing.T) {
	require := require.New(t)

	span, ctx := StartArity(context.Background(), "run-1", 2)
	require.NotNil(span)
	require.NotNil(ctx)
	span.Finish()
}
