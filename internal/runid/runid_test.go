package runid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIsUnique(t *testing.T) {
	require := require.New(t)
	require.NotEqual(New(), New())
}

func TestJobNameIncludesArity(t *testing.T) {
	require := require.New(t)
	require.Contains(JobName("abc", 2), "arity-2")
	require.Contains(JobName("abc", 2), "abc")
}

func TestChunkJobNameIncludesIndex(t *testing.T) {
	require := require.New(t)
	name := ChunkJobName("abc", 3, 5)
	require.Contains(name, "arity-3")
	require.Contains(name, "chunk-5")
}
