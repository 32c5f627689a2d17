package substrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlatMap(t *testing.T) {
	require := require.New(t)
	out := FlatMap([]int{1, 2, 3}, func(i int) []int { return []int{i, i * 10} })
	require.Equal([]int{1, 10, 2, 20, 3, 30}, out)
}

func TestGroupByReduce(t *testing.T) {
	require := require.New(t)
	out := GroupByReduce([]int{1, 2, 3, 4, 5, 6}, func(i int) int { return i % 2 }, func(a, b int) int { return a + b })
	require.Equal(9, out[1]) // 1+3+5
	require.Equal(12, out[0])
}

func TestGroupByCollect(t *testing.T) {
	require := require.New(t)
	out := GroupByCollect([]string{"a", "bb", "c", "dd"}, func(s string) int { return len(s) })
	require.ElementsMatch([]string{"a", "c"}, out[1])
	require.ElementsMatch([]string{"bb", "dd"}, out[2])
}

func TestLocalExecuteBroadcastsAccumulators(t *testing.T) {
	require := require.New(t)

	var local Local
	result, err := local.Execute(context.Background(), "job", func(j *Job) error {
		Broadcast(j, "nullCount", []int{1, 1, 2}, func(i int, acc *CounterMap) {
			acc.Add(uint32(i), 1)
		})
		return nil
	})
	require.NoError(err)

	snap, ok := result.AccumulatorResult("nullCount")
	require.True(ok)
	require.Equal(uint64(2), snap[1])
	require.Equal(uint64(1), snap[2])

	_, ok = result.AccumulatorResult("missing")
	require.False(ok)
}

func TestLocalExecuteRespectsCancellation(t *testing.T) {
	require := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var local Local
	_, err := local.Execute(ctx, "job", func(j *Job) error { return nil })
	require.Error(err)
}
