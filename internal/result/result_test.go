package result

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/indy/internal/ind"
)

func TestSliceCollectorIsSafeForConcurrentEmit(t *testing.T) {
	require := require.New(t)

	c := NewSliceCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Emit(ind.Unary(uint32(i), uint32(i+1)))
		}(i)
	}
	wg.Wait()
	require.Len(c.Inds(), 50)
}

func TestRegistryAcquireAndRelease(t *testing.T) {
	require := require.New(t)

	reg := NewRegistry()
	c := NewSliceCollector()
	release := reg.Acquire("run-1", c)
	require.Equal(1, reg.Len())

	found, ok := reg.Lookup("run-1")
	require.True(ok)
	require.Same(c, found)

	release()
	require.Equal(0, reg.Len())
	_, ok = reg.Lookup("run-1")
	require.False(ok)
}

func TestRegistryReleaseRunsOnPanic(t *testing.T) {
	require := require.New(t)

	reg := NewRegistry()
	c := NewSliceCollector()

	func() {
		release := reg.Acquire("run-2", c)
		defer release()
		defer func() { recover() }()
		panic("boom")
	}()

	require.Equal(0, reg.Len())
}

func TestRegistryAcquireDuplicateRunIDPanics(t *testing.T) {
	require := require.New(t)

	reg := NewRegistry()
	reg.Acquire("run-3", NewSliceCollector())
	require.Panics(func() {
		reg.Acquire("run-3", NewSliceCollector())
	})
}

func TestShutdownAllReleasesEveryEntry(t *testing.T) {
	require := require.New(t)

	reg := NewRegistry()
	reg.Acquire("a", NewSliceCollector())
	reg.Acquire("b", NewSliceCollector())
	require.Equal(2, reg.Len())

	reg.ShutdownAll()
	require.Equal(0, reg.Len())
}
