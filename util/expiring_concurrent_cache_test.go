package util

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kasflow/txbuilder/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrSetCachesValue(t *testing.T) {
	cache := NewExpiringConcurrentCache[string, int](time.Minute)

	calls := 0

	for i := 0; i < 3; i++ {
		v, err := cache.GetOrSet("key", func() (int, error) {
			calls++
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}

	assert.Equal(t, 1, calls)
}

func TestGetOrSetSingleFlight(t *testing.T) {
	cache := NewExpiringConcurrentCache[string, int](time.Minute)

	var calls atomic.Int32

	var wg sync.WaitGroup

	start := make(chan struct{})

	for i := 0; i < 32; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-start

			v, err := cache.GetOrSet("key", func() (int, error) {
				calls.Add(1)
				time.Sleep(10 * time.Millisecond)
				return 7, nil
			})
			require.NoError(t, err)
			assert.Equal(t, 7, v)
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrSetErrorNotCached(t *testing.T) {
	cache := NewExpiringConcurrentCache[string, int](time.Minute)

	calls := 0

	_, err := cache.GetOrSet("key", func() (int, error) {
		calls++
		return 0, errors.NewServiceError("upstream down")
	})
	require.Error(t, err)

	v, err := cache.GetOrSet("key", func() (int, error) {
		calls++
		return 9, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 9, v)
	assert.Equal(t, 2, calls)
}
