package workers

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name            string
		numWorkers      int
		expectedWorkers int
	}{
		{"positive workers", 5, 5},
		{"zero workers defaults to CPUs", 0, runtime.NumCPU()},
		{"negative workers defaults to CPUs", -1, runtime.NumCPU()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewWorkerPool(tt.numWorkers)
			assert.Equal(t, tt.expectedWorkers, pool.NumWorkers())
		})
	}
}

func TestMap_Empty(t *testing.T) {
	pool := NewWorkerPool(2)
	results := Map(pool, []int(nil), func(i int) int { return i })
	assert.Empty(t, results)
}

func TestMap_PreservesOrder(t *testing.T) {
	pool := NewWorkerPool(4)

	inputs := make([]int, 100)
	for i := range inputs {
		inputs[i] = i
	}

	results := Map(pool, inputs, func(i int) int { return i * i })

	for i, r := range results {
		assert.Equal(t, i*i, r)
	}
}

func TestMap_CallsEveryInputOnce(t *testing.T) {
	pool := NewWorkerPool(3)
	var calls int64

	inputs := []string{"a", "b", "c", "d", "e"}
	results := Map(pool, inputs, func(s string) string {
		atomic.AddInt64(&calls, 1)
		return s + s
	})

	assert.Equal(t, int64(len(inputs)), calls)
	assert.Equal(t, []string{"aa", "bb", "cc", "dd", "ee"}, results)
}

func TestMap_NilPoolRunsSequentially(t *testing.T) {
	results := Map[int, int](nil, []int{1, 2, 3}, func(i int) int { return i + 1 })
	assert.Equal(t, []int{2, 3, 4}, results)
}

func TestMap_PanicReachesCaller(t *testing.T) {
	pool := NewWorkerPool(3)
	var calls int64

	fn := func(i int) int {
		atomic.AddInt64(&calls, 1)
		if i == 2 {
			panic("bad input")
		}
		return i
	}

	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		Map(pool, []int{0, 1, 2, 3, 4, 5}, fn)
	}()

	require.NotNil(t, recovered)
	err, ok := recovered.(error)
	require.True(t, ok)
	assert.Contains(t, err.Error(), "bad input")
	assert.Equal(t, int64(6), atomic.LoadInt64(&calls), "remaining inputs still run")
}
