package pool

import (
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//Every index must be processed exactly once, whatever the number of workers.
func TestClaimExclusivity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, counter := range []bool{false, true} {
		for run := 0; run < 120; run++ {
			n := rng.Intn(200) + 1
			threads := rng.Intn(16) + 1
			calls := make([]atomic.Int32, n)
			claimant := make([]int, n)
			var opts []Option
			if counter {
				opts = append(opts, WithCounterClaim())
			}
			records, err := Run(n, threads, func(worker, index int, rec *TaskRecord) {
				calls[index].Add(1)
				claimant[index] = worker
			}, opts...)
			require.NoError(t, err)
			require.Len(t, records, n)
			for i := range calls {
				require.Equal(t, int32(1), calls[i].Load(), "index %d, n=%d threads=%d counter=%v", i, n, threads, counter)
				assert.Equal(t, claimant[i], records[i].Worker)
				assert.True(t, records[i].Worker >= 0 && records[i].Worker < threads)
				assert.False(t, records[i].Failed())
			}
		}
	}
}

//Failures don't stop the other tasks, and are all reported.
func TestNoShortCircuit(t *testing.T) {
	var done atomic.Int32
	records, err := Run(50, 4, func(worker, index int, rec *TaskRecord) {
		done.Add(1)
		if index%7 == 0 {
			rec.Fail(3, fmt.Errorf("molecule %d failed", index))
		}
	})
	require.NoError(t, err)
	assert.Equal(t, int32(50), done.Load())
	failed := Failed(records)
	assert.Len(t, failed, 8)
	perr := Check("field", records)
	require.Error(t, perr)
	var pe *PhaseError
	require.True(t, errors.As(perr, &pe))
	assert.Equal(t, []int{0, 7, 14, 21, 28, 35, 42, 49}, pe.Indexes())
	assert.Equal(t, 3, pe.Failed[1].Code)
	assert.Contains(t, pe.Failed[1].Where, "pool_test.go")
	assert.Contains(t, perr.Error(), "8 of 50 tasks failed")
}

func TestPanicRecovered(t *testing.T) {
	records, err := Run(5, 2, func(worker, index int, rec *TaskRecord) {
		if index == 3 {
			panic("boom")
		}
	})
	require.NoError(t, err)
	assert.Equal(t, CodePanic, records[3].Code)
	assert.Contains(t, records[3].Message, "boom")
	assert.Nil(t, Check("field", records[:3]))
}

func TestRunEdgeCases(t *testing.T) {
	records, err := Run(0, 4, func(int, int, *TaskRecord) {})
	require.NoError(t, err)
	assert.Empty(t, records)
	_, err = Run(3, 1, nil)
	assert.ErrorIs(t, err, ErrNilTask)
	_, err = Run(-1, 1, func(int, int, *TaskRecord) {})
	assert.ErrorIs(t, err, ErrNegativeTasks)
	//more threads than tasks, and the default thread count.
	records, err = Run(2, 64, func(int, int, *TaskRecord) {})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	records, err = Run(10, 0, func(int, int, *TaskRecord) {})
	require.NoError(t, err)
	assert.Len(t, records, 10)
}
