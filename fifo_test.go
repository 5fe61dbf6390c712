package farbot

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Edge case 6: capacity not a power of two fails the construction
// precondition check.
func TestFifo_NonPowerOfTwoCapacity_Panics(t *testing.T) {
	assert.Panics(t, func() {
		NewFifo[int](6)
	})
}

func TestFifo_CapacityOne_IsValid(t *testing.T) {
	f := NewFifo[int](1)
	v := 1
	require.True(t, f.Push(&v))
	require.False(t, f.Push(&v))
	got, ok := f.Pop()
	require.True(t, ok)
	require.Equal(t, &v, got)
}

// Pushing the nil sentinel is a precondition violation.
func TestFifo_PushNil_Panics(t *testing.T) {
	f := NewFifo[int](8)
	assert.Panics(t, func() {
		f.Push(nil)
	})
}

// Scenario 4 / P7: capacity bound. Push returns false after exactly
// capacity unmatched successful pushes.
func TestFifo_CapacityBound(t *testing.T) {
	const capacity = 8
	f := NewFifo[int](capacity)

	values := make([]int, 10)
	for i := range values {
		values[i] = i
	}

	for i := 0; i < capacity; i++ {
		require.True(t, f.Push(&values[i]), "push %d should succeed", i)
	}
	for i := capacity; i < 10; i++ {
		require.False(t, f.Push(&values[i]), "push %d should fail (queue full)", i)
	}

	for i := 0; i < capacity; i++ {
		got, ok := f.Pop()
		require.True(t, ok)
		require.Equal(t, i, *got)
	}
	_, ok := f.Pop()
	require.False(t, ok)
}

// Construction immediately followed by destruction is a no-op.
func TestFifo_ConstructDestroyNoOp(t *testing.T) {
	f := NewFifo[int](4)
	f.Close()
}

// P8/P9: in the SPSC regime, the sequence popped equals the sequence
// pushed, and every pushed pointer is popped exactly once.
func TestFifo_SPSCPreservesOrderNoDuplicationOrLoss(t *testing.T) {
	const capacity = 1 << 8
	const n = 50_000

	f := NewFifo[int](capacity)
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !f.Push(&values[i]) {
				runtime.Gosched() // consumer is draining concurrently
			}
		}
	}()

	popped := make([]int, 0, n)
	go func() {
		defer wg.Done()
		for len(popped) < n {
			if v, ok := f.Pop(); ok {
				popped = append(popped, *v)
			}
		}
	}()

	wg.Wait()

	require.Len(t, popped, n)
	for i, v := range popped {
		if v != i {
			t.Fatalf("FIFO order violated at index %d: expected %d, got %d", i, i, v)
		}
	}
}

func TestFifo_Capacity(t *testing.T) {
	f := NewFifo[int](16)
	require.Equal(t, uint32(16), f.Capacity())
}
