package farbot

import (
	"sync"
	"sync/atomic"

	"github.com/hogliux/farbot/internal/assert"
	"github.com/hogliux/farbot/internal/backoff"
)

// NonRealtimeMutatable synchronises access to a T from multiple threads
// with the property that one designated thread — the realtime thread —
// never waits to get access. One or more non-realtime threads may mutate
// T freely; they take a lock and may allocate.
//
// The classic use is a DSP callback reading biquad filter coefficients
// while a UI thread updates them: see the BiquadCoeffs example.
//
// Only a single realtime acquire may be outstanding at a time. Any number
// of non-realtime acquires may happen concurrently; they are serialised by
// an internal mutex.
type NonRealtimeMutatable[T any] struct {
	// pointer holds the live cell, or nil while the realtime thread holds
	// exclusive access. This is the entire wait-free mechanism: a single
	// atomic swap moves ownership between "realtime holds it" (nil) and
	// "published, available" (non-nil). Do not replace this encoding with
	// a separate busy flag — that would split one atomic update into two.
	pointer atomic.Pointer[T]

	nonRealtimeLock sync.Mutex
	copy            *T // staging cell; valid only between NonRealtimeAcquire and NonRealtimeRelease

	// currentObj is touched only by the realtime thread, only inside a
	// RealtimeAcquire/RealtimeRelease pair.
	currentObj *T
}

// NewNonRealtimeMutatable publishes a copy of obj as the initial value.
func NewNonRealtimeMutatable[T any](obj T) *NonRealtimeMutatable[T] {
	nrm := &NonRealtimeMutatable[T]{}
	cell := new(T)
	*cell = obj
	nrm.pointer.Store(cell)
	return nrm
}

// NewNonRealtimeMutatableDefault publishes a zero-valued T as the initial
// value.
func NewNonRealtimeMutatableDefault[T any]() *NonRealtimeMutatable[T] {
	var zero T
	return NewNonRealtimeMutatable(zero)
}

// RealtimeAcquire returns the currently published T. It must be matched by
// RealtimeRelease once the caller is done with the value. Only a single
// realtime thread may hold an acquire at a time.
//
// Wait-free: one atomic swap.
func (nrm *NonRealtimeMutatable[T]) RealtimeAcquire() *T {
	obj := nrm.pointer.Swap(nil)
	assert.That(obj != nil, "farbot: NonRealtimeMutatable.RealtimeAcquire called while already acquired")
	nrm.currentObj = obj
	return obj
}

// RealtimeRelease releases the value acquired by RealtimeAcquire.
//
// Wait-free: one atomic store.
func (nrm *NonRealtimeMutatable[T]) RealtimeRelease() {
	assert.That(nrm.pointer.Load() == nil, "farbot: NonRealtimeMutatable.RealtimeRelease called without a matching acquire")
	nrm.pointer.Store(nrm.currentObj)
	nrm.currentObj = nil
}

// NonRealtimeAcquire takes the non-realtime lock and returns a mutable
// clone of the currently published T. Mutate it freely; publish it with
// NonRealtimeRelease. Must not be called from the realtime thread: it
// blocks on a mutex and may allocate.
func (nrm *NonRealtimeMutatable[T]) NonRealtimeAcquire() *T {
	nrm.nonRealtimeLock.Lock()

	// The live cell's address is stable content-wise even while pointer
	// transiently reads nil (the realtime thread never mutates it), but we
	// still need a non-nil snapshot to clone from, so wait out any
	// in-flight realtime acquire. Bounded by one realtime critical section.
	var live *T
	var spin backoff.Spinner
	for {
		live = nrm.pointer.Load()
		if live != nil {
			break
		}
		spin.Spin()
	}

	clone := new(T)
	*clone = *live
	nrm.copy = clone
	return clone
}

// NonRealtimeRelease publishes the value prepared since NonRealtimeAcquire
// and releases the non-realtime lock.
func (nrm *NonRealtimeMutatable[T]) NonRealtimeRelease() {
	nrm.publishStaged()
	nrm.nonRealtimeLock.Unlock()
}

// publishStaged swaps nrm.copy into pointer, waiting out any in-flight
// realtime acquire, and clears nrm.copy. Shared by NonRealtimeRelease and
// NonRealtimeReplace; the caller must hold nonRealtimeLock.
func (nrm *NonRealtimeMutatable[T]) publishStaged() {
	staged := nrm.copy
	var spin backoff.Spinner
	for {
		expected := nrm.pointer.Load()
		if expected == nil {
			// Realtime thread currently holds it; this is the
			// non-realtime side's permitted wait, bounded by one
			// realtime release.
			spin.Spin()
			continue
		}
		if nrm.pointer.CompareAndSwap(expected, staged) {
			break
		}
	}
	nrm.copy = nil
}

// NonRealtimeReplace takes the non-realtime lock and publishes value as the
// new current T in one call. Unlike NonRealtimeAcquire followed by
// NonRealtimeRelease, it never clones the value it replaces — value is
// staged directly. Must not be called from the realtime thread.
func (nrm *NonRealtimeMutatable[T]) NonRealtimeReplace(value T) {
	nrm.nonRealtimeLock.Lock()

	cell := new(T)
	*cell = value
	nrm.copy = cell

	nrm.publishStaged()
	nrm.nonRealtimeLock.Unlock()
}

// Close asserts that the realtime thread is not inside an access, then
// takes and releases the non-realtime lock, which waits for any
// non-realtime access in progress to finish. Before the assertion it spins
// briefly to give an in-flight realtime operation a chance to finish — a
// debugging aid, not a
// correctness mechanism; a correctly synchronised caller never closes a
// NonRealtimeMutatable while another thread is using it.
func (nrm *NonRealtimeMutatable[T]) Close() {
	const maxSpins = 10000
	var spin backoff.Spinner
	for i := 0; i < maxSpins && nrm.pointer.Load() == nil; i++ {
		spin.Spin()
	}
	assert.That(nrm.pointer.Load() != nil, "farbot: NonRealtimeMutatable closed while the realtime thread holds access")
	nrm.nonRealtimeLock.Lock()
	nrm.nonRealtimeLock.Unlock()
}
