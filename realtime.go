package farbot

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/hogliux/farbot/internal/assert"
	"github.com/hogliux/farbot/internal/backoff"
)

const (
	indexBit   uint32 = 1 << 0
	busyBit    uint32 = 1 << 1
	newDataBit uint32 = 1 << 2
)

// RealtimeMutatable synchronises a T written by a single realtime thread
// and read by any number of non-realtime threads. Realtime writes are
// wait-free; non-realtime reads may block on a mutex but never on the
// realtime thread itself.
//
// The double buffer plus the packed control word are the whole mechanism:
// packing the current-slot index, the busy flag, and the new-data flag
// into one atomic word makes the reader's index flip and its observation
// of "not currently publishing" a single linearizable step. Splitting
// those bits across separate atomics would open a window where the
// realtime writer commits into the slot the reader is about to read.
type RealtimeMutatable[T any] struct {
	data         [2]T
	realtimeCopy T

	_ cpu.CacheLinePad

	// control is hit on every realtime publish (Or + Store) and by every
	// non-realtime acquire (Load, occasionally a CAS); pad it off data and
	// off the mutex so neither side's traffic evicts the other's cache
	// line out from under the realtime fast path.
	control atomic.Uint32

	_ cpu.CacheLinePad

	nonRealtimeLock sync.Mutex

	_ cpu.CacheLinePad
}

// NewRealtimeMutatable publishes a copy of obj as the initial value of
// both the scratch copy and the first published slot.
func NewRealtimeMutatable[T any](obj T) *RealtimeMutatable[T] {
	rm := &RealtimeMutatable[T]{realtimeCopy: obj}
	rm.data[0] = obj
	// indexBit starts set (pointing at slot 1, the "next to write" slot)
	// so that a non-realtime read before any publish resolves to slot 0,
	// where the constructor's initial value lives. See RealtimeRelease
	// and NonRealtimeAcquire for why the slot arithmetic depends on this.
	rm.control.Store(indexBit)
	return rm
}

// NewRealtimeMutatableDefault publishes a zero-valued T as the initial
// value. Every Go type has a usable zero value, so — unlike the C++
// source this is ported from, which requires T to be default-constructible
// for this overload — this constructor is always available.
func NewRealtimeMutatableDefault[T any]() *RealtimeMutatable[T] {
	var zero T
	return NewRealtimeMutatable(zero)
}

// RealtimeAcquire returns the realtime thread's private scratch copy.
// Mutate it freely; publish with RealtimeRelease. Pure read, no atomics.
func (rm *RealtimeMutatable[T]) RealtimeAcquire() *T {
	return &rm.realtimeCopy
}

// RealtimeRelease publishes realtimeCopy into the double buffer.
//
// Wait-free: one atomic fetch-or followed by one atomic store. It never
// waits on the non-realtime mutex or on a CAS retry loop — a non-realtime
// reader that is mid-flip simply won't observe this publish until its
// current flip resolves, per the invariants on the control word.
func (rm *RealtimeMutatable[T]) RealtimeRelease() {
	previous := rm.control.Or(busyBit)
	slot := previous & indexBit
	rm.data[slot] = rm.realtimeCopy
	rm.control.Store(slot | newDataBit)
}

// NonRealtimeAcquire takes the non-realtime lock and returns the most
// recently published value. Must not be called from the realtime thread.
func (rm *RealtimeMutatable[T]) NonRealtimeAcquire() *T {
	rm.nonRealtimeLock.Lock()

	ctrl := rm.control.Load()
	if ctrl&newDataBit != 0 {
		var spin backoff.Spinner
		for {
			if ctrl&busyBit != 0 {
				// A publish is in flight; the flip must not race it.
				// Bounded by one realtime publish (a copy of T).
				spin.Spin()
				ctrl = rm.control.Load()
				continue
			}
			flipped := (ctrl ^ indexBit) &^ newDataBit
			if rm.control.CompareAndSwap(ctrl, flipped) {
				ctrl = flipped
				break
			}
			ctrl = rm.control.Load()
		}
	}

	// Whether or not a flip happened, the reader uses the slot the
	// current indexBit does NOT designate.
	readSlot := (ctrl & indexBit) ^ 1
	return &rm.data[readSlot]
}

// NonRealtimeRelease releases the non-realtime lock taken by
// NonRealtimeAcquire.
func (rm *RealtimeMutatable[T]) NonRealtimeRelease() {
	rm.nonRealtimeLock.Unlock()
}

// Close asserts that no realtime publish is in flight, then takes and
// releases the non-realtime lock, which waits for any non-realtime access
// in progress to finish. Before the assertion it spins briefly on the busy
// bit as a debugging aid; a correctly synchronised caller never closes a
// RealtimeMutatable while the realtime thread is mid-publish.
func (rm *RealtimeMutatable[T]) Close() {
	const maxSpins = 10000
	var spin backoff.Spinner
	for i := 0; i < maxSpins && rm.control.Load()&busyBit != 0; i++ {
		spin.Spin()
	}
	assert.That(rm.control.Load()&busyBit == 0, "farbot: RealtimeMutatable closed while the realtime thread is mid-publish")
	rm.nonRealtimeLock.Lock()
	rm.nonRealtimeLock.Unlock()
}
