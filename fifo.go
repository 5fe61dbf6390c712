package farbot

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/hogliux/farbot/internal/assert"
)

// Fifo is a bounded queue of *T, built from a ring of atomic pointer
// slots with null as the empty-slot sentinel. It transports ownership of
// the pointed-to value: Push transfers ownership in, Pop transfers it
// back out.
//
// Capacity is a power of two fixed at construction; there is no dynamic
// resizing. Push and Pop are both lock-free: each either succeeds or
// reports full/empty within capacity probes (one counter fetch-add plus one
// slot CAS or swap per probe), no allocation, no mutex.
//
// Both endpoints advance their own counter with a fetch-add before
// probing slots, so the queue does NOT guarantee strict FIFO order under
// concurrent producers or concurrent consumers. In the intended
// single-producer/single-consumer deployment — one realtime thread on one
// end, one non-realtime thread on the other — it is effectively FIFO;
// TestFifo_SPSCPreservesOrderNoDuplicationOrLoss exercises that usage.
//
// A simpler index-only SPSC ring (no CAS, no slot array) is possible when
// there is exactly one producer and one consumer and is documented in the
// farbot C++ source this module is ported from as an alternative; this
// type implements the more general slot/CAS variant, which degrades
// gracefully to SPSC instead of requiring it.
type Fifo[T any] struct {
	slots []atomic.Pointer[T]
	mask  uint32

	_ cpu.CacheLinePad

	writepos atomic.Uint32

	_ cpu.CacheLinePad

	readpos atomic.Uint32

	_ cpu.CacheLinePad
}

// NewFifo constructs a Fifo with the given capacity, which must be a
// power of two and at least 1.
func NewFifo[T any](capacity uint32) *Fifo[T] {
	assert.That(capacity >= 1 && capacity&(capacity-1) == 0, "farbot: Fifo capacity must be a power of two")
	return &Fifo[T]{
		slots: make([]atomic.Pointer[T], capacity),
		mask:  capacity - 1,
	}
}

// Capacity returns the fixed queue capacity.
func (f *Fifo[T]) Capacity() uint32 {
	return uint32(len(f.slots))
}

// Push takes ownership of p and enqueues it. Returns false if the queue is
// full. p must not be nil — nil is the reserved empty-slot sentinel.
func (f *Fifo[T]) Push(p *T) bool {
	assert.That(p != nil, "farbot: Fifo.Push of a nil pointer")

	capacity := uint32(len(f.slots))
	for i := uint32(0); i < capacity; i++ {
		pos := f.writepos.Add(1) - 1
		slot := &f.slots[pos&f.mask]
		if slot.CompareAndSwap(nil, p) {
			return true
		}
	}
	return false
}

// Pop dequeues and returns ownership of the next element. Returns
// (nil, false) if the queue is empty.
func (f *Fifo[T]) Pop() (*T, bool) {
	capacity := uint32(len(f.slots))
	for i := uint32(0); i < capacity; i++ {
		pos := f.readpos.Add(1) - 1
		slot := &f.slots[pos&f.mask]
		if v := slot.Swap(nil); v != nil {
			return v, true
		}
	}
	return nil, false
}

// Close is a no-op: unlike NonRealtimeMutatable and RealtimeMutatable,
// Fifo holds no cross-thread lifecycle precondition to assert on
// destruction. It exists for API symmetry with the other two primitives.
func (f *Fifo[T]) Close() {}
