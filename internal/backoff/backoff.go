// Package backoff implements the short, bounded busy-wait used by the
// non-realtime side of farbot's primitives while it waits out the realtime
// thread's critical section.
//
// These loops are never on the realtime path — the realtime thread never
// calls into this package. They exist only so a non-realtime writer or
// reader can wait for a realtime acquire/release or publish to complete,
// a wait that the specification explicitly bounds to "one realtime
// release" or "one realtime publish".
package backoff

import (
	"runtime"

	"github.com/valyala/fastrand"
)

// yieldEvery mirrors the teacher ring buffer's goschedEvery constant: most
// spins just burn a few cycles, only occasionally do we hand the scheduler
// a real chance to run the realtime goroutine.
const yieldEvery = 64

// Spinner accumulates spin count for a single wait loop. Its zero value is
// ready to use.
type Spinner struct {
	spins uint32
}

// Spin performs one unit of backoff: most calls insert a small randomized
// delay (so that multiple concurrently spinning non-realtime threads
// desynchronize instead of hammering the same cache line in lockstep),
// every yieldEvery'th call yields the goroutine outright.
func (s *Spinner) Spin() {
	s.spins++
	if s.spins%yieldEvery == 0 {
		runtime.Gosched()
		return
	}
	for n := fastrand.Uint32n(8); n > 0; n-- {
		// deliberately empty: just consume a few cycles with jitter
	}
}
