package farbot

import "github.com/hogliux/farbot/internal/assert"

// noCopy makes `go vet`'s -copylocks check flag accidental copies of the
// struct it's embedded in, the same zero-size marker idiom the standard
// library uses for sync.WaitGroup and sync.Cond. Scoped-access handles
// must always be used through the pointer their constructor returns.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// NRMScopedAccess is a scoped handle for a NonRealtimeMutatable: acquiring
// it calls the correct side's acquire, and Release calls the matching
// release. Construct with NewNRMScopedAccess and release with Release,
// typically via defer, so the release runs on every exit path.
type NRMScopedAccess[T any] struct {
	_ noCopy

	parent     *NonRealtimeMutatable[T]
	isRealtime bool
	value      *T
	released   bool
}

// NewNRMScopedAccess acquires parent on behalf of the caller. Pass
// isRealtimeThread true only from the single designated realtime thread;
// the primitive cannot verify this itself.
func NewNRMScopedAccess[T any](parent *NonRealtimeMutatable[T], isRealtimeThread bool) *NRMScopedAccess[T] {
	s := &NRMScopedAccess[T]{parent: parent, isRealtime: isRealtimeThread}
	if isRealtimeThread {
		s.value = parent.RealtimeAcquire()
	} else {
		s.value = parent.NonRealtimeAcquire()
	}
	return s
}

// Get returns the underlying value. Mutation is only safe from the
// non-realtime side — Go has no const reference to enforce that at
// compile time the way the C++ source this is ported from does via
// overloaded const/non-const accessors, so treating a realtime-side Get()
// as read-only is a caller obligation.
func (s *NRMScopedAccess[T]) Get() *T {
	return s.value
}

// Release releases the access acquired by NewNRMScopedAccess. Calling it
// more than once is a precondition violation.
func (s *NRMScopedAccess[T]) Release() {
	assert.That(!s.released, "farbot: NRMScopedAccess released twice")
	s.released = true
	if s.isRealtime {
		s.parent.RealtimeRelease()
	} else {
		s.parent.NonRealtimeRelease()
	}
}

// RMScopedAccess is a scoped handle for a RealtimeMutatable: acquiring it
// calls the correct side's acquire, and Release calls the matching
// release.
type RMScopedAccess[T any] struct {
	_ noCopy

	parent     *RealtimeMutatable[T]
	isRealtime bool
	value      *T
	released   bool
}

// NewRMScopedAccess acquires parent on behalf of the caller. Pass
// isRealtimeThread true only from the single designated realtime thread.
func NewRMScopedAccess[T any](parent *RealtimeMutatable[T], isRealtimeThread bool) *RMScopedAccess[T] {
	s := &RMScopedAccess[T]{parent: parent, isRealtime: isRealtimeThread}
	if isRealtimeThread {
		s.value = parent.RealtimeAcquire()
	} else {
		s.value = parent.NonRealtimeAcquire()
	}
	return s
}

// Get returns the underlying value. Mutation is only safe from the
// realtime side — see NRMScopedAccess.Get for why this is a caller
// obligation rather than a compiler-checked one in this port.
func (s *RMScopedAccess[T]) Get() *T {
	return s.value
}

// Release releases the access acquired by NewRMScopedAccess. Calling it
// more than once is a precondition violation.
func (s *RMScopedAccess[T]) Release() {
	assert.That(!s.released, "farbot: RMScopedAccess released twice")
	s.released = true
	if s.isRealtime {
		s.parent.RealtimeRelease()
	} else {
		s.parent.NonRealtimeRelease()
	}
}
