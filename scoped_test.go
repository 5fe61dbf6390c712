package farbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNRMScopedAccess_ReleaseOnEveryExitPath(t *testing.T) {
	nrm := NewNonRealtimeMutatable(1)

	func() {
		s := NewNRMScopedAccess(nrm, false)
		defer s.Release()
		*s.Get() = 2
	}()

	rt := NewNRMScopedAccess(nrm, true)
	require.Equal(t, 2, *rt.Get())
	rt.Release()
}

func TestNRMScopedAccess_DoubleRelease_Panics(t *testing.T) {
	nrm := NewNonRealtimeMutatable(1)
	s := NewNRMScopedAccess(nrm, true)
	s.Release()
	assert.Panics(t, func() {
		s.Release()
	})
}

func TestRMScopedAccess_ReleaseOnEveryExitPath(t *testing.T) {
	rm := NewRealtimeMutatable(1)

	func() {
		s := NewRMScopedAccess(rm, true)
		defer s.Release()
		*s.Get() = 2
	}()

	nonrt := NewRMScopedAccess(rm, false)
	defer nonrt.Release()
	require.Equal(t, 2, *nonrt.Get())
}

func TestRMScopedAccess_DoubleRelease_Panics(t *testing.T) {
	rm := NewRealtimeMutatable(1)
	s := NewRMScopedAccess(rm, false)
	s.Release()
	assert.Panics(t, func() {
		s.Release()
	})
}
