package farbot_test

import (
	"fmt"

	"github.com/hogliux/farbot"
)

// BiquadCoeffs is the running example from the farbot C++ source this
// module is ported from: a digital biquad filter's coefficients, read by
// a DSP callback and tweaked from a UI thread.
type BiquadCoeffs struct {
	B0, B1, B2, A1, A2 float64
}

// Example shows the intended deployment: the realtime thread acquires,
// reads, and releases on every audio callback; a non-realtime thread
// replaces the coefficients whenever the user changes a filter parameter.
func Example() {
	shared := farbot.NewNonRealtimeMutatable(BiquadCoeffs{B0: 1, B1: 0, B2: 0, A1: 0, A2: 0})

	rt := farbot.NewNRMScopedAccess(shared, true)
	fmt.Println("realtime sees b0 =", rt.Get().B0)
	rt.Release()

	nonrt := farbot.NewNRMScopedAccess(shared, false)
	nonrt.Get().B0 = 0.5
	nonrt.Get().B1 = 0.5
	nonrt.Release()

	rt = farbot.NewNRMScopedAccess(shared, true)
	fmt.Println("realtime sees b0 =", rt.Get().B0)
	rt.Release()

	// Output:
	// realtime sees b0 = 1
	// realtime sees b0 = 0.5
}
