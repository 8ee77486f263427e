// Package assert provides invariant checks that return errors instead of
// panicking.
//
// A failed assertion is logged, recorded as an event on the active span and
// returned as an *AssertionError wrapping ErrAssertionFailed.
package assert
