// Package idgen implements the Clock & ID service named in spec.md §2:
// the monotonic "now" plus every reference/number minted across the Ledger,
// NEFT/RTGS, and onboarding flows.
package idgen

import "time"

// SystemClock is the concrete ports.Clock backed by the wall clock.
type SystemClock struct{}

// NewSystemClock returns a new SystemClock.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
