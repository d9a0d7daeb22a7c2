package heist

import "time"

// Linear-congruential constants (Numerical Recipes).
const (
	lcgA = 1664525
	lcgC = 1013904223
	lcgM = 1 << 32
)

// Draw derives a pseudo-random integer in [0, WeightScale) from the current
// second-resolution time and the caller's identity bytes, folded by summing.
//
// This source is intentionally weak: anyone who can read the same clock and
// identity before submitting can predict the result, and a caller can shop
// for a favorable second. It is kept byte-for-byte compatible with the
// original program; substituting a secure RNG would change observable
// outcomes that existing callers and tests rely on.
func Draw(now time.Time, identity string) uint64 {
	var sum uint64
	for _, b := range []byte(identity) {
		sum += uint64(b)
	}
	x := uint64(now.Unix()) ^ sum
	value := (lcgA*x + lcgC) % lcgM
	return uint64(float64(value) / float64(lcgM) * WeightScale)
}
