// Package accumulator holds the single curve point that summarizes the
// revoked-device set. The accumulator is monotonic: elements are only ever
// added, there is no removal in this construction.
package accumulator

import (
	"math/big"

	"github.com/zkiot/revocation-registry/internal/curve"
)

// Accumulator is a value type: Add returns the successor state and leaves
// the receiver untouched. Mutation discipline (one writer, lockstep with the
// witness set) is the revocation engine's job, not this package's.
type Accumulator struct {
	value curve.Point
}

// New returns the empty accumulator, the curve identity (0, 1).
func New() Accumulator {
	return Accumulator{value: curve.Identity()}
}

// FromPoint wraps an existing accumulator value, e.g. one read back from the
// ledger.
func FromPoint(p curve.Point) Accumulator {
	return Accumulator{value: p}
}

// Value returns the current curve point.
func (a Accumulator) Value() curve.Point {
	return a.value
}

// Add returns the accumulator with elementID folded in:
// value + elementID*G. Deterministic given the current state and the id.
func (a Accumulator) Add(elementID *big.Int) (Accumulator, error) {
	shifted, err := curve.ScalarBaseMul(elementID)
	if err != nil {
		return Accumulator{}, err
	}
	next, err := a.value.Add(shifted)
	if err != nil {
		return Accumulator{}, err
	}
	return Accumulator{value: next}, nil
}

// Equal reports whether two accumulator states hold the same point.
func (a Accumulator) Equal(b Accumulator) bool {
	return a.value.Equal(b.value)
}
