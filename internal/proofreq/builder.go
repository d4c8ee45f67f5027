// Package proofreq validates and packages prover inputs. It is the last gate
// before the external proving backend: a witness that fails the membership
// equation here is never forwarded downstream.
package proofreq

import (
	"errors"
	"math/big"

	"github.com/zkiot/revocation-registry/internal/curve"
)

var (
	ErrInvalidElement      = errors.New("proofreq: element must be in [1, p-1]")
	ErrWitnessInconsistent = errors.New("proofreq: witness does not satisfy the membership equation")
)

// PublicInputs are the signals the verifier sees.
type PublicInputs struct {
	AccumulatorX *big.Int
	AccumulatorY *big.Int
}

// PrivateInputs stay with the prover.
type PrivateInputs struct {
	Element  *big.Int
	WitnessX *big.Int
	WitnessY *big.Int
}

// Request is a structured prover input for one membership proof.
type Request struct {
	Public  PublicInputs
	Private PrivateInputs
}

// Builder pre-checks and packages proof requests. It never invokes the
// prover itself, which keeps the accumulator/witness logic testable without
// a proving backend.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build recomputes witness + element*G and compares it against the current
// accumulator. On mismatch it returns ErrWitnessInconsistent — the request
// is never built, never retried and never auto-corrected, since a stale or
// tampered witness signals a bug elsewhere in the system.
func (b *Builder) Build(deviceID *big.Int, witness, acc curve.Point) (*Request, error) {
	if deviceID == nil || deviceID.Sign() <= 0 || deviceID.Cmp(curve.P) >= 0 {
		return nil, ErrInvalidElement
	}

	ok, err := curve.MembershipHolds(acc, deviceID, witness)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWitnessInconsistent
	}

	return &Request{
		Public: PublicInputs{
			AccumulatorX: acc.X(),
			AccumulatorY: acc.Y(),
		},
		Private: PrivateInputs{
			Element:  new(big.Int).Set(deviceID),
			WitnessX: witness.X(),
			WitnessY: witness.Y(),
		},
	}, nil
}
