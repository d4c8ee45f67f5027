// Package prover holds the proving-backend collaborator contracts and a
// Groth16 implementation. The core never depends on it: proof requests are
// validated and packaged upstream, and a proving failure cannot touch
// registry state.
package prover

import (
	"context"
	"errors"
	"math/big"

	"github.com/zkiot/revocation-registry/internal/proofreq"
)

// ErrProofGeneration reports a failure inside the proving backend.
var ErrProofGeneration = errors.New("prover: proof generation failed")

// Prover turns a validated proof request into an opaque proof blob.
type Prover interface {
	Prove(ctx context.Context, req *proofreq.Request) ([]byte, error)
}

// Verifier checks a proof against the public signals
// [accumulatorX, accumulatorY].
type Verifier interface {
	Verify(ctx context.Context, proof []byte, publicSignals [2]*big.Int) (bool, error)
}
