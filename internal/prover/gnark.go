package prover

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"

	"github.com/zkiot/revocation-registry/internal/proofreq"
)

// Groth16 proves and verifies membership requests with gnark's Groth16
// backend over BN254. Setup runs a single-party key generation, which is
// fine for tests and development; a production deployment substitutes keys
// from a proper ceremony.
type Groth16 struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// NewGroth16 compiles the membership circuit and generates the key pair.
// This is expensive (seconds); do it once at startup and reuse the instance.
func NewGroth16() (*Groth16, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &membershipCircuit{})
	if err != nil {
		return nil, fmt.Errorf("compiling membership circuit: %w", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup: %w", err)
	}
	return &Groth16{ccs: ccs, pk: pk, vk: vk}, nil
}

// Prove generates a serialized proof for a validated request.
func (g *Groth16) Prove(_ context.Context, req *proofreq.Request) ([]byte, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrProofGeneration)
	}

	assignment := &membershipCircuit{
		Accumulator: point(req.Public.AccumulatorX, req.Public.AccumulatorY),
		Element:     req.Private.Element,
		Witness:     point(req.Private.WitnessX, req.Private.WitnessY),
	}
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}

	proof, err := groth16.Prove(g.ccs, g.pk, w)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}
	return buf.Bytes(), nil
}

// Verify checks a serialized proof against the public accumulator
// coordinates. An invalid proof returns (false, nil); errors are reserved
// for malformed inputs.
func (g *Groth16) Verify(_ context.Context, proofBytes []byte, publicSignals [2]*big.Int) (bool, error) {
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return false, fmt.Errorf("decoding proof: %w", err)
	}

	assignment := &membershipCircuit{
		Accumulator: point(publicSignals[0], publicSignals[1]),
	}
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("building public witness: %w", err)
	}

	if err := groth16.Verify(proof, g.vk, w); err != nil {
		return false, nil
	}
	return true, nil
}

func point(x, y *big.Int) twistededwards.Point {
	return twistededwards.Point{X: x, Y: y}
}
