package prover

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkiot/revocation-registry/internal/curve"
	"github.com/zkiot/revocation-registry/internal/proofreq"
)

var (
	backendOnce sync.Once
	backend     *Groth16
	backendErr  error
)

// sharedBackend compiles the circuit and runs setup once for the whole test
// package; it is by far the most expensive step.
func sharedBackend(t *testing.T) *Groth16 {
	t.Helper()
	backendOnce.Do(func() {
		backend, backendErr = NewGroth16()
	})
	require.NoError(t, backendErr)
	return backend
}

// membershipRequest builds a valid request for a one-element revoked set.
func membershipRequest(t *testing.T, id int64) *proofreq.Request {
	t.Helper()
	element := big.NewInt(id)
	witness := curve.Identity()
	shifted, err := curve.ScalarBaseMul(element)
	require.NoError(t, err)
	acc, err := witness.Add(shifted)
	require.NoError(t, err)

	req, err := proofreq.NewBuilder().Build(element, witness, acc)
	require.NoError(t, err)
	return req
}

func TestProveAndVerify(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	g := sharedBackend(t)
	ctx := context.Background()

	req := membershipRequest(t, 12345)
	proof, err := g.Prove(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, proof)

	ok, err := g.Verify(ctx, proof, [2]*big.Int{req.Public.AccumulatorX, req.Public.AccumulatorY})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsWrongAccumulator(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	g := sharedBackend(t)
	ctx := context.Background()

	req := membershipRequest(t, 12345)
	proof, err := g.Prove(ctx, req)
	require.NoError(t, err)

	// Public signals from a different accumulator: proof must not verify.
	other := membershipRequest(t, 67890)
	ok, err := g.Verify(ctx, proof, [2]*big.Int{other.Public.AccumulatorX, other.Public.AccumulatorY})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProveRejectsUnsatisfiableAssignment(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	g := sharedBackend(t)
	ctx := context.Background()

	// Hand-built request whose witness does not satisfy the equation. The
	// builder would refuse to produce this; the prover must fail too rather
	// than emit an unsound proof.
	shifted, err := curve.ScalarBaseMul(big.NewInt(12345))
	require.NoError(t, err)
	acc, err := curve.Identity().Add(shifted)
	require.NoError(t, err)
	wrongWitness, err := curve.ScalarBaseMul(big.NewInt(31337))
	require.NoError(t, err)

	bad := &proofreq.Request{
		Public: proofreq.PublicInputs{
			AccumulatorX: acc.X(),
			AccumulatorY: acc.Y(),
		},
		Private: proofreq.PrivateInputs{
			Element:  big.NewInt(12345),
			WitnessX: wrongWitness.X(),
			WitnessY: wrongWitness.Y(),
		},
	}

	_, err = g.Prove(ctx, bad)
	require.ErrorIs(t, err, ErrProofGeneration)

	_, err = g.Prove(ctx, nil)
	require.ErrorIs(t, err, ErrProofGeneration)
}
