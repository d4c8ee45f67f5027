package prover

import (
	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
)

// Generator of the revocation subgroup, same point as internal/curve.
const (
	baseX = "5299619240641551281634865583518297030282874472190772894086521144482721001553"
	baseY = "16950150798460657717958625567821834550301663161624707787222815936182638968203"
)

// membershipCircuit constrains witness + element*G == accumulator on the
// BN254 companion twisted-Edwards curve. The accumulator is the only public
// input; element and witness stay private, so the proof reveals membership
// and nothing else.
type membershipCircuit struct {
	Accumulator twistededwards.Point `gnark:",public"`
	Element     frontend.Variable
	Witness     twistededwards.Point
}

func (c *membershipCircuit) Define(api frontend.API) error {
	ed, err := twistededwards.NewEdCurve(api, tedwards.BN254)
	if err != nil {
		return err
	}

	ed.AssertIsOnCurve(c.Witness)

	base := twistededwards.Point{X: baseX, Y: baseY}
	shifted := ed.ScalarMul(base, c.Element)
	sum := ed.Add(c.Witness, shifted)

	api.AssertIsEqual(sum.X, c.Accumulator.X)
	api.AssertIsEqual(sum.Y, c.Accumulator.Y)
	return nil
}
