package curve

import "math/big"

// Baby Jubjub, the twisted-Edwards companion curve of BN254:
// a*x^2 + y^2 = 1 + d*x^2*y^2 over F_p, where p is the BN254 scalar field.
// The constants are process-wide and never mutated.
var (
	// P is the prime modulus of the base field.
	P = mustInt("21888242871839275222246405745257275088548364400416034343698204186575808495617")

	// A and D are the curve coefficients.
	A = mustInt("168700")
	D = mustInt("168696")

	gX = mustInt("5299619240641551281634865583518297030282874472190772894086521144482721001553")
	gY = mustInt("16950150798460657717958625567821834550301663161624707787222815936182638968203")

	one = big.NewInt(1)
)

// Generator returns the fixed base point G.
func Generator() Point {
	return Point{x: new(big.Int).Set(gX), y: new(big.Int).Set(gY)}
}

// Identity returns the neutral element (0, 1) of the curve group.
func Identity() Point {
	return Point{x: big.NewInt(0), y: big.NewInt(1)}
}

func mustInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("curve: invalid integer constant " + s)
	}
	return n
}
