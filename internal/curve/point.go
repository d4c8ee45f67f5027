package curve

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrOffCurve      = errors.New("curve: point is not on the curve")
	ErrInvalidScalar = errors.New("curve: scalar must be a non-negative integer below the field modulus")
)

// Point is an affine point on the curve. Points are immutable: every
// operation returns a new Point, and construction goes through NewPoint,
// which enforces the curve equation.
type Point struct {
	x, y *big.Int
}

// NewPoint validates that (x, y) lies on the curve and returns it as a Point.
// Coordinates are copied; the caller keeps ownership of its arguments.
func NewPoint(x, y *big.Int) (Point, error) {
	if x == nil || y == nil {
		return Point{}, ErrOffCurve
	}
	if x.Sign() < 0 || x.Cmp(P) >= 0 || y.Sign() < 0 || y.Cmp(P) >= 0 {
		return Point{}, ErrOffCurve
	}
	p := Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}
	if !p.onCurve() {
		return Point{}, ErrOffCurve
	}
	return p, nil
}

// X returns a copy of the x coordinate.
func (p Point) X() *big.Int { return new(big.Int).Set(p.x) }

// Y returns a copy of the y coordinate.
func (p Point) Y() *big.Int { return new(big.Int).Set(p.y) }

// Equal reports whether both coordinates match.
func (p Point) Equal(q Point) bool {
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// IsIdentity reports whether p is the neutral element (0, 1).
func (p Point) IsIdentity() bool {
	return p.x.Sign() == 0 && p.y.Cmp(one) == 0
}

func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)", p.x, p.y)
}

// onCurve checks a*x^2 + y^2 == 1 + d*x^2*y^2 mod p.
func (p Point) onCurve() bool {
	x2 := modMul(p.x, p.x)
	y2 := modMul(p.y, p.y)
	lhs := modAdd(modMul(A, x2), y2)
	rhs := modAdd(one, modMul(D, modMul(x2, y2)))
	return lhs.Cmp(rhs) == 0
}

// Add computes p + q with the unified twisted-Edwards addition law:
//
//	x3 = (x1*y2 + y1*x2) / (1 + d*x1*x2*y1*y2)
//	y3 = (y1*y2 - a*x1*x2) / (1 - d*x1*x2*y1*y2)
//
// The law is complete for valid points, so a zero denominator surfaces as
// ErrSingularity rather than being coerced.
func (p Point) Add(q Point) (Point, error) {
	xx := modMul(p.x, q.x)
	yy := modMul(p.y, q.y)
	t := modMul(D, modMul(xx, yy))

	xNum := modAdd(modMul(p.x, q.y), modMul(p.y, q.x))
	x3, err := modDiv(xNum, modAdd(one, t))
	if err != nil {
		return Point{}, err
	}

	yNum := modSub(yy, modMul(A, xx))
	y3, err := modDiv(yNum, modSub(one, t))
	if err != nil {
		return Point{}, err
	}

	return Point{x: x3, y: y3}, nil
}

// ScalarMul computes k*p by double-and-add, scanning k's bits from least to
// most significant: O(log k) point additions.
func ScalarMul(p Point, k *big.Int) (Point, error) {
	if k == nil || k.Sign() < 0 || k.Cmp(P) >= 0 {
		return Point{}, ErrInvalidScalar
	}
	result := Identity()
	base := p
	var err error
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			result, err = result.Add(base)
			if err != nil {
				return Point{}, err
			}
		}
		base, err = base.Add(base)
		if err != nil {
			return Point{}, err
		}
	}
	return result, nil
}

// ScalarBaseMul computes k*G.
func ScalarBaseMul(k *big.Int) (Point, error) {
	return ScalarMul(Generator(), k)
}

// MembershipHolds is the witness equation shared by the revocation engine,
// the proof-request builder and the ledger check: it reports whether
// acc == witness + element*G. Zero-value Points (never constructed through
// NewPoint) are rejected as ErrOffCurve.
func MembershipHolds(acc Point, element *big.Int, witness Point) (bool, error) {
	if acc.x == nil || acc.y == nil || witness.x == nil || witness.y == nil {
		return false, ErrOffCurve
	}
	shifted, err := ScalarBaseMul(element)
	if err != nil {
		return false, err
	}
	sum, err := witness.Add(shifted)
	if err != nil {
		return false, err
	}
	return sum.Equal(acc), nil
}
