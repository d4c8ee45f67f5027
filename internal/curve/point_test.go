package curve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratorOnCurve(t *testing.T) {
	g := Generator()
	require.True(t, g.onCurve())

	_, err := NewPoint(g.X(), g.Y())
	require.NoError(t, err)
}

func TestIdentityIsNeutral(t *testing.T) {
	g := Generator()

	sum, err := g.Add(Identity())
	require.NoError(t, err)
	require.True(t, sum.Equal(g))

	sum, err = Identity().Add(g)
	require.NoError(t, err)
	require.True(t, sum.Equal(g))

	require.True(t, Identity().IsIdentity())
	require.False(t, g.IsIdentity())
}

func TestAddCommutesAndAssociates(t *testing.T) {
	g := Generator()
	p, err := ScalarBaseMul(big.NewInt(3))
	require.NoError(t, err)
	q, err := ScalarBaseMul(big.NewInt(7))
	require.NoError(t, err)

	pq, err := p.Add(q)
	require.NoError(t, err)
	qp, err := q.Add(p)
	require.NoError(t, err)
	require.True(t, pq.Equal(qp))

	left, err := pq.Add(g)
	require.NoError(t, err)
	qg, err := q.Add(g)
	require.NoError(t, err)
	right, err := p.Add(qg)
	require.NoError(t, err)
	require.True(t, left.Equal(right))
}

func TestAddStaysOnCurve(t *testing.T) {
	p := Generator()
	for i := 0; i < 16; i++ {
		next, err := p.Add(Generator())
		require.NoError(t, err)
		require.True(t, next.onCurve(), "left the curve after %d additions", i+1)
		p = next
	}
}

func TestScalarMul(t *testing.T) {
	g := Generator()

	zero, err := ScalarMul(g, big.NewInt(0))
	require.NoError(t, err)
	require.True(t, zero.IsIdentity())

	same, err := ScalarMul(g, big.NewInt(1))
	require.NoError(t, err)
	require.True(t, same.Equal(g))

	double, err := g.Add(g)
	require.NoError(t, err)
	two, err := ScalarMul(g, big.NewInt(2))
	require.NoError(t, err)
	require.True(t, two.Equal(double))

	// k1*G + k2*G == (k1+k2)*G
	a, err := ScalarBaseMul(big.NewInt(12345))
	require.NoError(t, err)
	b, err := ScalarBaseMul(big.NewInt(67890))
	require.NoError(t, err)
	sum, err := a.Add(b)
	require.NoError(t, err)
	direct, err := ScalarBaseMul(big.NewInt(12345 + 67890))
	require.NoError(t, err)
	require.True(t, sum.Equal(direct))
}

func TestScalarMulRejectsBadScalars(t *testing.T) {
	g := Generator()

	_, err := ScalarMul(g, nil)
	require.ErrorIs(t, err, ErrInvalidScalar)

	_, err = ScalarMul(g, big.NewInt(-1))
	require.ErrorIs(t, err, ErrInvalidScalar)

	_, err = ScalarMul(g, new(big.Int).Set(P))
	require.ErrorIs(t, err, ErrInvalidScalar)
}

func TestNewPointRejectsOffCurve(t *testing.T) {
	g := Generator()

	_, err := NewPoint(nil, g.Y())
	require.ErrorIs(t, err, ErrOffCurve)

	bad := new(big.Int).Add(g.X(), big.NewInt(1))
	_, err = NewPoint(bad, g.Y())
	require.ErrorIs(t, err, ErrOffCurve)

	_, err = NewPoint(new(big.Int).Set(P), big.NewInt(1))
	require.ErrorIs(t, err, ErrOffCurve)
}

func TestInverseOfZeroIsSingular(t *testing.T) {
	_, err := modInv(big.NewInt(0))
	require.ErrorIs(t, err, ErrSingularity)

	_, err = modDiv(big.NewInt(1), new(big.Int).Set(P))
	require.ErrorIs(t, err, ErrSingularity)
}

func TestMembershipHolds(t *testing.T) {
	id := big.NewInt(4242)
	shifted, err := ScalarBaseMul(id)
	require.NoError(t, err)

	witness := Identity()
	acc, err := witness.Add(shifted)
	require.NoError(t, err)

	ok, err := MembershipHolds(acc, id, witness)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = MembershipHolds(acc, big.NewInt(4243), witness)
	require.NoError(t, err)
	require.False(t, ok)
}

// Zero-value Points never went through NewPoint; the predicate must reject
// them instead of dereferencing nil coordinates.
func TestMembershipHoldsRejectsZeroValuePoints(t *testing.T) {
	acc, err := ScalarBaseMul(big.NewInt(4242))
	require.NoError(t, err)

	_, err = MembershipHolds(Point{}, big.NewInt(4242), Identity())
	require.ErrorIs(t, err, ErrOffCurve)

	_, err = MembershipHolds(acc, big.NewInt(4242), Point{})
	require.ErrorIs(t, err, ErrOffCurve)
}
