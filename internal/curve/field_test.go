package curve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModArithmeticWrapsAround(t *testing.T) {
	pMinusOne := new(big.Int).Sub(P, big.NewInt(1))

	require.Equal(t, 0, modAdd(pMinusOne, big.NewInt(1)).Sign())
	require.Equal(t, pMinusOne, modSub(big.NewInt(0), big.NewInt(1)))
	require.Equal(t, 0, modMul(P, big.NewInt(7)).Sign())
}

func TestModInvRoundTrip(t *testing.T) {
	for _, k := range []int64{1, 2, 168700, 168696, 1 << 30} {
		v := big.NewInt(k)
		inv, err := modInv(v)
		require.NoError(t, err)
		require.Equal(t, big.NewInt(1), modMul(v, inv))
	}
}
