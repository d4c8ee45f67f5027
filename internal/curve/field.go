package curve

import (
	"errors"
	"math/big"
)

// ErrSingularity reports a zero denominator during point addition. It must
// never occur for valid on-curve inputs; hitting it means a caller fed the
// group law malformed points or scalars.
var ErrSingularity = errors.New("curve: arithmetic singularity (zero denominator)")

func modAdd(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Add(a, b), P)
}

func modSub(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Sub(a, b), P)
}

func modMul(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), P)
}

// modInv returns a^-1 mod P, or ErrSingularity when no inverse exists.
func modInv(a *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(a, P)
	if inv == nil {
		return nil, ErrSingularity
	}
	return inv, nil
}

// modDiv returns a/b mod P.
func modDiv(a, b *big.Int) (*big.Int, error) {
	inv, err := modInv(b)
	if err != nil {
		return nil, err
	}
	return modMul(a, inv), nil
}
