// Package lagrange computes Shoup's Delta-weighted Lagrange coefficients
// over the integers, avoiding any modular inverse of the (secret) sharing
// modulus m.
//
// Grounded on original_source/src/crypto-tss-rsa/common.h ("lambda").
package lagrange

import "math/big"

// Factorial returns l! as a *big.Int. This is Delta in spec.md's notation —
// the common denominator that lets Lagrange interpolation over Z_m be
// evaluated without ever inverting modulo the secret m.
func Factorial(l int) *big.Int {
	delta := big.NewInt(1)
	for i := 2; i <= l; i++ {
		delta.Mul(delta, big.NewInt(int64(i)))
	}
	return delta
}

// Coefficient computes
//
//	lambda_{i,j}^S = delta * Prod_{t in S, t != j} (i - t) / Prod_{t in S, t != j} (j - t)
//
// over Z exactly. delta = l! guarantees the division is exact for any
// k-subset S of {1,...,l}, regardless of which subset is chosen — this is
// Shoup's trick that sidesteps inverting modulo the secret sharing modulus.
//
// i, j and the elements of S are ordinary small integers (party indices);
// delta is the precomputed factorial.
func Coefficient(i, j int64, s []int64, delta *big.Int) *big.Int {
	num := big.NewInt(1)
	den := big.NewInt(1)
	bi := big.NewInt(i)
	bj := big.NewInt(j)
	for _, t := range s {
		if t == j {
			continue
		}
		bt := big.NewInt(t)
		num.Mul(num, new(big.Int).Sub(bi, bt))
		den.Mul(den, new(big.Int).Sub(bj, bt))
	}
	num.Mul(num, delta)
	return new(big.Int).Div(num, den)
}
