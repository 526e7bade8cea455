// Package polynomial implements plain (non-verifiable) Shamir polynomial
// sampling and evaluation over a bounded modulus, used by key generation to
// split the RSA decryption exponent into shares.
//
// Grounded on original_source/src/crypto-tss-rsa/tss_rsa.cpp
// (InternalGenerateKey's use of sss::vsss::MakeShares/RecoverSecret) and
// named after the teacher's pkg/math/polynomial package. Unlike a true VSSS,
// this package never produces or checks commitments — see DESIGN.md and
// SPEC_FULL.md §3 for why that Open Question is resolved this way.
package polynomial

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Polynomial is a degree-(len(coefficients)-1) polynomial over Z_m with
// coefficients[0] as the constant term.
type Polynomial struct {
	modulus      *big.Int
	coefficients []*big.Int
}

// New samples a degree-(threshold-1) polynomial over Z_modulus with the
// given constant term, and uniformly random higher coefficients in [0, modulus).
func New(threshold int, constant, modulus *big.Int) (*Polynomial, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("polynomial: threshold must be >= 1, got %d", threshold)
	}
	if modulus.Sign() <= 0 {
		return nil, fmt.Errorf("polynomial: modulus must be positive")
	}

	coeffs := make([]*big.Int, threshold)
	coeffs[0] = new(big.Int).Mod(constant, modulus)
	for i := 1; i < threshold; i++ {
		c, err := rand.Int(rand.Reader, modulus)
		if err != nil {
			return nil, fmt.Errorf("polynomial: sampling coefficient %d: %w", i, err)
		}
		coeffs[i] = c
	}
	return &Polynomial{modulus: modulus, coefficients: coeffs}, nil
}

// Evaluate returns f(x) mod m using Horner's method.
func (p *Polynomial) Evaluate(x *big.Int) *big.Int {
	acc := new(big.Int).Set(p.coefficients[len(p.coefficients)-1])
	for i := len(p.coefficients) - 2; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p.coefficients[i])
		acc.Mod(acc, p.modulus)
	}
	return acc
}

// Point is one evaluation (index, value) of a polynomial, the unit the
// dealer distributes to each party.
type Point struct {
	Index int64
	Value *big.Int
}

// EvaluateAt evaluates the polynomial at each of the given indices and
// returns the resulting points in the same order; key generation passes
// 1..l, mirroring the loop in tss_rsa.cpp InternalGenerateKey that calls
// MakeShares for indices 1..l.
func (p *Polynomial) EvaluateAt(indices []int64) []Point {
	points := make([]Point, len(indices))
	for i, idx := range indices {
		points[i] = Point{
			Index: idx,
			Value: p.Evaluate(big.NewInt(idx)),
		}
	}
	return points
}

// Zeroise overwrites the polynomial's coefficients with zero before the
// polynomial is dropped, per spec.md §5's secret-zeroisation requirement
// for VSSS coefficients.
func (p *Polynomial) Zeroise() {
	for _, c := range p.coefficients {
		c.SetInt64(0)
	}
}
