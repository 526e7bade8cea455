// Package bn implements the "BigInt" external collaborator contract that
// spec.md assigns to an arbitrary-precision integer library: modular
// exponentiation, modular inverse, Jacobi symbols, extended Euclid, safe
// prime search, and big-endian byte/hex conversion.
//
// Every routine here is a thin, allocation-light wrapper over math/big —
// see DESIGN.md for why no third-party arbitrary-precision library from the
// retrieved example pack can serve this role.
package bn

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
	four = big.NewInt(4)
)

// Zero, One, Two and Four are shared immutable constants, mirroring the
// teacher's module-level constant style (f4, L1 in the original).
var (
	Zero = big.NewInt(0)
	One  = big.NewInt(1)
	Two  = big.NewInt(2)
	Four = big.NewInt(4)
)

// PowMod returns base^exp mod m. exp may be negative, in which case the
// modular inverse of base is used first (matching the original's use of
// negative exponents in RSASigShareProof::Verify, e.g. vi.PowM(c*-1, n)).
func PowMod(base, exp, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("bn: PowMod: modulus must be positive")
	}
	if exp.Sign() >= 0 {
		return new(big.Int).Exp(base, exp, m), nil
	}
	inv, err := InvMod(base, m)
	if err != nil {
		return nil, fmt.Errorf("bn: PowMod: %w", err)
	}
	return new(big.Int).Exp(inv, new(big.Int).Neg(exp), m), nil
}

// InvMod returns the inverse of a modulo m, failing if a and m are not
// coprime.
func InvMod(a, m *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(a, m)
	if inv == nil {
		return nil, fmt.Errorf("bn: InvMod: %s has no inverse mod %s", a.String(), m.String())
	}
	return inv, nil
}

// Gcd returns gcd(a, b).
func Gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// ExtendedEuclidean solves a*x + b*y = gcd(a, b) and returns (x, y, gcd).
func ExtendedEuclidean(a, b *big.Int) (x, y, gcd *big.Int) {
	gcd = new(big.Int)
	x = new(big.Int)
	y = new(big.Int)
	gcd.GCD(x, y, a, b)
	return x, y, gcd
}

// Jacobi returns the Jacobi symbol (a/n), one of -1, 0, 1.
func Jacobi(a, n *big.Int) int {
	return big.Jacobi(a, n)
}

// BitLen returns the bit length of n.
func BitLen(n *big.Int) int {
	return n.BitLen()
}

// ToBytesBE returns the minimum-length big-endian unsigned byte
// representation of n (no sign, no leading zero padding beyond what
// big.Int.Bytes already omits). This is the exact "minimum-length
// big-endian unsigned byte string" serialization spec.md §9 requires for
// the Fiat-Shamir transcript. FromBytesBE is its inverse.
func ToBytesBE(n *big.Int) []byte {
	return n.Bytes()
}

// FromBytesBE decodes a big-endian unsigned byte string into an integer.
func FromBytesBE(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// ToHexStr renders n as an uppercase hex string, matching the original's
// ToHexStr used throughout the tagged-record serialization.
func ToHexStr(n *big.Int) string {
	return fmt.Sprintf("%X", n)
}

// FromHexStr parses an uppercase (or any-case) hex string into an integer.
// Returns an error if s is not valid hex.
func FromHexStr(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("bn: FromHexStr: invalid hex string %q", s)
	}
	return n, nil
}

// RandomInRange returns a uniform random integer in [lo, hi).
func RandomInRange(lo, hi *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(hi, lo)
	if span.Sign() <= 0 {
		return nil, fmt.Errorf("bn: RandomInRange: empty range [%s, %s)", lo, hi)
	}
	r, err := rand.Int(rand.Reader, span)
	if err != nil {
		return nil, fmt.Errorf("bn: RandomInRange: %w", err)
	}
	return r.Add(r, lo), nil
}

// RandomBelow returns a uniform random integer in [0, hi).
func RandomBelow(hi *big.Int) (*big.Int, error) {
	return RandomInRange(zero, hi)
}

// RandomCoprimeTo returns a uniform random integer f in [1, n) with
// gcd(f, n) = 1, matching RandomBNLtCoPrime in the original rand collaborator.
func RandomCoprimeTo(n *big.Int) (*big.Int, error) {
	for {
		f, err := RandomInRange(one, n)
		if err != nil {
			return nil, err
		}
		if Gcd(f, n).Cmp(one) == 0 {
			return f, nil
		}
	}
}

// IsProbablyPrime reports whether n passes a strong probabilistic
// primality test. Matches the original's BN::IsProbablyPrime contract.
func IsProbablyPrime(n *big.Int) bool {
	return n.ProbablyPrime(64)
}

// RandomSafePrime returns a probable safe prime p = 2p'+1 of the given bit
// length, where p' is also probably prime. Mirrors
// safeheron::rand::RandomSafePrime.
func RandomSafePrime(bits int) (*big.Int, error) {
	if bits < 3 {
		return nil, fmt.Errorf("bn: RandomSafePrime: bit length %d too small", bits)
	}
	for {
		pPrime, err := rand.Prime(rand.Reader, bits-1)
		if err != nil {
			return nil, fmt.Errorf("bn: RandomSafePrime: %w", err)
		}
		p := new(big.Int).Lsh(pPrime, 1)
		p.Add(p, one)
		if p.BitLen() != bits {
			continue
		}
		if IsProbablyPrime(p) {
			return p, nil
		}
	}
}
