package tssrsa

import (
	"math/big"

	"github.com/cryptovault-labs/tssrsa/pkg/bn"
	"github.com/cryptovault-labs/tssrsa/pkg/lagrange"
	"github.com/cryptovault-labs/tssrsa/pkg/polynomial"
)

// validKeyBits are the only modulus sizes the generator accepts, per
// spec.md §4.4.
var validKeyBits = map[int]bool{1024: true, 2048: true, 3072: true, 4096: true}

func validateThreshold(keyBits, l, k int) error {
	if !validKeyBits[keyBits] {
		return newError(InvalidParameter, "GenerateKey", "keyBits=%d is not one of 1024/2048/3072/4096", keyBits)
	}
	if l < 2 {
		return newError(InvalidParameter, "GenerateKey", "l=%d must be >= 2", l)
	}
	if k > l {
		return newError(InvalidParameter, "GenerateKey", "k=%d must be <= l=%d", k, l)
	}
	if k < l/2+1 {
		return newError(InvalidParameter, "GenerateKey", "k=%d below threshold floor(l/2)+1=%d", k, l/2+1)
	}
	return nil
}

// GenerateKey produces a fresh threshold RSA key: l private shares, the
// shared public key, and verification metadata, per spec.md §4.4 steps 1-9.
func GenerateKey(keyBits, l, k int) ([]PrivateShare, *PublicKey, *KeyMeta, error) {
	return GenerateKeyEx(keyBits, l, k, KeyGenParam{})
}

// GenerateKeyEx is GenerateKey but accepts caller-supplied values for any of
// e, p, q, f, vku (zero/nil means "generate"); supplied values are validated
// against the invariants of spec.md §3 (see SPEC_FULL.md §3.1 for the
// per-field "zero sentinel means generate" semantics this implements).
func GenerateKeyEx(keyBits, l, k int, param KeyGenParam) ([]PrivateShare, *PublicKey, *KeyMeta, error) {
	const op = "GenerateKeyEx"

	if err := validateThreshold(keyBits, l, k); err != nil {
		return nil, nil, nil, err
	}

	e := f4
	if param.E != 0 {
		e = param.E
		if e%2 == 0 {
			return nil, nil, nil, newError(InvalidParameter, op, "e=%d must be odd", e)
		}
		if !bn.IsProbablyPrime(big.NewInt(int64(e))) {
			return nil, nil, nil, newError(InvalidParameter, op, "e=%d must be prime", e)
		}
	}
	eBig := big.NewInt(int64(e))

	p, err := suppliedOrGeneratedSafePrime(op, param.P, keyBits/2)
	if err != nil {
		return nil, nil, nil, err
	}
	q, err := suppliedOrGeneratedSafePrime(op, param.Q, keyBits/2-1)
	if err != nil {
		return nil, nil, nil, err
	}
	if p.Cmp(q) == 0 {
		return nil, nil, nil, newError(InvalidParameter, op, "p and q must be distinct")
	}

	n := new(big.Int).Mul(p, q)

	pMinus1 := new(big.Int).Sub(p, bn.One)
	qMinus1 := new(big.Int).Sub(q, bn.One)
	m := new(big.Int).Mul(pMinus1, qMinus1)
	m.Div(m, bn.Four)

	if bn.Gcd(eBig, m).Cmp(bn.One) != 0 {
		return nil, nil, nil, newError(InvalidParameter, op, "e=%d not coprime with phi(n)/4", e)
	}
	if bn.Gcd(bn.Four, eBig).Cmp(bn.One) != 0 {
		return nil, nil, nil, newError(InvalidParameter, op, "e=%d must be coprime with 4", e)
	}

	d, err := bn.InvMod(eBig, m)
	if err != nil {
		return nil, nil, nil, newError(InvalidParameter, op, "e has no inverse mod (p-1)(q-1)/4: %v", err)
	}

	poly, err := polynomial.New(k, d, m)
	if err != nil {
		return nil, nil, nil, newError(InvalidParameter, op, "sampling VSSS polynomial: %v", err)
	}
	indices := make([]int64, l)
	for i := 0; i < l; i++ {
		indices[i] = int64(i + 1)
	}
	points := poly.EvaluateAt(indices)
	poly.Zeroise()

	delta := lagrange.Factorial(l)
	deltaInv, err := bn.InvMod(delta, m)
	if err != nil {
		return nil, nil, nil, newError(InvalidParameter, op, "l!=%s has no inverse mod m: %v", delta, err)
	}

	shares := make([]PrivateShare, l)
	for idx, pt := range points {
		si := new(big.Int).Mul(pt.Value, deltaInv)
		si.Mod(si, m)
		shares[idx] = PrivateShare{Index: int(pt.Index), Si: si}
	}

	f, err := suppliedOrGeneratedCoprime(op, param.F, n)
	if err != nil {
		return nil, nil, nil, err
	}

	vkv, err := bn.PowMod(f, bn.Two, n)
	if err != nil {
		return nil, nil, nil, newError(InvalidParameter, op, "computing vkv: %v", err)
	}

	vki := make([]*big.Int, l)
	for idx, share := range shares {
		vi, err := bn.PowMod(vkv, share.Si, n)
		if err != nil {
			return nil, nil, nil, newError(InvalidParameter, op, "computing vki[%d]: %v", share.Index, err)
		}
		vki[idx] = vi
	}

	vku, err := suppliedOrGeneratedJacobiNonResidue(op, param.Vku, n)
	if err != nil {
		return nil, nil, nil, err
	}

	pub := &PublicKey{N: n, E: eBig}
	meta := &KeyMeta{K: k, L: l, Vkv: vkv, Vki: vki, Vku: vku}

	m.SetInt64(0)
	d.SetInt64(0)

	return shares, pub, meta, nil
}

func suppliedOrGeneratedSafePrime(op string, supplied *big.Int, bits int) (*big.Int, error) {
	if supplied == nil || supplied.Sign() == 0 {
		return bn.RandomSafePrime(bits)
	}
	if !bn.IsProbablyPrime(supplied) {
		return nil, newError(InvalidParameter, op, "supplied prime is not prime")
	}
	half := new(big.Int).Sub(supplied, bn.One)
	half.Div(half, bn.Two)
	if !bn.IsProbablyPrime(half) {
		return nil, newError(InvalidParameter, op, "supplied prime is not a safe prime")
	}
	return new(big.Int).Set(supplied), nil
}

func suppliedOrGeneratedCoprime(op string, supplied, n *big.Int) (*big.Int, error) {
	if supplied == nil || supplied.Sign() == 0 {
		return bn.RandomCoprimeTo(n)
	}
	if supplied.Sign() <= 0 || supplied.Cmp(n) >= 0 {
		return nil, newError(InvalidParameter, op, "supplied value must be in (0, n)")
	}
	if bn.Gcd(supplied, n).Cmp(bn.One) != 0 {
		return nil, newError(InvalidParameter, op, "supplied value must be coprime with n")
	}
	return new(big.Int).Set(supplied), nil
}

func suppliedOrGeneratedJacobiNonResidue(op string, supplied, n *big.Int) (*big.Int, error) {
	if supplied == nil || supplied.Sign() == 0 {
		for {
			v, err := bn.RandomCoprimeTo(n)
			if err != nil {
				return nil, newError(InvalidParameter, op, "sampling vku: %v", err)
			}
			if bn.Jacobi(v, n) == -1 {
				return v, nil
			}
		}
	}
	if supplied.Sign() <= 0 || supplied.Cmp(n) >= 0 {
		return nil, newError(InvalidParameter, op, "supplied vku must be in (0, n)")
	}
	if bn.Gcd(supplied, n).Cmp(bn.One) != 0 {
		return nil, newError(InvalidParameter, op, "supplied vku must be coprime with n")
	}
	if bn.Jacobi(supplied, n) != -1 {
		return nil, newError(InvalidParameter, op, "supplied vku must have Jacobi symbol -1")
	}
	return new(big.Int).Set(supplied), nil
}
