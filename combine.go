package tssrsa

import (
	"math/big"

	"github.com/cryptovault-labs/tssrsa/pkg/bn"
	"github.com/cryptovault-labs/tssrsa/pkg/lagrange"
	"github.com/cryptovault-labs/tssrsa/pkg/proof"
)

// CombineSignatures reconstructs the RSA signature over doc from a set of
// signature shares, verifying every share's proof first (spec.md §4.6,
// validate=true). The first invalid share aborts the combine and returns no
// partial output (fail-stop, spec.md §7).
func CombineSignatures(doc []byte, shares []SigShare, pub *PublicKey, meta *KeyMeta) (*big.Int, error) {
	return combine(doc, shares, pub, meta, true)
}

// CombineSignaturesWithoutValidation is CombineSignatures but skips proof
// verification (~50x faster per spec.md §4.6); callers who trust the
// channel the shares arrived on may use this fast path. Index/threshold
// structural checks still apply.
func CombineSignaturesWithoutValidation(doc []byte, shares []SigShare, pub *PublicKey, meta *KeyMeta) (*big.Int, error) {
	return combine(doc, shares, pub, meta, false)
}

func combine(doc []byte, shares []SigShare, pub *PublicKey, meta *KeyMeta, validate bool) (*big.Int, error) {
	const op = "CombineSignatures"

	if err := checkShareSet(shares, meta); err != nil {
		return nil, err
	}

	x := bn.FromBytesBE(doc)
	xPrime, flipped, err := jacobiFixup(x, meta.Vku, pub.E, pub.N)
	if err != nil {
		return nil, newError(InvalidParameter, op, "applying Jacobi fixup: %v", err)
	}

	if validate {
		for _, share := range shares {
			vki := meta.VkiFor(share.Index)
			p := &proof.Proof{Z: share.Z, C: share.C}
			ok, err := p.Verify(meta.Vkv, vki, xPrime, pub.N, share.SigShare)
			if err != nil {
				return nil, newError(InvalidShare, op, "verifying share %d: %v", share.Index, err)
			}
			if !ok {
				return nil, newError(InvalidShare, op, "share %d failed proof verification", share.Index)
			}
		}
	}

	delta := lagrange.Factorial(meta.L)
	indices := make([]int64, len(shares))
	for i, s := range shares {
		indices[i] = int64(s.Index)
	}

	w := big.NewInt(1)
	for _, share := range shares {
		coeff := lagrange.Coefficient(0, int64(share.Index), indices, delta)
		exp := new(big.Int).Mul(bn.Two, coeff)
		term, err := bn.PowMod(share.SigShare, exp, pub.N)
		if err != nil {
			return nil, newError(InvalidShare, op, "combining share %d: %v", share.Index, err)
		}
		w.Mul(w, term)
		w.Mod(w, pub.N)
	}

	a, b, gcd := bn.ExtendedEuclidean(bn.Four, pub.E)
	if gcd.Cmp(bn.One) != 0 {
		return nil, newError(InvalidParameter, op, "gcd(4, e) != 1")
	}

	wa, err := bn.PowMod(w, a, pub.N)
	if err != nil {
		return nil, newError(InvalidParameter, op, "w^a: %v", err)
	}
	xb, err := bn.PowMod(xPrime, b, pub.N)
	if err != nil {
		return nil, newError(InvalidParameter, op, "x'^b: %v", err)
	}
	y := new(big.Int).Mul(wa, xb)
	y.Mod(y, pub.N)

	if flipped {
		vkuInv, err := bn.InvMod(meta.Vku, pub.N)
		if err != nil {
			return nil, newError(InvalidParameter, op, "inverting vku: %v", err)
		}
		y.Mul(y, vkuInv)
		y.Mod(y, pub.N)
	}

	return y, nil
}

// checkShareSet enforces spec.md §4.6 step 3: at least k distinct indices,
// each in [1, l].
func checkShareSet(shares []SigShare, meta *KeyMeta) error {
	const op = "CombineSignatures"

	if len(shares) < meta.K {
		return newError(InvalidShare, op, "have %d shares, need at least k=%d", len(shares), meta.K)
	}

	seen := make(map[int]bool, len(shares))
	for _, s := range shares {
		if s.Index < 1 || s.Index > meta.L {
			return newError(InvalidShare, op, "share index %d out of range [1, %d]", s.Index, meta.L)
		}
		if seen[s.Index] {
			return newError(InvalidShare, op, "duplicated share index %d", s.Index)
		}
		seen[s.Index] = true
	}
	return nil
}
