package tssrsa

import (
	"math/big"

	"github.com/cryptovault-labs/tssrsa/pkg/bn"
	"github.com/cryptovault-labs/tssrsa/pkg/proof"
)

// jacobiFixup returns x' = x if Jacobi(x, n) != -1, else x*vku^e mod n, the
// move into the Jacobi-residue subgroup that both Sign and Combine perform
// independently (SPEC_FULL.md §3.2: keyed off x, not a stored flag).
func jacobiFixup(x, vku, e, n *big.Int) (*big.Int, bool, error) {
	if bn.Jacobi(x, n) != -1 {
		return new(big.Int).Set(x), false, nil
	}
	vkuE, err := bn.PowMod(vku, e, n)
	if err != nil {
		return nil, false, err
	}
	xPrime := new(big.Int).Mul(x, vkuE)
	xPrime.Mod(xPrime, n)
	return xPrime, true, nil
}

// Sign produces ps's contribution to a threshold signature over doc,
// following spec.md §4.5. doc is the raw byte string to sign; callers
// wanting PSS encoding run pss.Encode first and pass its output here.
func (ps *PrivateShare) Sign(doc []byte, meta *KeyMeta, pub *PublicKey) (*SigShare, error) {
	const op = "PrivateShare.Sign"

	vki := meta.VkiFor(ps.Index)
	if vki == nil {
		return nil, newError(InvalidParameter, op, "index %d out of range for l=%d", ps.Index, meta.L)
	}

	x := bn.FromBytesBE(doc)

	xPrime, _, err := jacobiFixup(x, meta.Vku, pub.E, pub.N)
	if err != nil {
		return nil, newError(InvalidParameter, op, "applying Jacobi fixup: %v", err)
	}

	exp := new(big.Int).Mul(bn.Two, ps.Si)
	sigI, err := bn.PowMod(xPrime, exp, pub.N)
	if err != nil {
		return nil, newError(InvalidParameter, op, "computing signature share: %v", err)
	}

	p, err := proof.Prove(ps.Si, meta.Vkv, vki, xPrime, pub.N, sigI)
	if err != nil {
		return nil, newError(InvalidParameter, op, "generating proof: %v", err)
	}

	return &SigShare{Index: ps.Index, SigShare: sigI, Z: p.Z, C: p.C}, nil
}
