package tssrsa

import (
	"fmt"
	"math/big"

	"github.com/cryptovault-labs/tssrsa/pkg/bn"
)

// PublicKey is the shared RSA public key {n, e}. n is the product of two
// distinct safe primes; e is coprime to both 4 and phi(n).
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// VerifySignature reports whether sig is a valid RSA signature of doc under
// pub: sig^e mod n == decode(doc) mod n.
func (pub *PublicKey) VerifySignature(doc []byte, sig *big.Int) bool {
	x := bn.FromBytesBE(doc)
	x.Mod(x, pub.N)
	got, err := bn.PowMod(sig, pub.E, pub.N)
	if err != nil {
		return false
	}
	return got.Cmp(x) == 0
}

// KeyGenParam is optional dealer input to GenerateKeyEx. A nil or
// zero-valued field means "generate this field"; a non-zero field is
// validated against the invariants of spec.md §3 and rejected otherwise.
type KeyGenParam struct {
	E   int
	P   *big.Int
	Q   *big.Int
	F   *big.Int
	Vku *big.Int
}

// PrivateShare is one party's exclusive share s_i of the RSA decryption
// exponent, s_i in [0, m) where m = (p-1)(q-1)/4.
type PrivateShare struct {
	Index int
	Si    *big.Int
}

// KeyMeta is the public verification metadata a dealer emits alongside the
// shares: the threshold k, the party count l, the verification base vkv,
// each party's verification key vki, and the Jacobi-fixup base vku.
type KeyMeta struct {
	K   int
	L   int
	Vkv *big.Int
	Vki []*big.Int // Vki[i-1] is party i's verification key, i in 1..L
	Vku *big.Int
}

// VkiFor returns the verification key for party index (1-based), or nil if
// index is out of [1, L].
func (km *KeyMeta) VkiFor(index int) *big.Int {
	if index < 1 || index > len(km.Vki) {
		return nil
	}
	return km.Vki[index-1]
}

// Validate checks KeyMeta's internal invariants (spec.md §3): 2<=k<=l and
// k >= floor(l/2)+1, and that exactly l verification keys are present.
func (km *KeyMeta) Validate() error {
	if km.K < 2 || km.K > km.L {
		return fmt.Errorf("tssrsa: KeyMeta.Validate: k=%d out of range for l=%d", km.K, km.L)
	}
	if km.K < km.L/2+1 {
		return fmt.Errorf("tssrsa: KeyMeta.Validate: k=%d below threshold floor(l/2)+1 for l=%d", km.K, km.L)
	}
	if len(km.Vki) != km.L {
		return fmt.Errorf("tssrsa: KeyMeta.Validate: have %d verification keys, want l=%d", len(km.Vki), km.L)
	}
	return nil
}

// SigShare is one party's contribution to a combined signature: the raw
// exponentiation result sig_share = x'^(2*s_i) mod n, and the (z, c)
// Chaum-Pedersen proof that s_i was used correctly.
type SigShare struct {
	Index    int
	SigShare *big.Int
	Z        *big.Int
	C        *big.Int
}
