package tssrsa

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/cryptovault-labs/tssrsa/pkg/bn"
)

// The structured-binary encoding of spec.md §4.7 is a tagged record keyed by
// field name with big integers carried as uppercase hex strings and ints as
// native integers — the Go-idiomatic analogue of the original's protobuf
// tagged records, expressed with CBOR (github.com/fxamacker/cbor/v2), in the
// spirit of the teacher's base64-shadow-struct MarshalJSON/UnmarshalJSON
// idiom (protocols/lss/config/marshal.go) but targeting a binary tagged
// record rather than JSON.

type publicKeyRecord struct {
	N string `cbor:"n"`
	E string `cbor:"e"`
}

// MarshalBinary encodes pub as a tagged binary record.
func (pub *PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&publicKeyRecord{
		N: bn.ToHexStr(pub.N),
		E: bn.ToHexStr(pub.E),
	})
}

// UnmarshalBinary decodes a tagged binary record produced by MarshalBinary.
func (pub *PublicKey) UnmarshalBinary(data []byte) error {
	var rec publicKeyRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return newError(DecodeFailure, "PublicKey.UnmarshalBinary", "%v", err)
	}
	n, err := bn.FromHexStr(rec.N)
	if err != nil {
		return newError(DecodeFailure, "PublicKey.UnmarshalBinary", "n: %v", err)
	}
	e, err := bn.FromHexStr(rec.E)
	if err != nil {
		return newError(DecodeFailure, "PublicKey.UnmarshalBinary", "e: %v", err)
	}
	pub.N, pub.E = n, e
	return nil
}

type privateShareRecord struct {
	Index int    `cbor:"index"`
	Si    string `cbor:"si"`
}

// MarshalBinary encodes ps as a tagged binary record.
func (ps *PrivateShare) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&privateShareRecord{
		Index: ps.Index,
		Si:    bn.ToHexStr(ps.Si),
	})
}

// UnmarshalBinary decodes a tagged binary record produced by MarshalBinary.
// An index of 0 is a DecodeFailure per spec.md §4.7.
func (ps *PrivateShare) UnmarshalBinary(data []byte) error {
	var rec privateShareRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return newError(DecodeFailure, "PrivateShare.UnmarshalBinary", "%v", err)
	}
	if rec.Index == 0 {
		return newError(DecodeFailure, "PrivateShare.UnmarshalBinary", "index must not be 0")
	}
	si, err := bn.FromHexStr(rec.Si)
	if err != nil {
		return newError(DecodeFailure, "PrivateShare.UnmarshalBinary", "si: %v", err)
	}
	ps.Index, ps.Si = rec.Index, si
	return nil
}

type keyMetaRecord struct {
	K   int      `cbor:"k"`
	L   int      `cbor:"l"`
	Vkv string   `cbor:"vkv"`
	Vki []string `cbor:"vki"`
	Vku string   `cbor:"vku"`
}

// MarshalBinary encodes km as a tagged binary record.
func (km *KeyMeta) MarshalBinary() ([]byte, error) {
	vki := make([]string, len(km.Vki))
	for i, v := range km.Vki {
		vki[i] = bn.ToHexStr(v)
	}
	return cbor.Marshal(&keyMetaRecord{
		K:   km.K,
		L:   km.L,
		Vkv: bn.ToHexStr(km.Vkv),
		Vki: vki,
		Vku: bn.ToHexStr(km.Vku),
	})
}

// UnmarshalBinary decodes a tagged binary record produced by MarshalBinary.
func (km *KeyMeta) UnmarshalBinary(data []byte) error {
	var rec keyMetaRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return newError(DecodeFailure, "KeyMeta.UnmarshalBinary", "%v", err)
	}
	vkv, err := bn.FromHexStr(rec.Vkv)
	if err != nil {
		return newError(DecodeFailure, "KeyMeta.UnmarshalBinary", "vkv: %v", err)
	}
	vku, err := bn.FromHexStr(rec.Vku)
	if err != nil {
		return newError(DecodeFailure, "KeyMeta.UnmarshalBinary", "vku: %v", err)
	}
	vki := make([]*big.Int, len(rec.Vki))
	for i, s := range rec.Vki {
		v, err := bn.FromHexStr(s)
		if err != nil {
			return newError(DecodeFailure, "KeyMeta.UnmarshalBinary", "vki[%d]: %v", i, err)
		}
		vki[i] = v
	}
	km.K, km.L, km.Vkv, km.Vki, km.Vku = rec.K, rec.L, vkv, vki, vku
	return nil
}

type sigShareRecord struct {
	Index    int    `cbor:"index"`
	SigShare string `cbor:"sig_share"`
	Z        string `cbor:"z"`
	C        string `cbor:"c"`
}

// MarshalBinary encodes s as a tagged binary record.
func (s *SigShare) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&sigShareRecord{
		Index:    s.Index,
		SigShare: bn.ToHexStr(s.SigShare),
		Z:        bn.ToHexStr(s.Z),
		C:        bn.ToHexStr(s.C),
	})
}

// UnmarshalBinary decodes a tagged binary record produced by MarshalBinary.
// An index of 0 is a DecodeFailure per spec.md §4.7.
func (s *SigShare) UnmarshalBinary(data []byte) error {
	var rec sigShareRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return newError(DecodeFailure, "SigShare.UnmarshalBinary", "%v", err)
	}
	if rec.Index == 0 {
		return newError(DecodeFailure, "SigShare.UnmarshalBinary", "index must not be 0")
	}
	sig, err := bn.FromHexStr(rec.SigShare)
	if err != nil {
		return newError(DecodeFailure, "SigShare.UnmarshalBinary", "sig_share: %v", err)
	}
	z, err := bn.FromHexStr(rec.Z)
	if err != nil {
		return newError(DecodeFailure, "SigShare.UnmarshalBinary", "z: %v", err)
	}
	c, err := bn.FromHexStr(rec.C)
	if err != nil {
		return newError(DecodeFailure, "SigShare.UnmarshalBinary", "c: %v", err)
	}
	s.Index, s.SigShare, s.Z, s.C = rec.Index, sig, z, c
	return nil
}

type keyGenParamRecord struct {
	E   int    `cbor:"e"`
	P   string `cbor:"p,omitempty"`
	Q   string `cbor:"q,omitempty"`
	F   string `cbor:"f,omitempty"`
	Vku string `cbor:"vku,omitempty"`
}

// MarshalBinary encodes param as a tagged binary record. Nil fields are
// omitted, matching the "zero sentinel means generate" semantics of
// SPEC_FULL.md §3.1.
func (param *KeyGenParam) MarshalBinary() ([]byte, error) {
	rec := keyGenParamRecord{E: param.E}
	if param.P != nil {
		rec.P = bn.ToHexStr(param.P)
	}
	if param.Q != nil {
		rec.Q = bn.ToHexStr(param.Q)
	}
	if param.F != nil {
		rec.F = bn.ToHexStr(param.F)
	}
	if param.Vku != nil {
		rec.Vku = bn.ToHexStr(param.Vku)
	}
	return cbor.Marshal(&rec)
}

// UnmarshalBinary decodes a tagged binary record produced by MarshalBinary.
// Omitted fields decode to nil (spec.md §4.7's "field omissions are accepted
// on decode").
func (param *KeyGenParam) UnmarshalBinary(data []byte) error {
	var rec keyGenParamRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return newError(DecodeFailure, "KeyGenParam.UnmarshalBinary", "%v", err)
	}
	parseOptional := func(field, s string) (*big.Int, error) {
		if s == "" {
			return nil, nil
		}
		v, err := bn.FromHexStr(s)
		if err != nil {
			return nil, newError(DecodeFailure, "KeyGenParam.UnmarshalBinary", "%s: %v", field, err)
		}
		return v, nil
	}
	p, err := parseOptional("p", rec.P)
	if err != nil {
		return err
	}
	q, err := parseOptional("q", rec.Q)
	if err != nil {
		return err
	}
	f, err := parseOptional("f", rec.F)
	if err != nil {
		return err
	}
	vku, err := parseOptional("vku", rec.Vku)
	if err != nil {
		return err
	}
	param.E, param.P, param.Q, param.F, param.Vku = rec.E, p, q, f, vku
	return nil
}
