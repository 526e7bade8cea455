package tssrsa

import "encoding/base64"

// The base64 encoding of spec.md §4.7 is a fixed policy (standard, not
// URL-safe) applied over each record's structured-binary form — a fixed
// choice rather than a per-call option, per spec.md §4.7.

// binaryMarshaler and binaryUnmarshaler let the base64 helpers below work
// uniformly across every record type without repeating the encode/decode
// boilerplate five times.
type binaryMarshaler interface {
	MarshalBinary() ([]byte, error)
}

type binaryUnmarshaler interface {
	UnmarshalBinary([]byte) error
}

func toBase64(m binaryMarshaler) (string, error) {
	data, err := m.MarshalBinary()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func fromBase64(u binaryUnmarshaler, s string) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return newError(DecodeFailure, "fromBase64", "invalid base64: %v", err)
	}
	return u.UnmarshalBinary(data)
}

// ToBase64 returns the base64-standard encoding of pub's binary form.
func (pub *PublicKey) ToBase64() (string, error) { return toBase64(pub) }

// FromBase64 decodes a string produced by PublicKey.ToBase64.
func (pub *PublicKey) FromBase64(s string) error { return fromBase64(pub, s) }

// ToBase64 returns the base64-standard encoding of ps's binary form.
func (ps *PrivateShare) ToBase64() (string, error) { return toBase64(ps) }

// FromBase64 decodes a string produced by PrivateShare.ToBase64.
func (ps *PrivateShare) FromBase64(s string) error { return fromBase64(ps, s) }

// ToBase64 returns the base64-standard encoding of km's binary form.
func (km *KeyMeta) ToBase64() (string, error) { return toBase64(km) }

// FromBase64 decodes a string produced by KeyMeta.ToBase64.
func (km *KeyMeta) FromBase64(s string) error { return fromBase64(km, s) }

// ToBase64 returns the base64-standard encoding of s's binary form.
func (s *SigShare) ToBase64() (string, error) { return toBase64(s) }

// FromBase64 decodes a string produced by SigShare.ToBase64.
func (s *SigShare) FromBase64(str string) error { return fromBase64(s, str) }

// ToBase64 returns the base64-standard encoding of param's binary form.
func (param *KeyGenParam) ToBase64() (string, error) { return toBase64(param) }

// FromBase64 decodes a string produced by KeyGenParam.ToBase64.
func (param *KeyGenParam) FromBase64(s string) error { return fromBase64(param, s) }
