// Package pss implements the EMSA-PSS encoding method of RFC 3447 §9.1,
// fixed to SHA-256 for both the message hash and the MGF1 hash, exactly as
// spec.md §4.1 requires.
//
// Grounded on original_source/src/crypto-tss-rsa/emsa_pss.cpp / emsa_pss.h.
package pss

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// hLen is the SHA-256 digest size in bytes.
const hLen = sha256.Size

// SaltMode selects how the salt length is derived from the key size,
// matching the original's SaltLength enum.
type SaltMode int

const (
	// AutoLength uses the maximum possible salt length: emLen - 2 - hLen.
	AutoLength SaltMode = iota
	// EqualToHash uses a salt the same length as the hash output.
	EqualToHash
)

func saltLen(emLen int, mode SaltMode) int {
	switch mode {
	case AutoLength:
		return emLen - 2 - hLen
	default:
		return hLen
	}
}

// randomBytes draws n cryptographically random bytes from the core RNG.
func randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("pss: generating salt: %w", err)
	}
	return buf, nil
}

// mgf1 is the mask generation function of RFC 3447 Appendix B.2.1: repeated
// SHA256(seed || counter) truncated to maskLen bytes. Grounded on MGF1 in
// emsa_pss.cpp; cryptobyte.Builder assembles seed||counter without an extra
// copy per iteration.
func mgf1(seed []byte, maskLen int) []byte {
	var mask []byte
	counter := uint32(0)
	for len(mask) < maskLen {
		b := cryptobyte.NewBuilder(nil)
		b.AddBytes(seed)
		b.AddUint32(counter)
		digest := sha256.Sum256(b.BytesOrPanic())
		mask = append(mask, digest[:]...)
		counter++
	}
	return mask[:maskLen]
}

// Encode implements EMSA-PSS-ENCODE (RFC 3447 §9.1.1).
func Encode(m []byte, keyBits int, mode SaltMode) ([]byte, error) {
	emBits := keyBits - 1
	emLen := (emBits + 7) / 8

	if emLen < hLen+2 {
		return nil, fmt.Errorf("pss: Encode: emLen=%d too small for hLen=%d", emLen, hLen)
	}

	sLen := saltLen(emLen, mode)
	if emLen < hLen+sLen+2 {
		return nil, fmt.Errorf("pss: Encode: emLen=%d too small for hLen=%d, sLen=%d", emLen, hLen, sLen)
	}

	mHash := sha256.Sum256(m)

	salt, err := randomBytes(sLen)
	if err != nil {
		return nil, err
	}

	hb := cryptobyte.NewBuilder(nil)
	hb.AddBytes(make([]byte, 8))
	hb.AddBytes(mHash[:])
	hb.AddBytes(salt)
	h := sha256.Sum256(hb.BytesOrPanic())

	psLen := emLen - hLen - sLen - 2
	db := cryptobyte.NewBuilder(nil)
	db.AddBytes(make([]byte, psLen))
	db.AddUint8(0x01)
	db.AddBytes(salt)
	DB := db.BytesOrPanic()

	dbMask := mgf1(h[:], emLen-hLen-1)
	maskedDB := make([]byte, len(DB))
	for i := range DB {
		maskedDB[i] = DB[i] ^ dbMask[i]
	}

	// Zero the top 8*emLen - emBits bits of the leftmost octet.
	zeroBits := emLen*8 - emBits
	maskedDB[0] &= byte(0xFF >> uint(zeroBits))

	out := cryptobyte.NewBuilder(nil)
	out.AddBytes(maskedDB)
	out.AddBytes(h[:])
	out.AddUint8(0xbc)
	return out.BytesOrPanic(), nil
}

// Verify implements EMSA-PSS-VERIFY (RFC 3447 §9.1.2). It never returns an
// error for malformed input — a failed check simply yields false, matching
// spec.md §7's VerifyFailure policy ("returned as false, never raised").
func Verify(m []byte, keyBits int, mode SaltMode, em []byte) bool {
	emBits := keyBits - 1
	emLen := (emBits + 7) / 8

	if len(em) != emLen {
		return false
	}
	if emLen < hLen+2 {
		return false
	}

	sLen := saltLen(emLen, mode)
	if emLen < hLen+sLen+2 {
		return false
	}
	if em[len(em)-1] != 0xbc {
		return false
	}

	maskedDB := em[:emLen-hLen-1]
	H := em[emLen-hLen-1 : emLen-1]

	zeroBits := emLen*8 - emBits
	mask := byte(0xFF << uint(8-zeroBits))
	if zeroBits > 0 && maskedDB[0]&mask != 0 {
		return false
	}

	dbMask := mgf1(H, emLen-hLen-1)
	DB := make([]byte, len(maskedDB))
	for i := range maskedDB {
		DB[i] = maskedDB[i] ^ dbMask[i]
	}
	DB[0] &= byte(0xFF >> uint(zeroBits))

	psLen := emLen - hLen - sLen - 2
	for i := 0; i < psLen; i++ {
		if DB[i] != 0x00 {
			return false
		}
	}
	if DB[psLen] != 0x01 {
		return false
	}

	salt := DB[emLen-hLen-1-sLen:]

	mHash := sha256.Sum256(m)
	hb := cryptobyte.NewBuilder(nil)
	hb.AddBytes(make([]byte, 8))
	hb.AddBytes(mHash[:])
	hb.AddBytes(salt)
	hPrime := sha256.Sum256(hb.BytesOrPanic())

	return subtle.ConstantTimeCompare(H, hPrime[:]) == 1
}
