package tssrsa

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cryptovault-labs/tssrsa/pkg/bn"
)

// The structured-text encoding of spec.md §4.7 is a human-readable,
// whitespace-padded rendering of the tagged record — text/tabwriter is the
// idiomatic Go tool for aligned columns of text, and no third-party
// pretty-printing library appears anywhere in the retrieved pack (see
// DESIGN.md).

func renderFields(pairs [][2]string) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 1, ' ', 0)
	for _, kv := range pairs {
		fmt.Fprintf(w, "%s:\t%s\n", kv[0], kv[1])
	}
	w.Flush()
	return b.String()
}

// parseFields reverses renderFields: "Key:<whitespace>Value" per line, one
// key per line, tolerant of the padding tabwriter inserts.
func parseFields(s string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := line[:idx]
		value := strings.TrimSpace(line[idx+1:])
		out[key] = value
	}
	return out
}

func requireHex(op string, fields map[string]string, key string) (*big.Int, error) {
	s, ok := fields[key]
	if !ok {
		return nil, newError(DecodeFailure, op, "missing field %q", key)
	}
	v, err := bn.FromHexStr(s)
	if err != nil {
		return nil, newError(DecodeFailure, op, "field %q: %v", key, err)
	}
	return v, nil
}

func requireInt(op string, fields map[string]string, key string) (int, error) {
	s, ok := fields[key]
	if !ok {
		return 0, newError(DecodeFailure, op, "missing field %q", key)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, newError(DecodeFailure, op, "field %q: %v", key, err)
	}
	return n, nil
}

// ToText renders pub as whitespace-padded structured text.
func (pub *PublicKey) ToText() string {
	return renderFields([][2]string{
		{"N", bn.ToHexStr(pub.N)},
		{"E", bn.ToHexStr(pub.E)},
	})
}

// FromText parses text produced by PublicKey.ToText.
func (pub *PublicKey) FromText(s string) error {
	const op = "PublicKey.FromText"
	fields := parseFields(s)
	n, err := requireHex(op, fields, "N")
	if err != nil {
		return err
	}
	e, err := requireHex(op, fields, "E")
	if err != nil {
		return err
	}
	pub.N, pub.E = n, e
	return nil
}

// ToText renders ps as whitespace-padded structured text.
func (ps *PrivateShare) ToText() string {
	return renderFields([][2]string{
		{"Index", strconv.Itoa(ps.Index)},
		{"Si", bn.ToHexStr(ps.Si)},
	})
}

// FromText parses text produced by PrivateShare.ToText. An index of 0 is a
// DecodeFailure per spec.md §4.7.
func (ps *PrivateShare) FromText(s string) error {
	const op = "PrivateShare.FromText"
	fields := parseFields(s)
	index, err := requireInt(op, fields, "Index")
	if err != nil {
		return err
	}
	if index == 0 {
		return newError(DecodeFailure, op, "index must not be 0")
	}
	si, err := requireHex(op, fields, "Si")
	if err != nil {
		return err
	}
	ps.Index, ps.Si = index, si
	return nil
}

// ToText renders km as whitespace-padded structured text.
func (km *KeyMeta) ToText() string {
	vki := make([]string, len(km.Vki))
	for i, v := range km.Vki {
		vki[i] = bn.ToHexStr(v)
	}
	return renderFields([][2]string{
		{"K", strconv.Itoa(km.K)},
		{"L", strconv.Itoa(km.L)},
		{"Vkv", bn.ToHexStr(km.Vkv)},
		{"Vki", strings.Join(vki, ",")},
		{"Vku", bn.ToHexStr(km.Vku)},
	})
}

// FromText parses text produced by KeyMeta.ToText.
func (km *KeyMeta) FromText(s string) error {
	const op = "KeyMeta.FromText"
	fields := parseFields(s)
	k, err := requireInt(op, fields, "K")
	if err != nil {
		return err
	}
	l, err := requireInt(op, fields, "L")
	if err != nil {
		return err
	}
	vkv, err := requireHex(op, fields, "Vkv")
	if err != nil {
		return err
	}
	vku, err := requireHex(op, fields, "Vku")
	if err != nil {
		return err
	}
	vkiField, ok := fields["Vki"]
	if !ok {
		return newError(DecodeFailure, op, "missing field %q", "Vki")
	}
	var vki []*big.Int
	if vkiField != "" {
		parts := strings.Split(vkiField, ",")
		vki = make([]*big.Int, len(parts))
		for i, p := range parts {
			v, err := bn.FromHexStr(p)
			if err != nil {
				return newError(DecodeFailure, op, "Vki[%d]: %v", i, err)
			}
			vki[i] = v
		}
	}
	km.K, km.L, km.Vkv, km.Vki, km.Vku = k, l, vkv, vki, vku
	return nil
}

// ToText renders s as whitespace-padded structured text.
func (s *SigShare) ToText() string {
	return renderFields([][2]string{
		{"Index", strconv.Itoa(s.Index)},
		{"SigShare", bn.ToHexStr(s.SigShare)},
		{"Z", bn.ToHexStr(s.Z)},
		{"C", bn.ToHexStr(s.C)},
	})
}

// FromText parses text produced by SigShare.ToText. An index of 0 is a
// DecodeFailure per spec.md §4.7.
func (s *SigShare) FromText(text string) error {
	const op = "SigShare.FromText"
	fields := parseFields(text)
	index, err := requireInt(op, fields, "Index")
	if err != nil {
		return err
	}
	if index == 0 {
		return newError(DecodeFailure, op, "index must not be 0")
	}
	sig, err := requireHex(op, fields, "SigShare")
	if err != nil {
		return err
	}
	z, err := requireHex(op, fields, "Z")
	if err != nil {
		return err
	}
	c, err := requireHex(op, fields, "C")
	if err != nil {
		return err
	}
	s.Index, s.SigShare, s.Z, s.C = index, sig, z, c
	return nil
}

// ToText renders param as whitespace-padded structured text; nil fields
// render as empty values, round-tripping back to nil on decode.
func (param *KeyGenParam) ToText() string {
	hexOrEmpty := func(v *big.Int) string {
		if v == nil {
			return ""
		}
		return bn.ToHexStr(v)
	}
	return renderFields([][2]string{
		{"E", strconv.Itoa(param.E)},
		{"P", hexOrEmpty(param.P)},
		{"Q", hexOrEmpty(param.Q)},
		{"F", hexOrEmpty(param.F)},
		{"Vku", hexOrEmpty(param.Vku)},
	})
}

// FromText parses text produced by KeyGenParam.ToText.
func (param *KeyGenParam) FromText(s string) error {
	const op = "KeyGenParam.FromText"
	fields := parseFields(s)
	e, err := requireInt(op, fields, "E")
	if err != nil {
		return err
	}
	parseOptional := func(key string) (*big.Int, error) {
		v, ok := fields[key]
		if !ok || v == "" {
			return nil, nil
		}
		n, err := bn.FromHexStr(v)
		if err != nil {
			return nil, newError(DecodeFailure, op, "field %q: %v", key, err)
		}
		return n, nil
	}
	p, err := parseOptional("P")
	if err != nil {
		return err
	}
	q, err := parseOptional("Q")
	if err != nil {
		return err
	}
	f, err := parseOptional("F")
	if err != nil {
		return err
	}
	vku, err := parseOptional("Vku")
	if err != nil {
		return err
	}
	param.E, param.P, param.Q, param.F, param.Vku = e, p, q, f, vku
	return nil
}
