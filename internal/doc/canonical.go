package doc

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Domain prefix for content hashes. The version suffix allows the
// hashing scheme to change without old hashes colliding with new ones.
const hashDomain = "jp/document/v1"

// MarshalCanonical produces a canonical encoding of v for content
// identity: object keys sorted by UTF-16 code units (RFC 8785 order),
// strings NFC normalized, numbers numerically normalized, no
// whitespace. It deliberately discards member order and number
// formatting, so it must never be used as a round-trip serialization.
func MarshalCanonical(v Value) []byte {
	var buf bytes.Buffer
	marshalCanonical(&buf, v)
	return buf.Bytes()
}

// Hash returns the hex SHA-256 of the canonical form of v, with
// domain separation. Two documents hash equal iff they are equal
// under Equal, which is what the watch-mode change suppression needs.
func Hash(v Value) string {
	h := sha256.New()
	h.Write([]byte(hashDomain))
	h.Write([]byte{0x00})
	h.Write(MarshalCanonical(v))
	return hex.EncodeToString(h.Sum(nil))
}

func marshalCanonical(buf *bytes.Buffer, v Value) {
	switch t := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(canonicalNumber(t))
	case String:
		writeCanonicalString(buf, string(t))
	case Array:
		buf.WriteByte('[')
		for i, el := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			marshalCanonical(buf, el)
		}
		buf.WriteByte(']')
	case Object:
		keys := t.Keys()
		slices.SortFunc(keys, compareKeysUTF16)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			val, _ := t.Get(k)
			marshalCanonical(buf, val)
		}
		buf.WriteByte('}')
	}
}

// canonicalNumber renders the shortest float64 form so that literals
// that compare equal under Equal ("1" vs "1.0") hash identically.
// Literals that do not parse as float64 are kept verbatim.
func canonicalNumber(n Number) string {
	f, err := n.Float()
	if err != nil {
		return string(n)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func writeCanonicalString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(norm.NFC.String(s))
	buf.Write(b)
}

// compareKeysUTF16 orders strings by UTF-16 code units as RFC 8785
// requires. Go's native string comparison is UTF-8 byte order, which
// differs for characters outside the BMP.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	for i := 0; i < len(a16) && i < len(b16); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
