package doc

import (
	"fmt"
	"strconv"
	"strings"
)

// Pointer is an RFC 6901 JSON Pointer: an ordered sequence of
// reference tokens addressing a location in a Value tree. Tokens are
// stored unescaped; the ~0/~1 escaping exists only in the wire form.
// The empty Pointer addresses the document root.
type Pointer []string

// ParsePointer parses the wire form of a pointer. The empty string is
// the root; any other pointer must begin with '/'.
func ParsePointer(s string) (Pointer, error) {
	if s == "" {
		return Pointer{}, nil
	}
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("invalid pointer %q: must start with '/'", s)
	}
	parts := strings.Split(s[1:], "/")
	p := make(Pointer, len(parts))
	for i, part := range parts {
		tok, err := unescapeToken(part)
		if err != nil {
			return nil, fmt.Errorf("invalid pointer %q: %w", s, err)
		}
		p[i] = tok
	}
	return p, nil
}

// String renders the wire form, escaping '~' as ~0 and '/' as ~1.
func (p Pointer) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tok := range p {
		b.WriteByte('/')
		b.WriteString(escapeToken(tok))
	}
	return b.String()
}

// IsRoot reports whether p addresses the document root.
func (p Pointer) IsRoot() bool { return len(p) == 0 }

// Child returns a new Pointer extending p with tok. The result never
// shares backing storage with p, so siblings built from the same
// parent cannot clobber each other.
func (p Pointer) Child(tok string) Pointer {
	c := make(Pointer, len(p)+1)
	copy(c, p)
	c[len(p)] = tok
	return c
}

// StrictPrefixOf reports whether p is a strict prefix of q, i.e.
// whether q addresses a strict descendant of the location p
// addresses. A pointer is not a strict prefix of itself.
func (p Pointer) StrictPrefixOf(q Pointer) bool {
	if len(p) >= len(q) {
		return false
	}
	for i, tok := range p {
		if q[i] != tok {
			return false
		}
	}
	return true
}

// Resolve walks p from v and returns the addressed value, or false if
// any token fails to resolve.
func Resolve(v Value, p Pointer) (Value, bool) {
	cur := v
	for _, tok := range p {
		switch c := cur.(type) {
		case Object:
			next, ok := c.Get(tok)
			if !ok {
				return nil, false
			}
			cur = next
		case Array:
			idx, ok := ArrayIndex(tok)
			if !ok || idx >= len(c) {
				return nil, false
			}
			cur = c[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// ArrayIndex parses tok as an array index per RFC 6901: decimal
// digits with no leading zeros and no sign. The append marker "-" is
// not an index.
func ArrayIndex(tok string) (int, bool) {
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return idx, true
}

func escapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~", "~0")
	return strings.ReplaceAll(tok, "/", "~1")
}

func unescapeToken(tok string) (string, error) {
	if !strings.Contains(tok, "~") {
		return tok, nil
	}
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		if tok[i] != '~' {
			b.WriteByte(tok[i])
			continue
		}
		if i+1 >= len(tok) {
			return "", fmt.Errorf("truncated escape in token %q", tok)
		}
		i++
		switch tok[i] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", fmt.Errorf("invalid escape ~%c in token %q", tok[i], tok)
		}
	}
	return b.String(), nil
}
