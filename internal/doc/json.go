package doc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ParseError reports malformed document or patch text. Offset is a
// byte offset into the input; Line and Col are 1-based and derived
// from the offset when the input is available.
type ParseError struct {
	Msg    string
	Offset int64
	Line   int
	Col    int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
	}
	return e.Msg
}

// newParseError builds a ParseError at a byte offset, computing the
// line/column from the input.
func newParseError(data []byte, offset int64, msg string) *ParseError {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{Msg: msg, Offset: offset, Line: line, Col: col}
}

// ParseJSON parses a JSON document into a Value, preserving object
// member order and number literals. Trailing non-whitespace content
// after the top-level value is an error.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseJSONValue(dec, data)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, newParseError(data, dec.InputOffset(), "unexpected data after top-level value")
		}
		return nil, wrapJSONError(data, err)
	}
	return v, nil
}

func parseJSONValue(dec *json.Decoder, data []byte) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, wrapJSONError(data, err)
	}
	return parseJSONToken(dec, data, tok)
}

func parseJSONToken(dec *json.Decoder, data []byte, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Object{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, wrapJSONError(data, err)
				}
				key := keyTok.(string)
				val, err := parseJSONValue(dec, data)
				if err != nil {
					return nil, err
				}
				// Duplicate keys: last value wins, first position kept.
				obj = obj.With(key, val)
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return nil, wrapJSONError(data, err)
			}
			return obj, nil
		case '[':
			arr := Array{}
			for dec.More() {
				el, err := parseJSONValue(dec, data)
				if err != nil {
					return nil, err
				}
				arr = append(arr, el)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, wrapJSONError(data, err)
			}
			return arr, nil
		}
		return nil, newParseError(data, dec.InputOffset(), fmt.Sprintf("unexpected delimiter %v", t))
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	}
	return nil, newParseError(data, dec.InputOffset(), fmt.Sprintf("unexpected token %v", tok))
}

func wrapJSONError(data []byte, err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return newParseError(data, syn.Offset, syn.Error())
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return newParseError(data, int64(len(data)), "unexpected end of input")
	}
	return &ParseError{Msg: err.Error()}
}

// EncodeJSON serializes v as two-space-indented JSON with object
// members in their stored order and numbers in their original
// literal form. No trailing newline is emitted.
func EncodeJSON(v Value) []byte {
	var buf bytes.Buffer
	encodeJSON(&buf, v, 0)
	return buf.Bytes()
}

func encodeJSON(buf *bytes.Buffer, v Value, depth int) {
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
		buf.WriteString(string(t))
	case String:
		writeJSONString(buf, string(t))
	case Array:
		if len(t) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[\n")
		for i, el := range t {
			writeIndent(buf, depth+1)
			encodeJSON(buf, el, depth+1)
			if i < len(t)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte(']')
	case Object:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{\n")
		members := t.Members()
		for i, m := range members {
			writeIndent(buf, depth+1)
			writeJSONString(buf, m.Key)
			buf.WriteString(": ")
			encodeJSON(buf, m.Value, depth+1)
			if i < len(members)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte('}')
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	// json.Marshal of a string cannot fail.
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}
