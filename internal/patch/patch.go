// Package patch implements the RFC 6902 operation vocabulary, the
// on-disk patch codec, and the apply engine. A Patch is valid
// independent of any document; validity against a specific document
// is only known by attempting Apply.
package patch

import (
	"fmt"

	"github.com/roach88/jp/internal/doc"
)

// Op identifies an RFC 6902 operation kind.
type Op string

const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
	OpMove    Op = "move"
	OpCopy    Op = "copy"
	OpTest    Op = "test"
)

// Operation is a single edit primitive. Path is always set; From is
// non-nil only for move and copy; Value is non-nil only for add,
// replace, and test (an explicit JSON null is doc.Null, not nil).
type Operation struct {
	Op    Op
	Path  doc.Pointer
	From  doc.Pointer
	Value doc.Value
}

// Patch is an ordered sequence of operations, applied strictly
// left-to-right, each seeing the result of the previous.
type Patch []Operation

// Parse decodes the wire form: a JSON array of operation objects.
// JSON syntax errors surface as *doc.ParseError; well-formed JSON
// with a bad operation shape surfaces as *FormatError.
func Parse(data []byte) (Patch, error) {
	v, err := doc.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return FromValue(v)
}

// FromValue interprets an already-parsed document as a patch.
func FromValue(v doc.Value) (Patch, error) {
	arr, ok := v.(doc.Array)
	if !ok {
		return nil, &FormatError{Index: -1, Msg: fmt.Sprintf("expected a JSON array, got %s", doc.Kind(v))}
	}
	p := make(Patch, 0, len(arr))
	for i, el := range arr {
		op, err := operationFromValue(i, el)
		if err != nil {
			return nil, err
		}
		p = append(p, op)
	}
	return p, nil
}

func operationFromValue(index int, v doc.Value) (Operation, error) {
	obj, ok := v.(doc.Object)
	if !ok {
		return Operation{}, &FormatError{Index: index, Msg: fmt.Sprintf("expected an object, got %s", doc.Kind(v))}
	}

	kind, err := stringField(index, obj, "op")
	if err != nil {
		return Operation{}, err
	}
	op := Operation{Op: Op(kind)}
	switch op.Op {
	case OpAdd, OpRemove, OpReplace, OpMove, OpCopy, OpTest:
	default:
		return Operation{}, &FormatError{Index: index, Msg: fmt.Sprintf("unknown op %q", kind)}
	}

	rawPath, err := stringField(index, obj, "path")
	if err != nil {
		return Operation{}, err
	}
	if op.Path, err = doc.ParsePointer(rawPath); err != nil {
		return Operation{}, &FormatError{Index: index, Msg: err.Error()}
	}

	switch op.Op {
	case OpAdd, OpReplace, OpTest:
		val, present := obj.Get("value")
		if !present {
			return Operation{}, &FormatError{Index: index, Msg: fmt.Sprintf("%s requires \"value\"", op.Op)}
		}
		op.Value = val
	case OpMove, OpCopy:
		rawFrom, err := stringField(index, obj, "from")
		if err != nil {
			return Operation{}, err
		}
		if op.From, err = doc.ParsePointer(rawFrom); err != nil {
			return Operation{}, &FormatError{Index: index, Msg: err.Error()}
		}
	}
	return op, nil
}

func stringField(index int, obj doc.Object, key string) (string, error) {
	v, present := obj.Get(key)
	if !present {
		return "", &FormatError{Index: index, Msg: fmt.Sprintf("missing %q", key)}
	}
	s, ok := v.(doc.String)
	if !ok {
		return "", &FormatError{Index: index, Msg: fmt.Sprintf("%q must be a string, got %s", key, doc.Kind(v))}
	}
	return string(s), nil
}

// ToValue renders the patch as a document tree: an array of operation
// objects with members ordered op, path, from, value.
func (p Patch) ToValue() doc.Value {
	arr := make(doc.Array, 0, len(p))
	for _, op := range p {
		members := []doc.Member{
			{Key: "op", Value: doc.String(op.Op)},
			{Key: "path", Value: doc.String(op.Path.String())},
		}
		if op.From != nil {
			members = append(members, doc.Member{Key: "from", Value: doc.String(op.From.String())})
		}
		if op.Value != nil {
			members = append(members, doc.Member{Key: "value", Value: op.Value})
		}
		arr = append(arr, doc.NewObject(members...))
	}
	return arr
}

// Encode serializes the patch in its wire form. Identical patches
// always encode to identical bytes.
func Encode(p Patch) []byte {
	return doc.EncodeJSON(p.ToValue())
}
