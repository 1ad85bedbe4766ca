package patch

import "github.com/roach88/jp/internal/doc"

// Apply applies the patch to v, returning the transformed document.
// Operations run strictly in order; the first failure aborts the
// whole apply with an *ApplyError identifying the operation. Apply is
// purely functional: v is never mutated, so a failed apply leaves the
// caller's document exactly as it was.
func Apply(v doc.Value, p Patch) (doc.Value, error) {
	out := v
	for i, op := range p {
		var err *ApplyError
		switch op.Op {
		case OpAdd:
			out, err = applyAdd(out, op.Path, op.Value)
		case OpRemove:
			out, _, err = applyRemove(out, op.Path)
		case OpReplace:
			out, err = applyReplace(out, op.Path, op.Value)
		case OpMove:
			out, err = applyMove(out, op.From, op.Path)
		case OpCopy:
			out, err = applyCopy(out, op.From, op.Path)
		case OpTest:
			err = applyTest(out, op.Path, op.Value)
		default:
			err = &ApplyError{Code: ErrCodeInvalidPatch, Reason: "unknown op"}
		}
		if err != nil {
			err.OpIndex = i
			err.Op = op.Op
			if err.Path == "" {
				err.Path = op.Path.String()
			}
			return nil, err
		}
	}
	return out, nil
}

// applyAdd inserts val at p. An object key is inserted or
// overwritten; an array index inserts before that position, shifting
// later elements right; "-" appends. The root path replaces the whole
// document.
func applyAdd(v doc.Value, p doc.Pointer, val doc.Value) (doc.Value, *ApplyError) {
	if p.IsRoot() {
		return val, nil
	}
	return updateParent(v, p, func(parent doc.Value, tok string) (doc.Value, *ApplyError) {
		switch c := parent.(type) {
		case doc.Object:
			return c.With(tok, val), nil
		case doc.Array:
			if tok == "-" {
				return insertAt(c, len(c), val), nil
			}
			idx, ok := doc.ArrayIndex(tok)
			if !ok {
				return nil, pathNotFound(p)
			}
			if idx > len(c) {
				return nil, &ApplyError{Code: ErrCodeIndexOutOfBounds, Path: p.String()}
			}
			return insertAt(c, idx, val), nil
		}
		return nil, pathNotFound(p)
	})
}

// applyRemove deletes the value at p and also returns it, for move.
func applyRemove(v doc.Value, p doc.Pointer) (doc.Value, doc.Value, *ApplyError) {
	if p.IsRoot() {
		return nil, nil, &ApplyError{Code: ErrCodeInvalidPatch, Reason: "cannot remove the document root"}
	}
	var removed doc.Value
	out, err := updateParent(v, p, func(parent doc.Value, tok string) (doc.Value, *ApplyError) {
		switch c := parent.(type) {
		case doc.Object:
			var ok bool
			if removed, ok = c.Get(tok); !ok {
				return nil, pathNotFound(p)
			}
			return c.Without(tok), nil
		case doc.Array:
			idx, ok := doc.ArrayIndex(tok)
			if !ok || idx >= len(c) {
				return nil, pathNotFound(p)
			}
			removed = c[idx]
			next := make(doc.Array, 0, len(c)-1)
			next = append(next, c[:idx]...)
			next = append(next, c[idx+1:]...)
			return next, nil
		}
		return nil, pathNotFound(p)
	})
	if err != nil {
		return nil, nil, err
	}
	return out, removed, nil
}

// applyReplace sets the value at p, requiring it to exist first.
func applyReplace(v doc.Value, p doc.Pointer, val doc.Value) (doc.Value, *ApplyError) {
	if p.IsRoot() {
		return val, nil
	}
	return updateParent(v, p, func(parent doc.Value, tok string) (doc.Value, *ApplyError) {
		switch c := parent.(type) {
		case doc.Object:
			if _, ok := c.Get(tok); !ok {
				return nil, pathNotFound(p)
			}
			return c.With(tok, val), nil
		case doc.Array:
			idx, ok := doc.ArrayIndex(tok)
			if !ok || idx >= len(c) {
				return nil, pathNotFound(p)
			}
			next := make(doc.Array, len(c))
			copy(next, c)
			next[idx] = val
			return next, nil
		}
		return nil, pathNotFound(p)
	})
}

func applyMove(v doc.Value, from, p doc.Pointer) (doc.Value, *ApplyError) {
	if from.StrictPrefixOf(p) {
		return nil, &ApplyError{
			Code:   ErrCodeInvalidMove,
			Path:   p.String(),
			Reason: "destination is inside the moved subtree " + from.String(),
		}
	}
	out, moved, err := applyRemove(v, from)
	if err != nil {
		return nil, err
	}
	return applyAdd(out, p, moved)
}

func applyCopy(v doc.Value, from, p doc.Pointer) (doc.Value, *ApplyError) {
	val, ok := doc.Resolve(v, from)
	if !ok {
		return nil, pathNotFound(from)
	}
	// Values are immutable; sharing the subtree is a safe deep copy.
	return applyAdd(v, p, val)
}

func applyTest(v doc.Value, p doc.Pointer, expected doc.Value) *ApplyError {
	actual, ok := doc.Resolve(v, p)
	if !ok {
		return pathNotFound(p)
	}
	if !doc.Equal(actual, expected) {
		return &ApplyError{
			Code:     ErrCodeTestFailed,
			Path:     p.String(),
			Expected: expected,
			Actual:   actual,
		}
	}
	return nil
}

// updateParent navigates to the parent of p, applies f with the final
// token, and rebuilds the spine above it. Unchanged siblings are
// shared between the old and new trees.
func updateParent(v doc.Value, p doc.Pointer, f func(parent doc.Value, tok string) (doc.Value, *ApplyError)) (doc.Value, *ApplyError) {
	return updateRec(v, p, 0, f)
}

func updateRec(cur doc.Value, p doc.Pointer, depth int, f func(parent doc.Value, tok string) (doc.Value, *ApplyError)) (doc.Value, *ApplyError) {
	if depth == len(p)-1 {
		return f(cur, p[depth])
	}
	tok := p[depth]
	switch c := cur.(type) {
	case doc.Object:
		child, ok := c.Get(tok)
		if !ok {
			return nil, pathNotFound(p[:depth+1])
		}
		next, err := updateRec(child, p, depth+1, f)
		if err != nil {
			return nil, err
		}
		return c.With(tok, next), nil
	case doc.Array:
		idx, ok := doc.ArrayIndex(tok)
		if !ok || idx >= len(c) {
			return nil, pathNotFound(p[:depth+1])
		}
		next, err := updateRec(c[idx], p, depth+1, f)
		if err != nil {
			return nil, err
		}
		out := make(doc.Array, len(c))
		copy(out, c)
		out[idx] = next
		return out, nil
	}
	return nil, pathNotFound(p[:depth+1])
}

func insertAt(arr doc.Array, idx int, val doc.Value) doc.Array {
	next := make(doc.Array, 0, len(arr)+1)
	next = append(next, arr[:idx]...)
	next = append(next, val)
	next = append(next, arr[idx:]...)
	return next
}
