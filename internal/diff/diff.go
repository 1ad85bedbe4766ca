// Package diff computes a minimal RFC 6902 patch between two
// documents by structural recursion. Diff is total: it never fails,
// and Apply(from, Diff(from, to)) always yields a document equal to
// to.
package diff

import (
	"strconv"

	"github.com/roach88/jp/internal/doc"
	"github.com/roach88/jp/internal/patch"
)

// Diff returns a patch transforming from into to. Equal subtrees
// contribute no operations, and identical inputs always produce
// byte-identical serialized patches, so patch files stay stable under
// version control.
func Diff(from, to doc.Value) patch.Patch {
	ops := patch.Patch{}
	diffValue(doc.Pointer{}, from, to, &ops)
	return ops
}

func diffValue(p doc.Pointer, from, to doc.Value, ops *patch.Patch) {
	if doc.Equal(from, to) {
		return
	}
	switch f := from.(type) {
	case doc.Object:
		if t, ok := to.(doc.Object); ok {
			diffObject(p, f, t, ops)
			return
		}
	case doc.Array:
		if t, ok := to.(doc.Array); ok {
			diffArray(p, f, t, ops)
			return
		}
	}
	// Kind mismatch or differing scalars: one replace, substructure
	// discarded.
	*ops = append(*ops, patch.Operation{Op: patch.OpReplace, Path: p, Value: to})
}

// diffObject recurses over shared keys in from's member order, then
// removes vanished keys and adds new keys in to's member order.
// Object removals never shift sibling addresses, so this ordering is
// purely about reproducibility.
func diffObject(p doc.Pointer, from, to doc.Object, ops *patch.Patch) {
	for _, m := range from.Members() {
		toVal, kept := to.Get(m.Key)
		if !kept {
			*ops = append(*ops, patch.Operation{Op: patch.OpRemove, Path: p.Child(m.Key)})
			continue
		}
		diffValue(p.Child(m.Key), m.Value, toVal, ops)
	}
	for _, m := range to.Members() {
		if _, present := from.Get(m.Key); !present {
			*ops = append(*ops, patch.Operation{Op: patch.OpAdd, Path: p.Child(m.Key), Value: m.Value})
		}
	}
}

// diffArray matches the common prefix and suffix positionally, then
// reconciles the middle: shared positions recurse, surplus source
// elements are removed high-index-first, and surplus target elements
// are added low-index-first. That ordering keeps every later index
// valid against the document state produced by the earlier
// operations, without recomputation.
func diffArray(p doc.Pointer, from, to doc.Array, ops *patch.Patch) {
	prefix := 0
	for prefix < len(from) && prefix < len(to) && doc.Equal(from[prefix], to[prefix]) {
		prefix++
	}
	suffix := 0
	for suffix < len(from)-prefix && suffix < len(to)-prefix &&
		doc.Equal(from[len(from)-1-suffix], to[len(to)-1-suffix]) {
		suffix++
	}

	fm := from[prefix : len(from)-suffix]
	tm := to[prefix : len(to)-suffix]
	common := min(len(fm), len(tm))

	for i := 0; i < common; i++ {
		diffValue(p.Child(strconv.Itoa(prefix+i)), fm[i], tm[i], ops)
	}
	for i := len(fm) - 1; i >= common; i-- {
		*ops = append(*ops, patch.Operation{Op: patch.OpRemove, Path: p.Child(strconv.Itoa(prefix + i))})
	}
	for i := common; i < len(tm); i++ {
		*ops = append(*ops, patch.Operation{Op: patch.OpAdd, Path: p.Child(strconv.Itoa(prefix + i)), Value: tm[i]})
	}
}
