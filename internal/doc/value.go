package doc

import "strconv"

// Value is a sealed interface over the document variants.
// Only Null, Bool, Number, String, Array, and Object implement it.
type Value interface {
	value() // sealed
}

// Null represents a null value.
type Null struct{}

func (Null) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Number holds the source literal of a numeric value ("1", "2.50",
// "1e3"). Keeping the literal instead of a float64 preserves the
// author's formatting across parse/encode round trips. Equality is
// literal-first, numeric-second; see Equal.
type Number string

func (Number) value() {}

// Float parses the literal as a float64.
func (n Number) Float() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// String represents a string value.
type String string

func (String) value() {}

// Array represents an ordered sequence of values.
type Array []Value

func (Array) value() {}

// Member is a single key/value entry of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered string-keyed mapping. Keys are unique and
// member order is the source order; it is preserved by every
// transformation that does not specifically reorder members.
//
// Object is persistent: With and Without return a new Object and
// leave the receiver untouched.
type Object struct {
	members []Member
}

func (Object) value() {}

// NewObject builds an Object from members. Later duplicate keys
// overwrite earlier ones in place, keeping the first position.
func NewObject(members ...Member) Object {
	o := Object{}
	for _, m := range members {
		o = o.With(m.Key, m.Value)
	}
	return o
}

// Len returns the number of members.
func (o Object) Len() int { return len(o.members) }

// Members returns the members in order. The returned slice is shared
// with the Object and must not be modified.
func (o Object) Members() []Member { return o.members }

// Keys returns the keys in member order.
func (o Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the value for key and whether it was present.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// With returns a new Object with key set to v. An existing key keeps
// its position; a new key is appended.
func (o Object) With(key string, v Value) Object {
	members := make([]Member, len(o.members), len(o.members)+1)
	copy(members, o.members)
	for i, m := range members {
		if m.Key == key {
			members[i].Value = v
			return Object{members: members}
		}
	}
	return Object{members: append(members, Member{Key: key, Value: v})}
}

// Without returns a new Object with key removed. Removing an absent
// key returns an equivalent Object.
func (o Object) Without(key string) Object {
	members := make([]Member, 0, len(o.members))
	for _, m := range o.members {
		if m.Key != key {
			members = append(members, m)
		}
	}
	return Object{members: members}
}

// Equal reports deep structural equality. Object member order does
// not affect equality (only serialization); numbers that differ in
// literal form compare numerically, so "1.0" equals "1".
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		af, aerr := av.Float()
		bf, berr := bv.Float()
		return aerr == nil && berr == nil && af == bf
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, m := range av.members {
			other, present := bv.Get(m.Key)
			if !present || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

// Kind returns a short name for the variant of v, for error messages.
func Kind(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}
