package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) Value {
	t.Helper()
	v, err := ParseJSON([]byte(src))
	require.NoError(t, err)
	return v
}

func TestObjectPreservesMemberOrder(t *testing.T) {
	obj := NewObject(
		Member{Key: "z", Value: Number("1")},
		Member{Key: "a", Value: Number("2")},
		Member{Key: "m", Value: Number("3")},
	)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	// Overwriting keeps the original position.
	obj = obj.With("a", Number("9"))
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())
	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, Number("9"), v)

	// New keys append.
	obj = obj.With("b", Bool(true))
	assert.Equal(t, []string{"z", "a", "m", "b"}, obj.Keys())
}

func TestObjectWithDoesNotMutateReceiver(t *testing.T) {
	base := NewObject(Member{Key: "x", Value: Number("1")})
	derived := base.With("x", Number("2")).With("y", Number("3"))

	v, _ := base.Get("x")
	assert.Equal(t, Number("1"), v)
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, derived.Len())
}

func TestObjectWithout(t *testing.T) {
	obj := NewObject(
		Member{Key: "a", Value: Number("1")},
		Member{Key: "b", Value: Number("2")},
		Member{Key: "c", Value: Number("3")},
	)
	pruned := obj.Without("b")
	assert.Equal(t, []string{"a", "c"}, pruned.Keys())
	assert.Equal(t, 3, obj.Len())

	// Removing an absent key is a no-op.
	assert.Equal(t, 2, pruned.Without("nope").Len())
}

func TestEqualScalars(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null equals null", Null{}, Null{}, true},
		{"null vs bool", Null{}, Bool(false), false},
		{"bools", Bool(true), Bool(true), true},
		{"bools differ", Bool(true), Bool(false), false},
		{"strings", String("hi"), String("hi"), true},
		{"string vs number", String("1"), Number("1"), false},
		{"numbers same literal", Number("1.5"), Number("1.5"), true},
		{"numbers different literal same value", Number("1.0"), Number("1"), true},
		{"numbers exponent form", Number("1e3"), Number("1000"), true},
		{"numbers differ", Number("1"), Number("2"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestEqualIgnoresObjectKeyOrder(t *testing.T) {
	a := mustParse(t, `{"x": 1, "y": [1, 2, {"z": null}]}`)
	b := mustParse(t, `{"y": [1, 2, {"z": null}], "x": 1}`)
	assert.True(t, Equal(a, b))
}

func TestEqualArrayOrderMatters(t *testing.T) {
	a := mustParse(t, `[1, 2]`)
	b := mustParse(t, `[2, 1]`)
	assert.False(t, Equal(a, b))
}

func TestEqualNestedMismatch(t *testing.T) {
	a := mustParse(t, `{"a": {"b": [1]}}`)
	b := mustParse(t, `{"a": {"b": [1, 2]}}`)
	assert.False(t, Equal(a, b))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "object", Kind(Object{}))
	assert.Equal(t, "array", Kind(Array{}))
	assert.Equal(t, "null", Kind(Null{}))
	assert.Equal(t, "number", Kind(Number("1")))
}
