package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	require.Equal(t, "absent", KindAbsent.String())
	require.Equal(t, "bool", KindBool.String())
	require.Equal(t, "number", KindNumber.String())
	require.Equal(t, "text", KindText.String())
	require.Equal(t, "container", KindContainer.String())
	require.Equal(t, "function", KindFunction.String())
	require.Equal(t, "kind(200)", Kind(200).String())
}

func TestNormalize(t *testing.T) {
	require.Equal(t, Nothing, Normalize(nil))
	require.Equal(t, Number(1), Normalize(Number(1)))
}

func TestIsAbsent(t *testing.T) {
	require.True(t, IsAbsent(nil))
	require.True(t, IsAbsent(Nothing))
	require.False(t, IsAbsent(Bool(false)))
	require.False(t, IsAbsent(Number(0)))
	require.False(t, IsAbsent(Text("")))
}

func TestHasIdentity(t *testing.T) {
	require.False(t, HasIdentity(nil))
	require.False(t, HasIdentity(Nothing))
	require.False(t, HasIdentity(Number(1)))
	require.False(t, HasIdentity(Text("x")))
	require.True(t, HasIdentity(NewContainer()))
	require.True(t, HasIdentity(&Function{}))
}

func TestCheckKey(t *testing.T) {
	require.Error(t, CheckKey(nil))
	require.Error(t, CheckKey(Nothing))
	require.Error(t, CheckKey(Number(math.NaN())))
	require.NoError(t, CheckKey(Number(0)))
	require.NoError(t, CheckKey(Bool(false)))
	require.NoError(t, CheckKey(Text("")))
	require.NoError(t, CheckKey(NewContainer()))
}

func TestEqual_Primitives(t *testing.T) {
	require.True(t, Equal(Nothing, nil))
	require.True(t, Equal(Bool(true), Bool(true)))
	require.False(t, Equal(Bool(true), Bool(false)))
	require.True(t, Equal(Number(1.5), Number(1.5)))
	require.True(t, Equal(Number(math.Inf(1)), Number(math.Inf(1))))
	require.False(t, Equal(Number(math.Inf(1)), Number(math.Inf(-1))))
	require.True(t, Equal(Number(math.NaN()), Number(math.NaN())))
	require.True(t, Equal(Text("a\x00b"), Text("a\x00b")))
	require.False(t, Equal(Text("a"), Number(1)))
}

func TestEqual_Containers(t *testing.T) {
	a := NewContainer()
	a.Append(Number(1), Nothing, Text("x"))
	a.Set(Text("k"), Bool(true))

	b := NewContainer()
	b.Append(Number(1), Nothing, Text("x"))
	b.Set(Text("k"), Bool(true))

	require.True(t, Equal(a, b))

	b.Set(Text("k"), Bool(false))
	require.False(t, Equal(a, b))

	b.Set(Text("k"), Bool(true))
	b.SetTag("tagged")
	require.False(t, Equal(a, b), "tag is part of structural equality")
}

func TestEqual_Cycles(t *testing.T) {
	a := NewContainer()
	a.Set(Text("cycle"), a)

	b := NewContainer()
	b.Set(Text("cycle"), b)

	require.True(t, Equal(a, b))
}

func TestEqual_ContainerKeys(t *testing.T) {
	ka := NewContainer()
	ka.Append(Number(1))
	a := NewContainer()
	a.Set(ka, Text("v"))

	kb := NewContainer()
	kb.Append(Number(1))
	b := NewContainer()
	b.Set(kb, Text("v"))

	require.True(t, Equal(a, b), "container keys match structurally")

	kb2 := NewContainer()
	kb2.Append(Number(2))
	c := NewContainer()
	c.Set(kb2, Text("v"))
	require.False(t, Equal(a, c))
}

func TestEqual_Functions(t *testing.T) {
	fa := &Function{Impl: []byte{1, 2, 3}}
	fb := &Function{Impl: []byte{1, 2, 3}}
	fc := &Function{Impl: []byte{9}}

	require.True(t, Equal(fa, fa))
	require.True(t, Equal(fa, fb))
	require.False(t, Equal(fa, fc))
}
