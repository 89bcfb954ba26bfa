package vpack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vpack/errs"
	"github.com/arloliu/vpack/registry"
	"github.com/arloliu/vpack/value"
)

func TestEncodeDecode(t *testing.T) {
	tab := value.NewContainer()
	tab.Set(value.Text("cycle"), tab)
	tab.Append(value.Number(1), nil, value.Text("x"))

	data, err := Encode(tab, tab, value.Bool(true), nil)
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, out, 4)

	require.True(t, out[0] == out[1], "shared identity survives the facade")
	got := out[0].(*value.Container)
	require.True(t, got.Get(value.Text("cycle")) == value.Value(got))
	require.Equal(t, value.Bool(true), out[2])
	require.Equal(t, value.Nothing, out[3])
}

func TestEncodeDecodeFramed(t *testing.T) {
	data, err := EncodeFramed(value.Number(7), value.Text("framed"))
	require.NoError(t, err)

	out, err := DecodeFramed(data)
	require.NoError(t, err)
	require.Equal(t, []value.Value{value.Number(7), value.Text("framed")}, out)

	// Truncated frames never decode.
	_, err = DecodeFramed(data[:len(data)-2])
	require.Error(t, err)
}

func TestDecodeFramed_Corruption(t *testing.T) {
	data, err := EncodeFramed(value.Text("fragile"))
	require.NoError(t, err)

	data[len(data)-3] ^= 0x40
	_, err = DecodeFramed(data)
	require.Error(t, err)
}

func TestRegisterType_DefaultRegistry(t *testing.T) {
	desc := &registry.Descriptor{
		Name:     "facade-point",
		Strategy: registry.StrategyTemplate,
		Template: registry.Template{
			registry.Field(value.Text("x")),
			registry.Field(value.Text("y")),
		},
	}
	require.NoError(t, RegisterType(desc))
	t.Cleanup(func() { UnregisterType("facade-point") })

	p := value.NewTagged("facade-point")
	p.Set(value.Text("x"), value.Number(3))
	p.Set(value.Text("y"), value.Number(4))

	data, err := Encode(p)
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	require.True(t, value.Equal(p, out[0]))
}

func TestRegisterResource_DefaultRegistry(t *testing.T) {
	res := value.NewContainer()
	res.Set(value.Text("counter"), value.Number(0))
	require.NoError(t, RegisterResource("facade-res", res))
	t.Cleanup(func() { UnregisterResource("facade-res") })

	data, err := Encode(res)
	require.NoError(t, err)

	res.Set(value.Text("counter"), value.Number(1))

	out, err := Decode(data)
	require.NoError(t, err)
	require.True(t, out[0] == value.Value(res))
	require.Equal(t, value.Number(1), out[0].(*value.Container).Get(value.Text("counter")))
}

func TestDecode_UnregisteredAfterEncode(t *testing.T) {
	res := value.NewContainer()
	require.NoError(t, RegisterResource("facade-temp", res))

	data, err := Encode(res)
	require.NoError(t, err)

	UnregisterResource("facade-temp")

	_, err = Decode(data)
	require.ErrorIs(t, err, errs.ErrUnknownResource)
}
