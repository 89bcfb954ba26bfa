package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vpack/endian"
	"github.com/arloliu/vpack/errs"
)

func TestTag_Valid(t *testing.T) {
	for tag := TagAbsent; tag <= TagFunction; tag++ {
		require.True(t, tag.Valid(), "tag %s", tag)
	}
	require.False(t, Tag(0x0B).Valid())
	require.False(t, Tag(0xFF).Valid())
}

func TestTag_String(t *testing.T) {
	require.Equal(t, "absent", TagAbsent.String())
	require.Equal(t, "back-reference", TagRef.String())
	require.Equal(t, "typed-object(template)", TagTemplated.String())
	require.Equal(t, "tag(0xff)", Tag(0xFF).String())
}

func TestWriter_ReadBack(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	w := NewWriter(engine)
	defer w.Release()

	w.WriteTag(TagNumber)
	w.WriteFloat64(3.25)
	w.WriteUvarint(300)
	w.WriteText("hello\x00world")
	w.WriteBytes([]byte{0xDE, 0xAD})

	r := NewReader(w.Bytes(), engine)

	tag, err := r.ReadTag()
	require.NoError(t, err)
	require.Equal(t, TagNumber, tag)

	f, err := r.ReadFloat64()
	require.NoError(t, err)
	require.Equal(t, 3.25, f)

	v, err := r.ReadUvarint()
	require.NoError(t, err)
	require.Equal(t, uint64(300), v)

	s, err := r.ReadText()
	require.NoError(t, err)
	require.Equal(t, "hello\x00world", s)

	b, err := r.ReadBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0xDE, 0xAD}, b)

	require.Equal(t, 0, r.Remaining())
}

func TestWriter_Float64Extremes(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	cases := []float64{
		0, math.Copysign(0, -1), 1, -1290, 809,
		math.Inf(1), math.Inf(-1),
		math.MaxFloat64, math.SmallestNonzeroFloat64, // subnormal
		5e-324, 2.2250738585072014e-308,
	}

	w := NewWriter(engine)
	defer w.Release()
	for _, f := range cases {
		w.WriteFloat64(f)
	}

	r := NewReader(w.Bytes(), engine)
	for _, want := range cases {
		got, err := r.ReadFloat64()
		require.NoError(t, err)
		require.Equal(t, math.Float64bits(want), math.Float64bits(got), "value %v", want)
	}
}

func TestWriter_BigEndian(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	w := NewWriter(engine)
	defer w.Release()

	w.WriteFloat64(1.0)

	r := NewReader(w.Bytes(), engine)
	f, err := r.ReadFloat64()
	require.NoError(t, err)
	require.Equal(t, 1.0, f)

	// Reading with the wrong engine must not round-trip.
	r2 := NewReader(w.Bytes(), endian.GetLittleEndianEngine())
	f2, err := r2.ReadFloat64()
	require.NoError(t, err)
	require.NotEqual(t, 1.0, f2)
}

func TestReader_TruncatedTag(t *testing.T) {
	r := NewReader(nil, endian.GetLittleEndianEngine())
	_, err := r.ReadTag()
	require.ErrorIs(t, err, errs.ErrMalformedStream)
}

func TestReader_InvalidTag(t *testing.T) {
	r := NewReader([]byte{0x7F}, endian.GetLittleEndianEngine())
	_, err := r.ReadTag()
	require.ErrorIs(t, err, errs.ErrMalformedStream)
	require.Contains(t, err.Error(), "0x7f")
}

func TestReader_TruncatedNumber(t *testing.T) {
	r := NewReader([]byte{1, 2, 3}, endian.GetLittleEndianEngine())
	_, err := r.ReadFloat64()
	require.ErrorIs(t, err, errs.ErrMalformedStream)
}

func TestReader_BadUvarint(t *testing.T) {
	// Continuation bits forever, then truncation.
	r := NewReader([]byte{0x80, 0x80, 0x80}, endian.GetLittleEndianEngine())
	_, err := r.ReadUvarint()
	require.ErrorIs(t, err, errs.ErrMalformedStream)
}

func TestReader_LengthExceedsRemaining(t *testing.T) {
	// Claims 100 bytes of text but provides 2.
	r := NewReader([]byte{100, 'a', 'b'}, endian.GetLittleEndianEngine())
	_, err := r.ReadText()
	require.ErrorIs(t, err, errs.ErrMalformedStream)
	require.Contains(t, err.Error(), "exceeds")
}

func TestReader_HugeLengthRejectedBeforeAllocation(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	w := NewWriter(engine)
	defer w.Release()
	w.WriteUvarint(math.MaxUint64)

	r := NewReader(w.Bytes(), engine)
	_, err := r.ReadLen()
	require.ErrorIs(t, err, errs.ErrMalformedStream)
}
