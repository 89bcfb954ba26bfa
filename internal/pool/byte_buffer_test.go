package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len(), "new buffer should have zero length")
	assert.Equal(t, 1024, bb.Cap(), "new buffer should have specified capacity")
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("hello"))
	bb.MustWrite([]byte(" world"))

	require.Equal(t, []byte("hello world"), bb.Bytes())
	require.Equal(t, 11, bb.Len())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("data"))
	oldCap := bb.Cap()

	bb.Reset()

	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, oldCap, bb.Cap(), "Reset should retain capacity")
}

func TestByteBuffer_Extend(t *testing.T) {
	bb := NewByteBuffer(16)

	require.True(t, bb.Extend(8), "extend within capacity should succeed")
	require.Equal(t, 8, bb.Len())

	require.False(t, bb.Extend(16), "extend beyond capacity should fail")
	require.Equal(t, 8, bb.Len())
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.ExtendOrGrow(100)

	require.Equal(t, 100, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 100)
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte("abcd"))

	bb.Grow(1000)

	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 1000)
	require.Equal(t, []byte("abcd"), bb.Bytes(), "Grow must preserve contents")
}

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(64, 1024)

	bb := p.Get()
	require.NotNil(t, bb)
	bb.MustWrite([]byte("x"))
	p.Put(bb)

	bb2 := p.Get()
	require.Equal(t, 0, bb2.Len(), "pooled buffer must be reset")
}

func TestByteBufferPool_DiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(16, 32)

	bb := p.Get()
	bb.Grow(1024)
	p.Put(bb) // should be dropped, not pooled

	bb2 := p.Get()
	require.LessOrEqual(t, bb2.Cap(), 32, "oversized buffer must not be retained")
}

func TestStreamBufferHelpers(t *testing.T) {
	bb := GetStreamBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	bb.MustWrite([]byte("payload"))
	PutStreamBuffer(bb)

	bb2 := GetStreamBuffer()
	require.Equal(t, 0, bb2.Len())
	PutStreamBuffer(bb2)
}
