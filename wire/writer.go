package wire

import (
	"encoding/binary"
	"math"

	"github.com/arloliu/vpack/endian"
	"github.com/arloliu/vpack/internal/pool"
)

// Writer appends wire-format primitives to a pooled byte buffer.
//
// A Writer is owned by a single encode pass. Call Release when the pass
// finishes (successfully or not) to return the buffer to the pool; copy the
// result out of Bytes first, since the slice is invalidated by Release.
//
// The Writer is NOT safe for concurrent use.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewWriter creates a Writer using the given endian engine for fixed-width
// payloads.
func NewWriter(engine endian.EndianEngine) *Writer {
	return &Writer{
		engine: engine,
		buf:    pool.GetStreamBuffer(),
	}
}

// WriteTag appends a one-byte tag.
func (w *Writer) WriteTag(t Tag) {
	w.buf.MustWrite([]byte{byte(t)})
}

// WriteUvarint appends v in unsigned LEB128 form.
func (w *Writer) WriteUvarint(v uint64) {
	n := uvarintLen(v)
	oldLen := w.buf.Len()
	w.buf.ExtendOrGrow(n)
	binary.PutUvarint(w.buf.Bytes()[oldLen:], v)
}

// WriteFloat64 appends the 8-byte IEEE 754 representation of f in the
// writer's byte order.
func (w *Writer) WriteFloat64(f float64) {
	oldLen := w.buf.Len()
	w.buf.ExtendOrGrow(8)
	w.engine.PutUint64(w.buf.Bytes()[oldLen:], math.Float64bits(f))
}

// WriteText appends a uvarint length prefix followed by the raw bytes of s.
// Any byte content is legal, including embedded zero bytes.
func (w *Writer) WriteText(s string) {
	textLen := len(s)
	varintBytes := uvarintLen(uint64(textLen))

	oldLen := w.buf.Len()
	w.buf.ExtendOrGrow(varintBytes + textLen)
	buf := w.buf.Bytes()

	binary.PutUvarint(buf[oldLen:], uint64(textLen))
	copy(buf[oldLen+varintBytes:], s)
}

// WriteBytes appends a uvarint length prefix followed by the raw bytes of b.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteUvarint(uint64(len(b)))
	w.buf.MustWrite(b)
}

// Bytes returns the accumulated stream. The returned slice shares the
// writer's buffer; it is invalidated by Release and must not be modified.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Release returns the underlying buffer to the pool. The Writer must not be
// used afterwards.
func (w *Writer) Release() {
	if w.buf != nil {
		pool.PutStreamBuffer(w.buf)
		w.buf = nil
	}
}

// uvarintLen returns the number of bytes binary.PutUvarint needs for v.
func uvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}
