package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ccoveille/go-safecast"

	"github.com/arloliu/vpack/endian"
	"github.com/arloliu/vpack/errs"
)

// Reader consumes wire-format primitives from a byte slice.
//
// Every read failure wraps errs.ErrMalformedStream with the offset at which
// the stream became undecodable. Lengths and counts are validated against
// the remaining input before any allocation, so a corrupt length prefix
// cannot trigger an absurd allocation.
//
// The Reader is NOT safe for concurrent use and is not reusable across
// streams.
type Reader struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

// NewReader creates a Reader over data using the given endian engine for
// fixed-width payloads.
func NewReader(data []byte, engine endian.EndianEngine) *Reader {
	return &Reader{data: data, engine: engine}
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadTag reads the next one-byte tag and validates it.
func (r *Reader) ReadTag() (Tag, error) {
	if r.Remaining() < 1 {
		return 0, fmt.Errorf("%w: truncated at offset %d, expected value tag", errs.ErrMalformedStream, r.pos)
	}

	t := Tag(r.data[r.pos])
	if !t.Valid() {
		return 0, fmt.Errorf("%w: invalid tag 0x%02x at offset %d", errs.ErrMalformedStream, byte(t), r.pos)
	}
	r.pos++

	return t, nil
}

// ReadUvarint reads an unsigned LEB128 integer.
func (r *Reader) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: bad uvarint at offset %d", errs.ErrMalformedStream, r.pos)
	}
	r.pos += n

	return v, nil
}

// ReadLen reads a uvarint length or count and validates that it fits in an
// int and does not exceed the remaining input. Every encoded item consumes
// at least one byte, so a count larger than the remaining byte count can
// never be satisfied and is rejected up front.
func (r *Reader) ReadLen() (int, error) {
	start := r.pos
	v, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}

	n, err := safecast.ToInt(v)
	if err != nil {
		return 0, fmt.Errorf("%w: length %d at offset %d overflows int", errs.ErrMalformedStream, v, start)
	}

	if n > r.Remaining() {
		return 0, fmt.Errorf("%w: length %d at offset %d exceeds %d remaining bytes",
			errs.ErrMalformedStream, n, start, r.Remaining())
	}

	return n, nil
}

// ReadFloat64 reads an 8-byte IEEE 754 double in the reader's byte order.
func (r *Reader) ReadFloat64() (float64, error) {
	if r.Remaining() < 8 {
		return 0, fmt.Errorf("%w: truncated number at offset %d", errs.ErrMalformedStream, r.pos)
	}

	bits := r.engine.Uint64(r.data[r.pos:])
	r.pos += 8

	return math.Float64frombits(bits), nil
}

// ReadText reads a uvarint length prefix followed by that many raw bytes.
func (r *Reader) ReadText() (string, error) {
	n, err := r.ReadLen()
	if err != nil {
		return "", err
	}

	s := string(r.data[r.pos : r.pos+n])
	r.pos += n

	return s, nil
}

// ReadBytes reads a uvarint length prefix followed by that many raw bytes.
// The returned slice is a copy, valid after the reader's input is gone.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}

	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+n])
	r.pos += n

	return b, nil
}
