package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/arloliu/vpack/errs"
	"github.com/arloliu/vpack/internal/hash"
)

// Frame layout:
//
//	[4]byte magic "VPK1"
//	uvarint payload length
//	payload (a plain vpack stream)
//	8-byte little-endian xxHash64 of the payload
//
// The trailer is always little-endian, independent of the payload's number
// byte order.
var frameMagic = [4]byte{'V', 'P', 'K', '1'}

const frameChecksumLen = 8

// Frame wraps a plain stream in the framed format: magic, payload length,
// payload, checksum trailer. Use it when streams cross storage or transport
// that can corrupt or misdeliver bytes.
func Frame(payload []byte) []byte {
	buf := make([]byte, 0, len(frameMagic)+binary.MaxVarintLen64+len(payload)+frameChecksumLen)
	buf = append(buf, frameMagic[:]...)
	buf = binary.AppendUvarint(buf, uint64(len(payload)))
	buf = append(buf, payload...)
	buf = binary.LittleEndian.AppendUint64(buf, hash.Checksum(payload))

	return buf
}

// Unframe validates a framed stream and returns the enclosed payload. It
// fails with errs.ErrInvalidMagic if data does not start with the frame
// magic, errs.ErrChecksumMismatch if the payload does not match its
// checksum, and errs.ErrMalformedStream for truncation or trailing bytes.
//
// The returned payload aliases data; it is not a copy.
func Unframe(data []byte) ([]byte, error) {
	if len(data) < len(frameMagic) || !bytes.Equal(data[:len(frameMagic)], frameMagic[:]) {
		return nil, fmt.Errorf("%w: data does not start with %q", errs.ErrInvalidMagic, frameMagic)
	}

	rest := data[len(frameMagic):]
	payloadLen, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad frame length", errs.ErrMalformedStream)
	}
	rest = rest[n:]

	if uint64(len(rest)) < payloadLen {
		return nil, fmt.Errorf("%w: frame claims %d payload bytes, %d remain",
			errs.ErrMalformedStream, payloadLen, len(rest))
	}

	payload := rest[:payloadLen]
	trailer := rest[payloadLen:]
	if len(trailer) != frameChecksumLen {
		return nil, fmt.Errorf("%w: frame trailer is %d bytes, want %d",
			errs.ErrMalformedStream, len(trailer), frameChecksumLen)
	}

	want := binary.LittleEndian.Uint64(trailer)
	if got := hash.Checksum(payload); got != want {
		return nil, fmt.Errorf("%w: payload hashes to %016x, trailer says %016x",
			errs.ErrChecksumMismatch, got, want)
	}

	return payload, nil
}
