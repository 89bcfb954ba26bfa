package codec

import (
	"fmt"

	"github.com/arloliu/vpack/errs"
	"github.com/arloliu/vpack/value"
)

// FunctionCodec turns opaque function values into byte payloads and back.
// The engine never interprets the payload; it embeds it verbatim in the
// stream with a length prefix.
//
// Only functions whose behavior is fully captured by the payload round-trip
// correctly; captured external state is the codec implementer's problem.
type FunctionCodec interface {
	// Encode produces the byte payload for fn.
	Encode(fn *value.Function) ([]byte, error)
	// Decode reconstructs a function from its payload. The payload slice is
	// owned by the callee.
	Decode(payload []byte) (*value.Function, error)
}

// stubFunctionCodec is the default: it refuses, so engines that never see
// functions pay nothing and engines that do fail loudly.
type stubFunctionCodec struct{}

func (stubFunctionCodec) Encode(*value.Function) ([]byte, error) {
	return nil, fmt.Errorf("%w: configure one with WithFunctionCodec to encode functions", errs.ErrNoFunctionCodec)
}

func (stubFunctionCodec) Decode([]byte) (*value.Function, error) {
	return nil, fmt.Errorf("%w: configure one with WithFunctionCodec to decode functions", errs.ErrNoFunctionCodec)
}

// BlobFunctionCodec round-trips functions whose Impl is a raw []byte
// payload, for hosts that treat function bodies as opaque byte blobs.
type BlobFunctionCodec struct{}

// Encode implements FunctionCodec.
func (BlobFunctionCodec) Encode(fn *value.Function) ([]byte, error) {
	b, ok := fn.Impl.([]byte)
	if !ok {
		return nil, fmt.Errorf("blob function codec: Impl is %T, want []byte", fn.Impl)
	}

	return b, nil
}

// Decode implements FunctionCodec.
func (BlobFunctionCodec) Decode(payload []byte) (*value.Function, error) {
	return &value.Function{Impl: payload}, nil
}
