// Package errs defines the sentinel errors reported by the vpack engine.
//
// All errors produced by encode, decode and registry operations wrap one of
// these sentinels, so callers can classify failures with errors.Is:
//
//	_, err := vpack.Decode(data)
//	if errors.Is(err, errs.ErrMalformedStream) {
//	    // stream is truncated or corrupt
//	}
package errs

import "errors"

var (
	// ErrMalformedStream indicates a truncated stream, an invalid tag, or an
	// out-of-range length or slot index encountered while decoding. It is
	// always fatal to the current pass; no partial result is returned.
	ErrMalformedStream = errors.New("malformed stream")

	// ErrUnknownType indicates a type name that is not registered, either on
	// encode (a tagged container whose name has no descriptor) or on decode
	// (a typed-object tag naming an unregistered type).
	ErrUnknownType = errors.New("unknown type")

	// ErrUnknownResource indicates a resource name with no registered object
	// at decode time.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrNameCollision indicates a register call with a name that is already
	// bound to a different descriptor or resource object.
	ErrNameCollision = errors.New("name collision")

	// ErrConstructorCycle indicates a serialize hook that returned the very
	// object being encoded, which has no well-founded encoding.
	ErrConstructorCycle = errors.New("constructor cycle")

	// ErrTemplateMismatch indicates a template field whose value does not
	// have the shape the template requires (a sub-template entry naming a
	// field that is not a container).
	ErrTemplateMismatch = errors.New("template mismatch")

	// ErrDepthLimit indicates that value nesting exceeded the configured
	// depth budget during an encode or decode pass.
	ErrDepthLimit = errors.New("depth limit exceeded")

	// ErrNoFunctionCodec indicates a function value was encountered but no
	// function codec is configured for the pass.
	ErrNoFunctionCodec = errors.New("no function codec")

	// ErrInvalidMagic indicates framed data that does not start with the
	// vpack frame magic.
	ErrInvalidMagic = errors.New("invalid frame magic")

	// ErrChecksumMismatch indicates a framed payload whose checksum trailer
	// does not match the payload bytes.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
