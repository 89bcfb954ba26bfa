// Package wire implements the byte-level conventions of the vpack stream:
// one-byte value tags, uvarint lengths and counts, fixed-width IEEE 754
// number payloads, and length-prefixed raw text.
//
// A stream is self-describing: it begins with a uvarint count of top-level
// values, and every value begins with a Tag identifying its kind. The wire
// package knows nothing about reference slots or registries; it only moves
// bytes. The codec package layers graph semantics on top.
package wire

import "fmt"

// Tag is the one-byte kind marker that precedes every encoded value.
type Tag byte

const (
	// TagAbsent marks the explicit absent value. No payload.
	TagAbsent Tag = 0x00
	// TagTrue marks boolean true. No payload.
	TagTrue Tag = 0x01
	// TagFalse marks boolean false. No payload.
	TagFalse Tag = 0x02
	// TagNumber marks a number. Payload: 8-byte IEEE 754 double.
	TagNumber Tag = 0x03
	// TagText marks text. Payload: uvarint length + raw bytes.
	TagText Tag = 0x04
	// TagRef marks a back-reference. Payload: uvarint slot index.
	TagRef Tag = 0x05
	// TagContainer marks a default-encoded container. Payload: uvarint array
	// length, elements, uvarint keyed count, key/value pairs.
	TagContainer Tag = 0x06
	// TagHooked marks a typed object encoded via its hook pair. Payload:
	// type name as text, then the constructor value.
	TagHooked Tag = 0x07
	// TagTemplated marks a typed object encoded via its template. Payload:
	// type name as text, then positional field values in template order.
	TagTemplated Tag = 0x08
	// TagResource marks a resource reference. Payload: resource name as text.
	TagResource Tag = 0x09
	// TagFunction marks a function blob. Payload: uvarint length + opaque
	// codec bytes.
	TagFunction Tag = 0x0A
)

// Valid reports whether t is a defined tag.
func (t Tag) Valid() bool {
	return t <= TagFunction
}

// String returns a human-readable name for the tag.
func (t Tag) String() string {
	switch t {
	case TagAbsent:
		return "absent"
	case TagTrue:
		return "true"
	case TagFalse:
		return "false"
	case TagNumber:
		return "number"
	case TagText:
		return "text"
	case TagRef:
		return "back-reference"
	case TagContainer:
		return "container"
	case TagHooked:
		return "typed-object(hooks)"
	case TagTemplated:
		return "typed-object(template)"
	case TagResource:
		return "resource"
	case TagFunction:
		return "function"
	default:
		return fmt.Sprintf("tag(0x%02x)", byte(t))
	}
}
