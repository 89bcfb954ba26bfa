// Package vpack provides a compact binary serialization engine for
// dynamically-typed, graph-shaped values: numbers, text, booleans, an
// explicit absent value, heterogeneous containers, and user-extensible
// custom types.
//
// Unlike flat serializers, vpack preserves the shape of the value graph.
// Shared sub-structures stay shared, cycles stay cyclic, and registered
// singleton resources keep their live identity across a round trip:
//
//	tab := value.NewContainer()
//	tab.Set(value.Text("cycle"), tab) // self-reference
//
//	data, _ := vpack.Encode(tab, tab)
//	out, _ := vpack.Decode(data)
//	// out[0] == out[1], and out[0].Get(value.Text("cycle")) == out[0]
//
// # Custom types
//
// Containers may carry a type tag naming a descriptor in the registry.
// Three strategies are available:
//
//   - default: the container is encoded verbatim
//   - hook pair: a serialize hook produces a constructor value encoded in
//     the object's place; a deserialize hook rebuilds the object from it
//   - template: only the values of a fixed field set are encoded,
//     positionally, omitting the keys the decoder already knows
//
//	vpack.RegisterType(&registry.Descriptor{
//	    Name:     "point",
//	    Strategy: registry.StrategyTemplate,
//	    Template: registry.Template{
//	        registry.Field(value.Text("x")),
//	        registry.Field(value.Text("y")),
//	    },
//	})
//
// # Resources
//
// A resource is a named, externally-registered object. Encoding one emits
// only its name; decoding returns whatever object is registered under that
// name at decode time, so mutations between encode and decode are visible
// in the decoded graph.
//
//	vpack.RegisterResource("config", cfg)
//
// # Package structure
//
// This package provides convenient top-level wrappers bound to the
// process-wide default registry. For custom registries, function codecs,
// byte order or depth budgets, use the codec package directly with its
// functional options.
package vpack

import (
	"github.com/arloliu/vpack/codec"
	"github.com/arloliu/vpack/registry"
	"github.com/arloliu/vpack/value"
)

// Encode serializes the given values, in order, into one self-describing
// byte stream. The value count is explicit in the stream, so absent values
// are preserved positionally rather than collapsing the list.
//
// Identity-bearing values (containers, functions) that appear more than
// once, directly or through cycles, are encoded once and back-referenced
// afterwards.
func Encode(vals ...value.Value) ([]byte, error) {
	enc, err := codec.NewEncoder()
	if err != nil {
		return nil, err
	}

	return enc.Encode(vals...)
}

// Decode reconstructs the value list encoded in data, restoring shared and
// cyclic structure with identity. It consults the process-wide default
// registry for type descriptors and resources.
func Decode(data []byte) ([]value.Value, error) {
	dec, err := codec.NewDecoder()
	if err != nil {
		return nil, err
	}

	return dec.Decode(data)
}

// EncodeFramed is Encode wrapped in the framed format: a magic prefix, the
// payload length, and an xxHash64 integrity trailer. Use it when the stream
// crosses storage or transport that can corrupt bytes.
func EncodeFramed(vals ...value.Value) ([]byte, error) {
	payload, err := Encode(vals...)
	if err != nil {
		return nil, err
	}

	return codec.Frame(payload), nil
}

// DecodeFramed validates a framed stream's magic and checksum, then decodes
// the enclosed payload.
func DecodeFramed(data []byte) ([]value.Value, error) {
	payload, err := codec.Unframe(data)
	if err != nil {
		return nil, err
	}

	return Decode(payload)
}

// RegisterType registers a type descriptor in the default registry.
// See registry.Registry.RegisterType.
func RegisterType(desc *registry.Descriptor) error {
	return registry.Default.RegisterType(desc)
}

// UnregisterType removes a type from the default registry.
func UnregisterType(name string) {
	registry.Default.UnregisterType(name)
}

// RegisterResource registers a named singleton object in the default
// registry. See registry.Registry.RegisterResource.
func RegisterResource(name string, obj value.Value) error {
	return registry.Default.RegisterResource(name, obj)
}

// UnregisterResource removes a resource from the default registry.
func UnregisterResource(name string) {
	registry.Default.UnregisterResource(name)
}
