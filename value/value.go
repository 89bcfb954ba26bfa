// Package value defines the dynamically-typed value model the vpack engine
// encodes and decodes.
//
// A Value is one of: absent (Nothing), boolean (Bool), number (Number), text
// (Text), container (*Container) or function blob (*Function). Containers
// and functions carry identity (pointer identity); the engine preserves that
// identity across an encode/decode round trip, so shared sub-structures and
// cycles survive intact.
//
// Text is an arbitrary byte sequence. Embedded zero bytes and non-UTF-8
// content are legal and preserved exactly.
package value

import (
	"bytes"
	"fmt"
	"math"
)

// Kind identifies the variant a Value holds.
type Kind uint8

const (
	// KindAbsent is the explicit "no value" kind.
	KindAbsent Kind = iota
	// KindBool is a boolean.
	KindBool
	// KindNumber is an IEEE 754 double-precision number.
	KindNumber
	// KindText is an arbitrary byte sequence.
	KindText
	// KindContainer is an ordered-array-plus-keyed container.
	KindContainer
	// KindFunction is an opaque function blob.
	KindFunction
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindContainer:
		return "container"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is the tagged union over all kinds the engine understands.
//
// All implementations are comparable with ==; for *Container and *Function
// comparison is pointer identity, which is what the engine's reference
// tracking relies on.
type Value interface {
	Kind() Kind
}

type nothing struct{}

func (nothing) Kind() Kind { return KindAbsent }

// Nothing is the canonical absent value. A nil Value is treated as Nothing
// everywhere in the engine.
var Nothing Value = nothing{}

// Bool is a boolean value.
type Bool bool

// Kind implements Value.
func (Bool) Kind() Kind { return KindBool }

// Number is an IEEE 754 double-precision number. All finite values, signed
// infinities and subnormal magnitudes round-trip losslessly.
type Number float64

// Kind implements Value.
func (Number) Kind() Kind { return KindNumber }

// Text is an arbitrary byte sequence.
type Text string

// Kind implements Value.
func (Text) Kind() Kind { return KindText }

// Function is an opaque function blob. The engine never inspects Impl; a
// configured function codec turns it into a byte payload and back.
type Function struct {
	// Impl is the host representation of the function, opaque to the engine.
	Impl any
}

// Kind implements Value.
func (*Function) Kind() Kind { return KindFunction }

// Normalize maps a nil Value to Nothing and returns any other value as-is.
func Normalize(v Value) Value {
	if v == nil {
		return Nothing
	}

	return v
}

// IsAbsent reports whether v is nil or the absent value.
func IsAbsent(v Value) bool {
	return v == nil || v.Kind() == KindAbsent
}

// HasIdentity reports whether v is an identity-bearing kind (container or
// function). Identity-bearing values participate in the engine's reference
// slot tracking; all other kinds are encoded by value.
func HasIdentity(v Value) bool {
	if v == nil {
		return false
	}

	switch v.Kind() {
	case KindContainer, KindFunction:
		return true
	default:
		return false
	}
}

// CheckKey reports whether k is legal as a container key. Absent values and
// NaN numbers are not legal keys; everything else is.
func CheckKey(k Value) error {
	if IsAbsent(k) {
		return fmt.Errorf("absent value is not a legal key")
	}

	if n, ok := k.(Number); ok && math.IsNaN(float64(n)) {
		return fmt.Errorf("NaN is not a legal key")
	}

	return nil
}

// Equal reports deep structural equality of a and b.
//
// Containers are compared by tag, array part and keyed part; cyclic and
// shared structures are handled by assuming equality of a container pair
// while its contents are being compared, so comparison always terminates.
// Container-valued keys are matched structurally. Functions compare equal if
// they are the same object, or if both Impl payloads are byte slices with
// equal content.
func Equal(a, b Value) bool {
	return equal(Normalize(a), Normalize(b), make(map[[2]*Container]bool))
}

func equal(a, b Value, visited map[[2]*Container]bool) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case nothing:
		return true
	case Bool:
		return av == b.(Bool)
	case Number:
		bv := b.(Number)
		// NaN compares equal to NaN here so round-trip checks work.
		if math.IsNaN(float64(av)) && math.IsNaN(float64(bv)) {
			return true
		}

		return av == bv
	case Text:
		return av == b.(Text)
	case *Function:
		bv := b.(*Function)
		if av == bv {
			return true
		}
		ab, aok := av.Impl.([]byte)
		bb, bok := bv.Impl.([]byte)

		return aok && bok && bytes.Equal(ab, bb)
	case *Container:
		return equalContainers(av, b.(*Container), visited)
	default:
		return false
	}
}

func equalContainers(a, b *Container, visited map[[2]*Container]bool) bool {
	if a == b {
		return true
	}

	pair := [2]*Container{a, b}
	if visited[pair] {
		// Already comparing this pair further up the stack; assume equal to
		// terminate on cycles.
		return true
	}
	visited[pair] = true

	if a.Tag() != b.Tag() || a.ArrayLen() != b.ArrayLen() || a.KeyedLen() != b.KeyedLen() {
		return false
	}

	for i, av := range a.Array() {
		if !equal(av, b.At(i), visited) {
			return false
		}
	}

	matched := make(map[Value]bool)
	for ka, va := range a.Keyed() {
		if !HasIdentity(ka) {
			if !equal(va, b.Get(ka), visited) {
				return false
			}

			continue
		}

		// Identity-bearing key: find a structurally equal, not yet matched
		// key on the other side.
		found := false
		for kb, vb := range b.Keyed() {
			if matched[kb] || !HasIdentity(kb) {
				continue
			}
			if equal(ka, kb, visited) && equal(va, vb, visited) {
				matched[kb] = true
				found = true

				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
