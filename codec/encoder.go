// Package codec implements the vpack encode and decode passes: reference
// slot tracking for shared and cyclic structures, registry dispatch for
// typed objects and resources, template field encoding, and the framed
// integrity wrapper.
//
// Both passes are single synchronous traversals. Every distinct
// identity-bearing value (container or function) is assigned a slot index in
// first-sight order during encoding; the decoder allocates objects in
// exactly the same order, so a back-reference on the wire resolves to the
// object at the same index on both sides. Assigning the slot before
// recursing into content is what makes cyclic structures encodable: the
// inner occurrence of a self-containing container is already in the slot map
// and becomes a back-reference.
package codec

import (
	"fmt"

	"github.com/arloliu/vpack/errs"
	"github.com/arloliu/vpack/registry"
	"github.com/arloliu/vpack/value"
	"github.com/arloliu/vpack/wire"
)

// Encoder encodes lists of values into the vpack wire format.
//
// An Encoder is reusable: every Encode call is an independent pass with its
// own slot table. It is NOT safe for concurrent use.
type Encoder struct {
	cfg *config
}

// NewEncoder creates an Encoder.
//
// Available options:
//   - WithRegistry(r) to use a registry other than the process default
//   - WithFunctionCodec(fc) to enable function blob encoding
//   - WithLittleEndian() / WithBigEndian() for number payload byte order
//   - WithMaxDepth(n) to change the nesting budget
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg}, nil
}

// Encode produces one byte stream representing exactly the given values in
// order. The count is explicit in the stream, so absent values are
// first-class and distinct from list-end: Encode(Nothing, Nothing) and
// Encode(Nothing) produce different streams.
//
// Decoding the stream yields the same values with equivalent structure and,
// for shared or cyclic sub-objects, equivalent identity: if two inputs are
// the same container, the two decoded outputs are the same container.
func (e *Encoder) Encode(vals ...value.Value) ([]byte, error) {
	p := &encodePass{
		cfg:     e.cfg,
		w:       wire.NewWriter(e.cfg.engine),
		slots:   make(map[value.Value]int),
		hooking: make(map[value.Value]bool),
	}
	defer p.w.Release()

	p.w.WriteUvarint(uint64(len(vals)))
	for i, v := range vals {
		if err := p.encodeValue(v, 0); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
	}

	// The writer's buffer goes back to the pool; copy the stream out.
	out := make([]byte, p.w.Len())
	copy(out, p.w.Bytes())

	return out, nil
}

// encodePass is the state of a single encode traversal, discarded when the
// pass returns.
type encodePass struct {
	cfg   *config
	w     *wire.Writer
	slots map[value.Value]int
	next  int

	// Objects whose serialize-hook constructor is currently being encoded.
	// A back-reference to one of these would decode against the decoder's
	// placeholder, not the reconstructed object.
	hooking map[value.Value]bool
}

func (p *encodePass) assignSlot(v value.Value) {
	p.slots[v] = p.next
	p.next++
}

func (p *encodePass) encodeValue(v value.Value, depth int) error {
	v = value.Normalize(v)

	switch v.Kind() {
	case value.KindAbsent:
		p.w.WriteTag(wire.TagAbsent)

		return nil
	case value.KindBool:
		if v.(value.Bool) {
			p.w.WriteTag(wire.TagTrue)
		} else {
			p.w.WriteTag(wire.TagFalse)
		}

		return nil
	case value.KindNumber:
		p.w.WriteTag(wire.TagNumber)
		p.w.WriteFloat64(float64(v.(value.Number)))

		return nil
	case value.KindText:
		p.w.WriteTag(wire.TagText)
		p.w.WriteText(string(v.(value.Text)))

		return nil
	}

	// Identity-bearing kinds from here on.
	if idx, ok := p.slots[v]; ok {
		if p.hooking[v] {
			return fmt.Errorf("%w: constructor contains the object it reconstructs",
				errs.ErrConstructorCycle)
		}
		p.w.WriteTag(wire.TagRef)
		p.w.WriteUvarint(uint64(idx))

		return nil
	}

	if depth >= p.cfg.maxDepth {
		return fmt.Errorf("%w: nesting exceeds %d", errs.ErrDepthLimit, p.cfg.maxDepth)
	}

	// Slot before content: re-sights inside the content become back-references.
	p.assignSlot(v)

	// Resources trump every other dispatch, including type tags.
	if name, ok := p.cfg.registry.ResourceName(v); ok {
		p.w.WriteTag(wire.TagResource)
		p.w.WriteText(name)

		return nil
	}

	switch obj := v.(type) {
	case *value.Function:
		payload, err := p.cfg.fnCodec.Encode(obj)
		if err != nil {
			return fmt.Errorf("encode function: %w", err)
		}
		p.w.WriteTag(wire.TagFunction)
		p.w.WriteBytes(payload)

		return nil
	case *value.Container:
		return p.encodeContainer(obj, depth)
	default:
		return fmt.Errorf("unsupported value kind %s", v.Kind())
	}
}

func (p *encodePass) encodeContainer(obj *value.Container, depth int) error {
	tag := obj.Tag()
	if tag == "" {
		p.w.WriteTag(wire.TagContainer)

		return p.encodeContainerBody(obj, depth+1)
	}

	desc, ok := p.cfg.registry.LookupType(tag)
	if !ok {
		return fmt.Errorf("%w: container is tagged %q but no such type is registered", errs.ErrUnknownType, tag)
	}

	switch desc.Strategy {
	case registry.StrategyHooks:
		return p.encodeHooked(obj, desc, depth)
	case registry.StrategyTemplate:
		p.w.WriteTag(wire.TagTemplated)
		p.w.WriteText(tag)

		return p.encodeTemplate(obj, desc.Template, depth+1)
	default:
		p.w.WriteTag(wire.TagContainer)

		return p.encodeContainerBody(obj, depth+1)
	}
}

func (p *encodePass) encodeContainerBody(obj *value.Container, depth int) error {
	p.w.WriteUvarint(uint64(obj.ArrayLen()))
	for i, elem := range obj.Array() {
		if err := p.encodeValue(elem, depth); err != nil {
			return fmt.Errorf("array element %d: %w", i, err)
		}
	}

	p.w.WriteUvarint(uint64(obj.KeyedLen()))
	for k, v := range obj.Keyed() {
		if err := p.encodeValue(k, depth); err != nil {
			return fmt.Errorf("keyed entry key: %w", err)
		}
		if err := p.encodeValue(v, depth); err != nil {
			return fmt.Errorf("keyed entry value: %w", err)
		}
	}

	return nil
}

func (p *encodePass) encodeHooked(obj *value.Container, desc *registry.Descriptor, depth int) error {
	ctor, err := desc.Serialize(obj)
	if err != nil {
		return fmt.Errorf("serialize hook for type %q: %w", desc.Name, err)
	}
	ctor = value.Normalize(ctor)

	// A hook returning the object itself has no well-founded base case:
	// encoding the constructor would re-dispatch the same hook forever, and
	// a bare back-reference to the slot would decode as an object defined in
	// terms of nothing. Fail distinguishably instead.
	if ctor == value.Value(obj) {
		return fmt.Errorf("%w: serialize hook for type %q returned its own object", errs.ErrConstructorCycle, desc.Name)
	}

	p.w.WriteTag(wire.TagHooked)
	p.w.WriteText(desc.Name)

	// While the constructor is on the wire, the decoder only has a
	// placeholder in this slot. Refuse back-references to the object here
	// instead of letting them decode into a stale empty container.
	p.hooking[obj] = true
	err = p.encodeValue(ctor, depth+1)
	delete(p.hooking, obj)
	if err != nil {
		return fmt.Errorf("constructor for type %q: %w", desc.Name, err)
	}

	return nil
}

func (p *encodePass) encodeTemplate(obj *value.Container, tmpl registry.Template, depth int) error {
	if depth >= p.cfg.maxDepth {
		return fmt.Errorf("%w: nesting exceeds %d", errs.ErrDepthLimit, p.cfg.maxDepth)
	}

	for i, f := range tmpl {
		fv := obj.Get(f.Key)

		if f.Sub == nil {
			if err := p.encodeValue(fv, depth); err != nil {
				return fmt.Errorf("template field %d: %w", i, err)
			}

			continue
		}

		sub, ok := fv.(*value.Container)
		if !ok {
			return fmt.Errorf("%w: template field %d expects a container, got %s",
				errs.ErrTemplateMismatch, i, value.Normalize(fv).Kind())
		}

		// Sub-template entries carry no tag byte, so a back-reference cannot
		// be emitted here; the decoder allocates a fresh container for this
		// position unconditionally. Advance the slot counter to mirror that
		// allocation, but keep an already-seen identity mapped to its first
		// full encoding so later re-sights reference the original rather
		// than the fields-only template copy.
		if _, seen := p.slots[sub]; !seen {
			p.slots[sub] = p.next
		}
		p.next++
		if err := p.encodeTemplate(sub, f.Sub, depth+1); err != nil {
			return fmt.Errorf("template field %d: %w", i, err)
		}
	}

	return nil
}
