package codec

import (
	"fmt"

	"github.com/ccoveille/go-safecast"

	"github.com/arloliu/vpack/errs"
	"github.com/arloliu/vpack/registry"
	"github.com/arloliu/vpack/value"
	"github.com/arloliu/vpack/wire"
)

// Decoder decodes vpack streams back into value lists.
//
// A Decoder is reusable: every Decode call is an independent pass with its
// own slot list. It is NOT safe for concurrent use.
//
// Decoding must use the same registry contents the application expects at
// decode time: resources resolve to the currently registered object, not to
// a copy frozen at encode time.
type Decoder struct {
	cfg *config
}

// NewDecoder creates a Decoder. It accepts the same options as NewEncoder.
func NewDecoder(opts ...Option) (*Decoder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Decoder{cfg: cfg}, nil
}

// Decode reconstructs the value list encoded in data.
//
// Shared and cyclic structure is restored with identity, not just equality:
// the Nth distinct object allocated here corresponds to the Nth distinct
// identity the encoder saw. Any failure is fatal to the pass; no partial
// result is ever returned.
func (d *Decoder) Decode(data []byte) ([]value.Value, error) {
	p := &decodePass{
		cfg: d.cfg,
		r:   wire.NewReader(data, d.cfg.engine),
	}

	n, err := p.r.ReadLen()
	if err != nil {
		return nil, fmt.Errorf("stream head: %w", err)
	}

	out := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := p.decodeValue(0)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out = append(out, v)
	}

	if p.r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d values",
			errs.ErrMalformedStream, p.r.Remaining(), n)
	}

	return out, nil
}

// decodePass is the state of a single decode traversal. The slot list is
// append-only and mirrors the encoder's first-sight numbering.
type decodePass struct {
	cfg   *config
	r     *wire.Reader
	slots []value.Value
}

func (p *decodePass) decodeValue(depth int) (value.Value, error) {
	if depth >= p.cfg.maxDepth {
		return nil, fmt.Errorf("%w: nesting exceeds %d", errs.ErrDepthLimit, p.cfg.maxDepth)
	}

	tag, err := p.r.ReadTag()
	if err != nil {
		return nil, err
	}

	switch tag {
	case wire.TagAbsent:
		return value.Nothing, nil
	case wire.TagTrue:
		return value.Bool(true), nil
	case wire.TagFalse:
		return value.Bool(false), nil
	case wire.TagNumber:
		f, err := p.r.ReadFloat64()
		if err != nil {
			return nil, err
		}

		return value.Number(f), nil
	case wire.TagText:
		s, err := p.r.ReadText()
		if err != nil {
			return nil, err
		}

		return value.Text(s), nil
	case wire.TagRef:
		return p.decodeRef()
	case wire.TagContainer:
		c := value.NewContainer()
		p.slots = append(p.slots, c)
		if err := p.decodeContainerBody(c, depth+1); err != nil {
			return nil, err
		}

		return c, nil
	case wire.TagHooked:
		return p.decodeHooked(depth)
	case wire.TagTemplated:
		return p.decodeTemplated(depth)
	case wire.TagResource:
		return p.decodeResource()
	case wire.TagFunction:
		return p.decodeFunction()
	default:
		return nil, fmt.Errorf("%w: unexpected tag %s", errs.ErrMalformedStream, tag)
	}
}

func (p *decodePass) decodeRef() (value.Value, error) {
	at := p.r.Offset()
	raw, err := p.r.ReadUvarint()
	if err != nil {
		return nil, err
	}

	idx, err := safecast.ToInt(raw)
	if err != nil || idx >= len(p.slots) {
		return nil, fmt.Errorf("%w: back-reference to unassigned slot %d at offset %d",
			errs.ErrMalformedStream, raw, at)
	}

	return p.slots[idx], nil
}

func (p *decodePass) decodeContainerBody(c *value.Container, depth int) error {
	arrLen, err := p.r.ReadLen()
	if err != nil {
		return err
	}
	for i := 0; i < arrLen; i++ {
		elem, err := p.decodeValue(depth)
		if err != nil {
			return fmt.Errorf("array element %d: %w", i, err)
		}
		c.Append(elem)
	}

	keyedLen, err := p.r.ReadLen()
	if err != nil {
		return err
	}
	for i := 0; i < keyedLen; i++ {
		k, err := p.decodeValue(depth)
		if err != nil {
			return fmt.Errorf("keyed entry %d key: %w", i, err)
		}
		if err := value.CheckKey(k); err != nil {
			return fmt.Errorf("%w: keyed entry %d: %v", errs.ErrMalformedStream, i, err)
		}

		v, err := p.decodeValue(depth)
		if err != nil {
			return fmt.Errorf("keyed entry %d value: %w", i, err)
		}
		// The encoder never emits an absent keyed value (setting one deletes
		// the entry), so its presence means the stream is corrupt.
		if value.IsAbsent(v) {
			return fmt.Errorf("%w: keyed entry %d carries an absent value", errs.ErrMalformedStream, i)
		}
		c.Set(k, v)
	}

	return nil
}

func (p *decodePass) decodeHooked(depth int) (value.Value, error) {
	name, err := p.r.ReadText()
	if err != nil {
		return nil, err
	}

	desc, ok := p.cfg.registry.LookupType(name)
	if !ok {
		return nil, fmt.Errorf("%w: stream names type %q", errs.ErrUnknownType, name)
	}
	if desc.Strategy != registry.StrategyHooks {
		return nil, fmt.Errorf("%w: type %q is registered without hooks", errs.ErrUnknownType, name)
	}

	// Placeholder keeps the slot numbering parallel while the constructor is
	// decoded; the reconstructed object replaces it for everything decoded
	// afterwards. The encoder refuses constructors that reference their own
	// object, so no well-formed stream resolves a back-reference to the
	// placeholder.
	placeholder := value.NewTagged(name)
	idx := len(p.slots)
	p.slots = append(p.slots, placeholder)

	ctor, err := p.decodeValue(depth + 1)
	if err != nil {
		return nil, fmt.Errorf("constructor for type %q: %w", name, err)
	}

	obj, err := desc.Deserialize(ctor)
	if err != nil {
		return nil, fmt.Errorf("deserialize hook for type %q: %w", name, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("deserialize hook for type %q returned no object", name)
	}
	if obj.Tag() == "" {
		obj.SetTag(name)
	}

	p.slots[idx] = obj

	return obj, nil
}

func (p *decodePass) decodeTemplated(depth int) (value.Value, error) {
	name, err := p.r.ReadText()
	if err != nil {
		return nil, err
	}

	desc, ok := p.cfg.registry.LookupType(name)
	if !ok {
		return nil, fmt.Errorf("%w: stream names type %q", errs.ErrUnknownType, name)
	}
	if desc.Strategy != registry.StrategyTemplate {
		return nil, fmt.Errorf("%w: type %q is registered without a template", errs.ErrUnknownType, name)
	}

	c := value.NewTagged(name)
	p.slots = append(p.slots, c)
	if err := p.decodeTemplate(c, desc.Template, depth+1); err != nil {
		return nil, fmt.Errorf("template for type %q: %w", name, err)
	}

	return c, nil
}

func (p *decodePass) decodeTemplate(c *value.Container, tmpl registry.Template, depth int) error {
	if depth >= p.cfg.maxDepth {
		return fmt.Errorf("%w: nesting exceeds %d", errs.ErrDepthLimit, p.cfg.maxDepth)
	}

	for i, f := range tmpl {
		if f.Sub == nil {
			v, err := p.decodeValue(depth)
			if err != nil {
				return fmt.Errorf("field %d: %w", i, err)
			}
			// Absent field values leave the key absent, mirroring the
			// encoder's treatment of missing fields.
			c.Set(f.Key, v)

			continue
		}

		sub := value.NewContainer()
		p.slots = append(p.slots, sub)
		if err := p.decodeTemplate(sub, f.Sub, depth+1); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		c.Set(f.Key, sub)
	}

	return nil
}

func (p *decodePass) decodeResource() (value.Value, error) {
	name, err := p.r.ReadText()
	if err != nil {
		return nil, err
	}

	obj, ok := p.cfg.registry.LookupResource(name)
	if !ok {
		return nil, fmt.Errorf("%w: stream names resource %q", errs.ErrUnknownResource, name)
	}

	// The live object occupies the slot; no placeholder is needed because a
	// resource has no encoded content to recurse into.
	p.slots = append(p.slots, obj)

	return obj, nil
}

func (p *decodePass) decodeFunction() (value.Value, error) {
	payload, err := p.r.ReadBytes()
	if err != nil {
		return nil, err
	}

	fn, err := p.cfg.fnCodec.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode function: %w", err)
	}
	if fn == nil {
		return nil, fmt.Errorf("function codec returned no object")
	}

	p.slots = append(p.slots, fn)

	return fn, nil
}
