// Package registry maps type names to encoding behaviors and resource names
// to live object identities.
//
// A Registry is consulted read-only during an encode or decode pass and
// mutated only by explicit register/unregister calls. It performs no
// internal locking: if passes run concurrently with registration, the host
// application must synchronize access (a read-write lock held for the
// duration of a pass, exclusive during mutation, is the expected shape).
// Mutating a name that an in-flight pass is actively using is undefined
// behavior.
package registry

import (
	"fmt"

	"github.com/arloliu/vpack/errs"
	"github.com/arloliu/vpack/value"
)

// Strategy selects how instances of a registered type are encoded.
type Strategy uint8

const (
	// StrategyDefault encodes the container verbatim, exactly like an
	// untagged container. The type tag is not carried on the wire.
	StrategyDefault Strategy = iota

	// StrategyHooks encodes via a serialize/deserialize hook pair: the
	// serialize hook produces a constructor value that is encoded in the
	// object's place, and the deserialize hook rebuilds the object from the
	// decoded constructor.
	StrategyHooks

	// StrategyTemplate encodes only the values of a fixed, known field set,
	// positionally, in template order.
	StrategyTemplate
)

// SerializeFunc produces a substitute constructor value for obj. The
// returned value must not be obj itself; the encoder rejects that as a
// constructor cycle.
type SerializeFunc func(obj *value.Container) (value.Value, error)

// DeserializeFunc reconstructs an object from its decoded constructor value.
type DeserializeFunc func(ctor value.Value) (*value.Container, error)

// Descriptor associates a type name with its encoding behavior.
type Descriptor struct {
	// Name is the unique registry key, carried on the wire for hook-pair and
	// template encodings.
	Name string

	// Strategy selects the encoding behavior. The zero value is
	// StrategyDefault.
	Strategy Strategy

	// Serialize and Deserialize are required for StrategyHooks.
	Serialize   SerializeFunc
	Deserialize DeserializeFunc

	// Template is required for StrategyTemplate.
	Template Template
}

func (d *Descriptor) validate() error {
	if d == nil {
		return fmt.Errorf("nil descriptor")
	}
	if d.Name == "" {
		return fmt.Errorf("descriptor has empty name")
	}

	switch d.Strategy {
	case StrategyDefault:
		return nil
	case StrategyHooks:
		if d.Serialize == nil || d.Deserialize == nil {
			return fmt.Errorf("type %q: hook strategy requires both serialize and deserialize hooks", d.Name)
		}

		return nil
	case StrategyTemplate:
		if err := d.Template.validate(); err != nil {
			return fmt.Errorf("type %q: %w", d.Name, err)
		}

		return nil
	default:
		return fmt.Errorf("type %q: unknown strategy %d", d.Name, d.Strategy)
	}
}

// Registry holds the type descriptor table and the resource table.
//
// The zero value is not usable; create instances with New. Most applications
// use the package-level Default registry through the vpack facade.
type Registry struct {
	types         map[string]*Descriptor
	resources     map[string]value.Value
	resourceNames map[value.Value]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		types:         make(map[string]*Descriptor),
		resources:     make(map[string]value.Value),
		resourceNames: make(map[value.Value]string),
	}
}

// Default is the process-wide registry used by the top-level vpack API.
var Default = New()

// RegisterType associates desc.Name with desc. Registering the identical
// descriptor again is a no-op; registering a different descriptor under an
// existing name fails with errs.ErrNameCollision.
func (r *Registry) RegisterType(desc *Descriptor) error {
	if err := desc.validate(); err != nil {
		return err
	}

	if existing, ok := r.types[desc.Name]; ok {
		if existing == desc {
			return nil
		}

		return fmt.Errorf("%w: type %q is already registered with a different descriptor",
			errs.ErrNameCollision, desc.Name)
	}

	r.types[desc.Name] = desc

	return nil
}

// UnregisterType removes the descriptor registered under name. Removing an
// unregistered name is a no-op.
func (r *Registry) UnregisterType(name string) {
	delete(r.types, name)
}

// LookupType returns the descriptor registered under name.
func (r *Registry) LookupType(name string) (*Descriptor, bool) {
	d, ok := r.types[name]

	return d, ok
}

// RegisterResource associates name with the live object obj, so encoding obj
// emits only the name and decoding the name returns whatever object is
// registered at decode time. The object must be identity-bearing (a
// container or function). Registering the same name/object pair again is a
// no-op; binding an existing name to a different object fails with
// errs.ErrNameCollision.
//
// Registering the same object under a second name is allowed; the most
// recent registration is the one the encoder emits.
func (r *Registry) RegisterResource(name string, obj value.Value) error {
	if name == "" {
		return fmt.Errorf("resource name must not be empty")
	}
	if !value.HasIdentity(obj) {
		return fmt.Errorf("resource %q: object must be a container or function, got %s",
			name, value.Normalize(obj).Kind())
	}

	if existing, ok := r.resources[name]; ok {
		if existing == obj {
			return nil
		}

		return fmt.Errorf("%w: resource %q is already registered with a different object",
			errs.ErrNameCollision, name)
	}

	r.resources[name] = obj
	r.resourceNames[obj] = name

	return nil
}

// UnregisterResource removes the object registered under name. Removing an
// unregistered name is a no-op.
func (r *Registry) UnregisterResource(name string) {
	obj, ok := r.resources[name]
	if !ok {
		return
	}

	delete(r.resources, name)
	if r.resourceNames[obj] == name {
		delete(r.resourceNames, obj)
	}
}

// LookupResource returns the live object registered under name.
func (r *Registry) LookupResource(name string) (value.Value, bool) {
	obj, ok := r.resources[name]

	return obj, ok
}

// ResourceName returns the name obj is registered under, if any. The encoder
// uses this to detect resources before any other dispatch.
func (r *Registry) ResourceName(obj value.Value) (string, bool) {
	name, ok := r.resourceNames[obj]

	return name, ok
}
