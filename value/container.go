package value

import (
	"iter"

	"github.com/elliotchance/orderedmap/v2"
)

// Container is the engine's associative value: an ordered array part (which
// may contain absent holes at interior positions) plus a keyed part mapping
// arbitrary non-absent Values to Values. A container may carry a type tag
// naming a registered type, which changes how it is encoded but not its
// logical content.
//
// The keyed part preserves insertion order, so encoding the same container
// twice produces identical bytes.
//
// Containers are not safe for concurrent mutation.
type Container struct {
	tag   string
	arr   []Value
	keyed *orderedmap.OrderedMap[Value, Value]
}

// NewContainer creates an empty, untagged container.
func NewContainer() *Container {
	return &Container{}
}

// NewTagged creates an empty container carrying the given type tag.
func NewTagged(tag string) *Container {
	return &Container{tag: tag}
}

// Tag returns the container's type tag, or "" if it is untagged.
func (c *Container) Tag() string {
	return c.tag
}

// SetTag sets the container's type tag. An empty string removes it.
func (c *Container) SetTag(tag string) {
	c.tag = tag
}

// ArrayLen returns the length of the array part, including absent holes.
func (c *Container) ArrayLen() int {
	return len(c.arr)
}

// Append appends values to the array part. Nil values are stored as Nothing,
// so absent holes keep their positions.
func (c *Container) Append(vals ...Value) {
	for _, v := range vals {
		c.arr = append(c.arr, Normalize(v))
	}
}

// At returns the array element at index i, or Nothing if i is out of range.
func (c *Container) At(i int) Value {
	if i < 0 || i >= len(c.arr) {
		return Nothing
	}

	return c.arr[i]
}

// SetAt stores v at array index i, extending the array part with absent
// holes as needed. Panics if i is negative.
func (c *Container) SetAt(i int, v Value) {
	if i < 0 {
		panic("vpack/value: negative array index")
	}

	for len(c.arr) <= i {
		c.arr = append(c.arr, Nothing)
	}
	c.arr[i] = Normalize(v)
}

// KeyedLen returns the number of entries in the keyed part.
func (c *Container) KeyedLen() int {
	if c.keyed == nil {
		return 0
	}

	return c.keyed.Len()
}

// Set stores v under key in the keyed part. Storing an absent value removes
// the key. Panics if key is not a legal key (absent or NaN); use CheckKey to
// validate untrusted keys first.
func (c *Container) Set(key, v Value) {
	if err := CheckKey(key); err != nil {
		panic("vpack/value: " + err.Error())
	}

	v = Normalize(v)
	if v.Kind() == KindAbsent {
		if c.keyed != nil {
			c.keyed.Delete(key)
		}

		return
	}

	if c.keyed == nil {
		c.keyed = orderedmap.NewOrderedMap[Value, Value]()
	}
	c.keyed.Set(key, v)
}

// Get returns the value stored under key, or Nothing if the key is absent
// from the keyed part.
func (c *Container) Get(key Value) Value {
	if c.keyed == nil {
		return Nothing
	}

	v, ok := c.keyed.Get(key)
	if !ok {
		return Nothing
	}

	return v
}

// Has reports whether key is present in the keyed part.
func (c *Container) Has(key Value) bool {
	if c.keyed == nil {
		return false
	}

	_, ok := c.keyed.Get(key)

	return ok
}

// Array returns an iterator over the array part in positional order,
// including absent holes.
func (c *Container) Array() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range c.arr {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Keyed returns an iterator over the keyed part in insertion order.
func (c *Container) Keyed() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		if c.keyed == nil {
			return
		}
		for el := c.keyed.Front(); el != nil; el = el.Next() {
			if !yield(el.Key, el.Value) {
				return
			}
		}
	}
}

// Kind implements Value.
func (*Container) Kind() Kind { return KindContainer }
