package construct

import "fmt"

// Observer receives synchronous property notifications. Delivery is
// unconditional fan-out to every registered observer, in registration
// order, within the call stack of the mutation that triggered it.
type Observer func(value any)

// Observable is anything observers can subscribe to. Subscription replays
// the current state immediately when one exists.
type Observable interface {
	Observe(fn Observer)
}

// Property is a typed, observable value holder attached to a resource.
// The variant set is closed: Scalar, Collection, and Relationship.
// Consumption sites switch exhaustively over these three; a derived value
// is a Scalar maintained by Derive.
type Property interface {
	Observable

	// Variant names the property variant for diagnostics.
	Variant() string
}

// Scalar holds at most one value. Set always overwrites; callers that
// need set-once semantics enforce them above this type (see the scalar
// tweak). The zero value is unset, distinguishable from any stored value
// including nil.
type Scalar struct {
	value     any
	present   bool
	observers []Observer
}

// NewScalar creates an unset scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// Variant implements Property.
func (s *Scalar) Variant() string { return "scalar" }

// Set stores a value, overwriting any previous one, and notifies every
// observer synchronously.
func (s *Scalar) Set(value any) {
	s.value = value
	s.present = true
	for _, fn := range s.observers {
		fn(value)
	}
}

// Get returns the current value. The second return is false while the
// scalar has never been set.
func (s *Scalar) Get() (any, bool) {
	return s.value, s.present
}

// Observe registers an observer. If the scalar already holds a value the
// observer fires immediately with it.
func (s *Scalar) Observe(fn Observer) {
	s.observers = append(s.observers, fn)
	if s.present {
		fn(s.value)
	}
}

// Collection is an append-only ordered sequence. There is no removal
// operation.
type Collection struct {
	items     []any
	observers []Observer
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Variant implements Property.
func (c *Collection) Variant() string { return "collection" }

// Add appends a value and notifies every observer with it.
func (c *Collection) Add(value any) {
	c.items = append(c.items, value)
	for _, fn := range c.observers {
		fn(value)
	}
}

// Items returns a copy of the current contents in insertion order.
func (c *Collection) Items() []any {
	out := make([]any, len(c.items))
	copy(out, c.items)
	return out
}

// Observe registers an observer and immediately replays the current
// contents to it, one call per item in insertion order.
func (c *Collection) Observe(fn Observer) {
	c.observers = append(c.observers, fn)
	for _, item := range c.items {
		fn(item)
	}
}

// Derive returns a scalar that tracks source through a pure transform:
// every time source fires, the scalar synchronously stores
// transform(value). If source already has a value at subscription time the
// scalar is computed immediately.
func Derive(source Observable, transform func(any) any) *Scalar {
	out := NewScalar()
	source.Observe(func(value any) {
		out.Set(transform(value))
	})
	return out
}

// Relationship holds at most one reference to another resource. The value
// is set-once: once stored it is immutable and a second Set fails with an
// ALREADY_LINKED error.
type Relationship struct {
	target    *Resource
	observers []Observer
}

// NewRelationship creates an unset relationship.
func NewRelationship() *Relationship {
	return &Relationship{}
}

// Variant implements Property.
func (r *Relationship) Variant() string { return "link" }

// Set stores the target and notifies every observer synchronously. A
// second call fails with an ALREADY_LINKED error and leaves the stored
// target unchanged.
func (r *Relationship) Set(target *Resource) error {
	if r.target != nil {
		return NewError(CodeAlreadyLinked,
			fmt.Sprintf("relationship already linked to %q", r.target.LogicalID()))
	}
	r.target = target
	for _, fn := range r.observers {
		fn(target)
	}
	return nil
}

// Get returns the linked resource. The second return is false while the
// relationship is unset.
func (r *Relationship) Get() (*Resource, bool) {
	return r.target, r.target != nil
}

// Observe registers an observer. If the relationship is already linked
// the observer fires immediately with the target.
func (r *Relationship) Observe(fn Observer) {
	r.observers = append(r.observers, fn)
	if r.target != nil {
		fn(r.target)
	}
}
