// Package tweak provides deferred, declaratively-specified mutations that
// apply to resources through the construct link protocol. Each tweak
// carries the capability tag of its intended target type; the link
// traversal attaches it to every matching resource in the subtree.
package tweak

import (
	"fmt"

	"github.com/stackform/stackform/pkg/construct"
)

// Tweak is a deferred mutation keyed by a target capability tag. It
// implements construct.Linkable.
type Tweak struct {
	target string
	apply  func(r *construct.Resource) error
}

// LinkTargets implements construct.Linkable.
func (t *Tweak) LinkTargets() []string {
	return []string{t.target}
}

// LinkTo implements construct.Linkable. The matched node must carry a
// resource; a plain construct advertising the target tag fails with a
// TYPE_MISMATCH error.
func (t *Tweak) LinkTo(target *construct.Construct) error {
	r := target.Resource()
	if r == nil {
		return construct.NewError(construct.CodeTypeMismatch,
			fmt.Sprintf("tweak target %q matched a construct that is not a resource", t.target)).
			WithPath(target.PathString()).
			WithVariants("resource", "construct")
	}
	return t.apply(r)
}

// Set returns a tweak that stores value into the named scalar property of
// every resource matching the target tag. Scalar tweaks are set-once by
// convention: a scalar that already holds a value fails with an
// ALREADY_SET error even though the underlying scalar permits overwrite.
func Set(target, property string, value any) *Tweak {
	return &Tweak{
		target: target,
		apply: func(r *construct.Resource) error {
			s, err := r.Scalar(property)
			if err != nil {
				return err
			}
			if _, present := s.Get(); present {
				return construct.NewError(construct.CodeAlreadySet,
					fmt.Sprintf("scalar %q already holds a value", property)).
					WithPath(r.Node().PathString()).
					WithProperty(property)
			}
			s.Set(value)
			return nil
		},
	}
}

// Append returns a tweak that appends value to the named collection
// property of every resource matching the target tag. Repeated
// application is allowed and additive.
func Append(target, collection string, value any) *Tweak {
	return &Tweak{
		target: target,
		apply: func(r *construct.Resource) error {
			c, err := r.Collection(collection)
			if err != nil {
				return err
			}
			c.Add(value)
			return nil
		},
	}
}

// Linker returns a tweak that invokes register with every matching
// resource at link time. The callback typically calls MakeLinkableTo on
// the resource, letting it become linkable to a capability it did not
// originally declare.
func Linker(target string, register func(r *construct.Resource) error) *Tweak {
	return &Tweak{
		target: target,
		apply:  register,
	}
}
