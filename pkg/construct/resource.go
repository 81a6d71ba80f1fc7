package construct

import (
	"fmt"
	"strings"
)

// Resource is a construct that owns named properties and renders into the
// output document. Property names are unique per resource. A resource
// advertises its resource type as a capability tag, so tweaks keyed by
// type match it without further registration.
type Resource struct {
	node *Construct

	// resourceType tags the resource in the rendered document, e.g.
	// "S3::Bucket".
	resourceType string

	props     map[string]Property
	propOrder []string
}

// NewResource creates a resource construct under parent. The identity
// rules of New apply. The resource advertises resourceType as its first
// capability tag.
func NewResource(parent *Construct, id, resourceType string) (*Resource, error) {
	node, err := New(parent, id)
	if err != nil {
		return nil, err
	}
	r := &Resource{
		node:         node,
		resourceType: resourceType,
		props:        make(map[string]Property),
	}
	node.resource = r
	node.MakeLinkableAs(resourceType)
	return r, nil
}

// Node returns the underlying tree node.
func (r *Resource) Node() *Construct {
	return r.node
}

// Type returns the resource type tag.
func (r *Resource) Type() string {
	return r.resourceType
}

// LogicalID returns the deterministic identifier derived from the
// resource's position in the tree: the concatenation of its path ids. It
// keys the resource in the rendered document.
func (r *Resource) LogicalID() string {
	return strings.Join(r.node.Path(), "")
}

// AddProperty defines a named property. Defining the same name twice
// fails with a DUPLICATE_ID error.
func (r *Resource) AddProperty(name string, p Property) error {
	if _, exists := r.props[name]; exists {
		return NewError(CodeDuplicateID,
			fmt.Sprintf("resource already defines property %q", name)).
			WithPath(r.node.PathString()).
			WithProperty(name)
	}
	r.props[name] = p
	r.propOrder = append(r.propOrder, name)
	return nil
}

// Property returns the named property, if defined.
func (r *Resource) Property(name string) (Property, bool) {
	p, ok := r.props[name]
	return p, ok
}

// PropertyNames returns the declared property names in declaration order.
func (r *Resource) PropertyNames() []string {
	out := make([]string, len(r.propOrder))
	copy(out, r.propOrder)
	return out
}

// Scalar returns the named property asserted to the scalar variant.
// Fails with UNKNOWN_PROPERTY if undefined and TYPE_MISMATCH otherwise.
func (r *Resource) Scalar(name string) (*Scalar, error) {
	p, ok := r.props[name]
	if !ok {
		return nil, r.unknownProperty(name)
	}
	s, ok := p.(*Scalar)
	if !ok {
		return nil, r.typeMismatch(name, "scalar", p)
	}
	return s, nil
}

// Collection returns the named property asserted to the collection
// variant. Fails with UNKNOWN_PROPERTY if undefined and TYPE_MISMATCH
// otherwise.
func (r *Resource) Collection(name string) (*Collection, error) {
	p, ok := r.props[name]
	if !ok {
		return nil, r.unknownProperty(name)
	}
	c, ok := p.(*Collection)
	if !ok {
		return nil, r.typeMismatch(name, "collection", p)
	}
	return c, nil
}

// Relationship returns the named property asserted to the link variant.
// Fails with UNKNOWN_PROPERTY if undefined and TYPE_MISMATCH otherwise.
func (r *Resource) Relationship(name string) (*Relationship, error) {
	p, ok := r.props[name]
	if !ok {
		return nil, r.unknownProperty(name)
	}
	rel, ok := p.(*Relationship)
	if !ok {
		return nil, r.typeMismatch(name, "link", p)
	}
	return rel, nil
}

// AddLinkRelationship defines a named link relationship and registers a
// link handler for the given target tags: when this resource is linked
// against a node advertising any of them, the relationship is set to that
// node's resource. An optional initial target may be supplied, in which
// case the relationship is set immediately.
//
// The relationship is set-once; matching a second node after a first
// target is stored fails with an ALREADY_LINKED error.
func (r *Resource) AddLinkRelationship(name string, targets []string, initial *Resource) (*Relationship, error) {
	rel := NewRelationship()
	if err := r.AddProperty(name, rel); err != nil {
		return nil, err
	}
	r.node.MakeLinkableTo(targets, func(target *Construct) error {
		res := target.Resource()
		if res == nil {
			return NewError(CodeTypeMismatch,
				fmt.Sprintf("link target for %q is not a resource", name)).
				WithPath(target.PathString()).
				WithProperty(name).
				WithVariants("resource", "construct")
		}
		if err := rel.Set(res); err != nil {
			return withContext(err, r.node.PathString(), name)
		}
		return nil
	})
	if initial != nil {
		if err := rel.Set(initial); err != nil {
			return nil, withContext(err, r.node.PathString(), name)
		}
	}
	return rel, nil
}

// MakeLinkableAs advertises additional capability tags for this resource.
func (r *Resource) MakeLinkableAs(tags ...string) {
	r.node.MakeLinkableAs(tags...)
}

// MakeLinkableTo registers a link handler on the underlying node.
func (r *Resource) MakeLinkableTo(tags []string, fn LinkHandler) {
	r.node.MakeLinkableTo(tags, fn)
}

// LinkTargets implements Linkable by delegating to the underlying node.
func (r *Resource) LinkTargets() []string {
	return r.node.LinkTargets()
}

// LinkTo implements Linkable by delegating to the underlying node.
func (r *Resource) LinkTo(target *Construct) error {
	return r.node.LinkTo(target)
}

// Link resolves linkables against this resource's subtree.
func (r *Resource) Link(linkables ...Linkable) error {
	return r.node.Link(linkables...)
}

func (r *Resource) unknownProperty(name string) *Error {
	return NewError(CodeUnknownProperty,
		fmt.Sprintf("resource defines no property %q", name)).
		WithPath(r.node.PathString()).
		WithProperty(name)
}

func (r *Resource) typeMismatch(name, expected string, actual Property) *Error {
	return NewError(CodeTypeMismatch,
		fmt.Sprintf("property %q has the wrong variant", name)).
		WithPath(r.node.PathString()).
		WithProperty(name).
		WithVariants(expected, actual.Variant())
}

// withContext decorates a classified error with path and property
// context when it lacks them.
func withContext(err error, path, property string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	if e.Path == "" {
		e.Path = path
	}
	if e.Property == "" {
		e.Property = property
	}
	return e
}
