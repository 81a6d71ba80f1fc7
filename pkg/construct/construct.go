package construct

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Construct is a single node in the ownership tree. Every non-root node is
// owned by exactly one parent and carries an id that is unique among its
// siblings. A construct may advertise capability tags, accept link
// handlers, and optionally carry a Resource payload.
//
// Constructs are not safe for concurrent use. A whole tree belongs to one
// construction session on one goroutine; callers porting this to a
// concurrent environment must guard each tree with a single mutex spanning
// the entire session.
type Construct struct {
	// id is empty only for roots and floating scopes.
	id     string
	parent *Construct

	// children is keyed by child id; childOrder preserves insertion order
	// for deterministic traversal.
	children   map[string]*Construct
	childOrder []string

	// advertised holds the capability tags this node advertises (linksAs),
	// deduplicated, in registration order.
	advertised []string

	// handlers holds the link handlers this node accepts (linksTo), in
	// registration order.
	handlers []linkHandler

	// floating marks a floating-scope anchor. Children of a floating scope
	// are adoptable: the first concrete node they are linked against takes
	// ownership of them.
	floating bool

	// resource is non-nil when this node carries a resource payload.
	resource *Resource

	// log is the debug side channel. Defaults to a no-op logger and is
	// inherited by the whole subtree.
	log zerolog.Logger

	// observer is the optional link-resolution side channel, inherited
	// the same way as log. Nil means no observation.
	observer LinkObserver
}

// NewRoot creates a root construct: a tree anchor with no parent and no id.
func NewRoot() *Construct {
	return &Construct{
		children: make(map[string]*Construct),
		log:      zerolog.Nop(),
	}
}

// NewFloatingScope creates a floating scope: a root-like anchor whose
// children are not yet attached to a concrete location. A child of a
// floating scope is adopted by the first concrete node it is linked
// against (see Link).
func NewFloatingScope() *Construct {
	s := NewRoot()
	s.floating = true
	return s
}

// New registers a new construct under parent, keyed by id.
//
// Passing a nil parent and an empty id creates a root (equivalent to
// NewRoot). Providing exactly one of the two fails with an
// INVALID_IDENTITY error. An id already owned by parent fails with a
// DUPLICATE_ID error.
func New(parent *Construct, id string) (*Construct, error) {
	if parent == nil && id == "" {
		return NewRoot(), nil
	}
	if parent == nil {
		return nil, NewError(CodeInvalidIdentity,
			fmt.Sprintf("construct %q has an id but no parent; roots have neither", id))
	}
	if id == "" {
		return nil, NewError(CodeInvalidIdentity,
			"construct has a parent but no id; roots have neither").
			WithPath(parent.PathString())
	}
	if _, exists := parent.children[id]; exists {
		return nil, NewError(CodeDuplicateID,
			fmt.Sprintf("parent already owns a child named %q", id)).
			WithPath(parent.PathString())
	}

	c := &Construct{
		id:       id,
		parent:   parent,
		children: make(map[string]*Construct),
		log:      parent.log,
		observer: parent.observer,
	}
	parent.children[id] = c
	parent.childOrder = append(parent.childOrder, id)

	c.log.Debug().Str("path", c.PathString()).Msg("construct created")
	return c, nil
}

// ID returns the construct's id. Roots and floating scopes have none.
func (c *Construct) ID() string {
	return c.id
}

// Parent returns the owning construct, or nil for roots.
func (c *Construct) Parent() *Construct {
	return c.parent
}

// Root walks up the ownership chain to the tree anchor.
func (c *Construct) Root() *Construct {
	n := c
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// IsFloating reports whether this construct is a floating-scope anchor.
func (c *Construct) IsFloating() bool {
	return c.floating
}

// Child returns the child with the given id, if any.
func (c *Construct) Child(id string) (*Construct, bool) {
	child, ok := c.children[id]
	return child, ok
}

// Children returns the node's children in insertion order.
func (c *Construct) Children() []*Construct {
	out := make([]*Construct, 0, len(c.childOrder))
	for _, id := range c.childOrder {
		out = append(out, c.children[id])
	}
	return out
}

// Node returns the construct itself, satisfying Adoptable so plain
// constructs can be adopted out of a floating scope during Link.
func (c *Construct) Node() *Construct {
	return c
}

// Resource returns the resource payload carried by this node, or nil if
// the node is a plain construct.
func (c *Construct) Resource() *Resource {
	return c.resource
}

// Path returns the ordered sequence of ids from the root (exclusive) down
// to this construct. Roots yield an empty path.
func (c *Construct) Path() []string {
	var path []string
	for n := c; n.parent != nil; n = n.parent {
		path = append(path, n.id)
	}
	// Reverse into root-first order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathString returns the path joined with "/". It is the display form and
// the deterministic sort key used by the renderer.
func (c *Construct) PathString() string {
	return strings.Join(c.Path(), "/")
}

// Reparent transfers ownership of this construct to newParent.
//
// Only a node currently owned by a floating scope may be reparented;
// anything else fails with a NOT_REPARENTABLE error (roots included). The
// transfer is atomic: it fails with a REPARENT_CONFLICT error, leaving
// ownership unchanged, if newParent already owns a child with this node's
// id.
func (c *Construct) Reparent(newParent *Construct) error {
	if c.parent == nil || c.id == "" {
		return NewError(CodeNotReparentable, "a root cannot be reparented")
	}
	if !c.parent.floating {
		return NewError(CodeNotReparentable,
			"only a node owned by a floating scope may be reparented").
			WithPath(c.PathString())
	}
	if _, exists := newParent.children[c.id]; exists {
		return NewError(CodeReparentConflict,
			fmt.Sprintf("destination already owns a child named %q", c.id)).
			WithPath(newParent.PathString())
	}

	old := c.parent
	delete(old.children, c.id)
	for i, id := range old.childOrder {
		if id == c.id {
			old.childOrder = append(old.childOrder[:i], old.childOrder[i+1:]...)
			break
		}
	}

	c.parent = newParent
	newParent.children[c.id] = c
	newParent.childOrder = append(newParent.childOrder, c.id)

	// Descendants built under the floating scope carry its channels;
	// rebind the whole adopted subtree, not just the adopted node.
	c.inherit(newParent.log, newParent.observer)
	c.log.Debug().Str("path", c.PathString()).Msg("construct adopted")
	return nil
}

// UseLogger installs a debug logger on this construct and its subtree.
// Children created or adopted afterwards inherit it. The default is a
// no-op logger; the channel carries link-match traces and
// dropped-linkable notices.
func (c *Construct) UseLogger(log zerolog.Logger) {
	c.inherit(log, c.observer)
}

// UseLinkObserver installs a link-resolution observer on this construct
// and its subtree, inherited the same way as the logger.
func (c *Construct) UseLinkObserver(obs LinkObserver) {
	c.inherit(c.log, obs)
}

// inherit rebinds the side channels across the subtree rooted here.
func (c *Construct) inherit(log zerolog.Logger, obs LinkObserver) {
	stack := []*Construct{c}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n.log = log
		n.observer = obs
		for _, id := range n.childOrder {
			stack = append(stack, n.children[id])
		}
	}
}
