package construct

// Linkable is anything that can attach itself to a matching construct: a
// free-standing tweak, a resource, or a plain construct with registered
// link handlers. A linkable targets a set of capability tags; it may
// attach to a node when that set intersects the tags the node advertises.
type Linkable interface {
	// LinkTargets returns the capability tags this linkable wants to
	// attach to.
	LinkTargets() []string

	// LinkTo attaches this linkable to a matched construct. The linkable
	// locates and mutates the property or relationship it cares about on
	// the target.
	LinkTo(target *Construct) error
}

// LinkHandler reacts to this node being matched against another construct
// during link dispatch.
type LinkHandler func(target *Construct) error

// linkHandler associates target tags with a callback.
type linkHandler struct {
	tags []string
	fn   LinkHandler
}

// LinkObserver receives link-resolution outcomes. It is the structured
// side channel next to the debug logger: a match fires with the matched
// node's path and the tags both sides share, a drop fires once per
// linkable that matched nothing during a whole traversal.
type LinkObserver interface {
	// LinkMatched is called after a linkable attaches to a node.
	LinkMatched(path string, tags []string)

	// LinkDropped is called for a linkable that matched no node.
	LinkDropped(targets []string)
}

// Adoptable is implemented by linkables that wrap a construct, letting
// the link traversal reparent them out of a floating scope. *Construct
// and *Resource implement it; provider wrapper types inherit it by
// embedding *Resource.
type Adoptable interface {
	Node() *Construct
}

// MakeLinkableAs advertises capability tags on this construct. Duplicate
// tags are ignored; registration order is preserved.
func (c *Construct) MakeLinkableAs(tags ...string) {
	for _, tag := range tags {
		if !containsTag(c.advertised, tag) {
			c.advertised = append(c.advertised, tag)
		}
	}
}

// Advertises returns the capability tags this construct advertises, in
// registration order.
func (c *Construct) Advertises() []string {
	out := make([]string, len(c.advertised))
	copy(out, c.advertised)
	return out
}

// MakeLinkableTo registers a link handler: when this construct is matched
// against a node advertising any of the given tags, the callback is
// invoked with that node. Used where a node must react to being linked,
// such as deriving its own identifying value from the node it attaches
// to.
func (c *Construct) MakeLinkableTo(tags []string, fn LinkHandler) {
	c.handlers = append(c.handlers, linkHandler{tags: tags, fn: fn})
}

// LinkTargets implements Linkable: the union of all handler tags, in
// registration order.
func (c *Construct) LinkTargets() []string {
	var out []string
	for _, h := range c.handlers {
		for _, tag := range h.tags {
			if !containsTag(out, tag) {
				out = append(out, tag)
			}
		}
	}
	return out
}

// LinkTo implements Linkable: every handler whose tags intersect the
// target's advertised tags is invoked, in registration order.
func (c *Construct) LinkTo(target *Construct) error {
	for _, h := range c.handlers {
		if !intersects(h.tags, target.advertised) {
			continue
		}
		if err := h.fn(target); err != nil {
			return err
		}
	}
	return nil
}

// TryLink attempts to attach a linkable to a single node. It attaches iff
// the linkable's target tags intersect the node's advertised tags, and
// reports whether a match occurred. On disjoint tag sets the node is left
// untouched.
func TryLink(lk Linkable, node *Construct) (bool, error) {
	shared := intersection(lk.LinkTargets(), node.advertised)
	if len(shared) == 0 {
		return false, nil
	}
	node.log.Debug().
		Str("path", node.PathString()).
		Strs("targets", lk.LinkTargets()).
		Msg("link matched")
	if err := lk.LinkTo(node); err != nil {
		return true, err
	}
	if node.observer != nil {
		node.observer.LinkMatched(node.PathString(), shared)
	}
	return true, nil
}

// Link resolves a list of linkables against this construct's entire
// subtree. Traversal is strictly top-down, depth-first, in child-insertion
// order, and every node tests the same full list: several nodes in the
// subtree may each independently match and attach one linkable.
//
// A linkable that is itself a construct currently owned by a floating
// scope is adopted first: it is reparented under the node being visited
// before matching, so floating declarations attach to the first concrete
// node they are linked against.
//
// A linkable that matches nothing anywhere in the subtree is permissively
// dropped; the drop is reported on the debug log channel only.
func (c *Construct) Link(linkables ...Linkable) error {
	matched := make([]bool, len(linkables))

	// Explicit worklist rather than recursion, so deep trees cannot
	// exhaust the stack. Children are pushed in reverse insertion order to
	// pop in insertion order.
	stack := []*Construct{c}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i, lk := range linkables {
			if lk == nil {
				continue
			}
			if ad, ok := lk.(Adoptable); ok {
				n := ad.Node()
				if n.parent != nil && n.parent.floating {
					// The adopted node becomes a child of the node being
					// visited, so the traversal below reaches it naturally.
					if err := n.Reparent(node); err != nil {
						return err
					}
				}
			}
			ok, err := TryLink(lk, node)
			if err != nil {
				return err
			}
			if ok {
				matched[i] = true
			}
		}

		children := node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	for i, lk := range linkables {
		if lk != nil && !matched[i] {
			c.log.Debug().
				Strs("targets", lk.LinkTargets()).
				Str("root", c.PathString()).
				Msg("linkable matched no node; dropped")
			if c.observer != nil {
				c.observer.LinkDropped(lk.LinkTargets())
			}
		}
	}
	return nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// intersects reports whether two tag sets share at least one tag.
func intersects(a, b []string) bool {
	for _, t := range a {
		if containsTag(b, t) {
			return true
		}
	}
	return false
}

// intersection returns the tags of a that also appear in b, in a's order.
func intersection(a, b []string) []string {
	var out []string
	for _, t := range a {
		if containsTag(b, t) {
			out = append(out, t)
		}
	}
	return out
}
