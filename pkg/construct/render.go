package construct

import (
	"fmt"
	"sort"
)

// Document is the flattened output: a mapping from logical id to a
// rendered resource entry.
type Document map[string]Entry

// Entry is the rendered form of a single resource.
type Entry struct {
	// Type is the resource type tag.
	Type string `json:"type"`

	// Properties maps every declared property name to its rendered value.
	// Unset scalars and relationships render as an explicit null.
	Properties map[string]any `json:"properties"`
}

// Renderable is a value that knows how to render itself. Nested values
// implementing it are rendered recursively; everything else passes
// through unchanged.
type Renderable interface {
	Render() (any, error)
}

// FindAll collects every resource in the subtree rooted at root, in
// breadth-first order.
func FindAll(root *Construct) []*Resource {
	var out []*Resource
	queue := []*Construct{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if r := node.Resource(); r != nil {
			out = append(out, r)
		}
		queue = append(queue, node.Children()...)
	}
	return out
}

// RenderAll flattens the subtree rooted at root into a Document. The
// resources are sorted by path before merging, so the result is
// deterministic regardless of child-insertion order. Two resources
// rendering to the same logical id fail with a DUPLICATE_LOGICAL_ID
// error rather than silently clobbering each other.
func RenderAll(root *Construct) (Document, error) {
	resources := FindAll(root)
	sort.Slice(resources, func(i, j int) bool {
		return resources[i].Node().PathString() < resources[j].Node().PathString()
	})

	doc := make(Document, len(resources))
	for _, r := range resources {
		id := r.LogicalID()
		if _, exists := doc[id]; exists {
			return nil, NewError(CodeDuplicateLogicalID,
				fmt.Sprintf("two resources render to logical id %q", id)).
				WithPath(r.Node().PathString())
		}
		entry, err := r.Render()
		if err != nil {
			return nil, err
		}
		doc[id] = entry
	}
	return doc, nil
}

// Render produces this resource's document entry. Every declared property
// appears under its name; unset scalars and relationships render as an
// explicit null, collections as ordered arrays, and relationship targets
// as an external reference marker keyed by the target's logical id.
func (r *Resource) Render() (Entry, error) {
	props := make(map[string]any, len(r.propOrder))
	for _, name := range r.propOrder {
		rendered, err := renderProperty(r.props[name])
		if err != nil {
			return Entry{}, withContext(err, r.node.PathString(), name)
		}
		props[name] = rendered
	}
	return Entry{Type: r.resourceType, Properties: props}, nil
}

// renderProperty renders one property by exhaustive variant match.
func renderProperty(p Property) (any, error) {
	switch v := p.(type) {
	case *Scalar:
		value, ok := v.Get()
		if !ok {
			return nil, nil
		}
		return renderValue(value)
	case *Collection:
		items := v.Items()
		out := make([]any, 0, len(items))
		for _, item := range items {
			rendered, err := renderValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, rendered)
		}
		return out, nil
	case *Relationship:
		target, ok := v.Get()
		if !ok {
			return nil, nil
		}
		return map[string]any{"ref": target.LogicalID()}, nil
	default:
		return nil, NewError(CodeTypeMismatch,
			fmt.Sprintf("unrenderable property variant %q", p.Variant()))
	}
}

// renderValue renders nested renderables recursively and passes all other
// values through unchanged.
func renderValue(value any) (any, error) {
	r, ok := value.(Renderable)
	if !ok {
		return value, nil
	}
	rendered, err := r.Render()
	if err != nil {
		return nil, err
	}
	return renderValue(rendered)
}
