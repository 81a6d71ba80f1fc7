package construct

import (
	"encoding/json"
	"testing"
)

func TestFindAll_BreadthFirst(t *testing.T) {
	root := NewRoot()
	a, _ := New(root, "a")
	if _, err := NewResource(a, "Deep", "Test::Thing"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := NewResource(root, "Shallow", "Test::Thing"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	resources := FindAll(root)
	if len(resources) != 2 {
		t.Fatalf("Expected 2 resources, got %d", len(resources))
	}
	// Breadth-first: the shallow resource comes first even though the deep
	// one was created first.
	if resources[0].LogicalID() != "Shallow" {
		t.Errorf("Expected Shallow first, got %q", resources[0].LogicalID())
	}
	if resources[1].LogicalID() != "aDeep" {
		t.Errorf("Expected aDeep second, got %q", resources[1].LogicalID())
	}
}

func TestRenderAll_Deterministic(t *testing.T) {
	build := func(order []string) *Construct {
		root := NewRoot()
		for _, id := range order {
			r, err := NewResource(root, id, "Test::Thing")
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			name := NewScalar()
			name.Set(id)
			if err := r.AddProperty("Name", name); err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
		}
		return root
	}

	first, err := RenderAll(build([]string{"B", "A", "C"}))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	second, err := RenderAll(build([]string{"C", "B", "A"}))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("Expected identical documents regardless of insertion order:\n%s\n%s", a, b)
	}
}

func TestRenderAll_DuplicateLogicalID(t *testing.T) {
	root := NewRoot()
	a, _ := New(root, "a")
	if _, err := NewResource(a, "b", "Test::Thing"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	// Path ["a","b"] and path ["ab"] concatenate to the same logical id.
	if _, err := NewResource(root, "ab", "Test::Thing"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if _, err := RenderAll(root); !IsDuplicateLogicalID(err) {
		t.Errorf("Expected DUPLICATE_LOGICAL_ID, got: %v", err)
	}
}

func TestResource_Render_UnsetScalarIsNull(t *testing.T) {
	root := NewRoot()
	r, _ := NewResource(root, "Thing", "Test::Thing")
	if err := r.AddProperty("Name", NewScalar()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	entry, err := r.Render()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	v, present := entry.Properties["Name"]
	if !present {
		t.Fatal("Expected unset scalar to appear under its name")
	}
	if v != nil {
		t.Errorf("Expected explicit null for unset scalar, got %v", v)
	}
}

func TestResource_Render_LinkReference(t *testing.T) {
	root := NewRoot()
	target, _ := NewResource(root, "Target", "Test::Bucket")
	source, _ := NewResource(root, "Source", "Test::Policy")

	rel := NewRelationship()
	if err := rel.Set(target); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := source.AddProperty("Bucket", rel); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	entry, err := source.Render()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	ref, ok := entry.Properties["Bucket"].(map[string]any)
	if !ok {
		t.Fatalf("Expected reference marker map, got %T", entry.Properties["Bucket"])
	}
	if ref["ref"] != "Target" {
		t.Errorf("Expected ref=Target, got %v", ref["ref"])
	}
}

// selfRendering is a nested renderable test value.
type selfRendering struct {
	inner any
}

func (s selfRendering) Render() (any, error) {
	return s.inner, nil
}

func TestResource_Render_NestedRenderable(t *testing.T) {
	root := NewRoot()
	r, _ := NewResource(root, "Thing", "Test::Thing")

	doc := NewScalar()
	// Two levels of renderable nesting resolve all the way down.
	doc.Set(selfRendering{inner: selfRendering{inner: "payload"}})
	if err := r.AddProperty("Doc", doc); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	items := NewCollection()
	items.Add(selfRendering{inner: "first"})
	items.Add("second")
	if err := r.AddProperty("Items", items); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	entry, err := r.Render()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if entry.Properties["Doc"] != "payload" {
		t.Errorf("Expected nested renderable to resolve to payload, got %v", entry.Properties["Doc"])
	}
	rendered, ok := entry.Properties["Items"].([]any)
	if !ok || len(rendered) != 2 {
		t.Fatalf("Expected rendered collection of 2, got %v", entry.Properties["Items"])
	}
	if rendered[0] != "first" || rendered[1] != "second" {
		t.Errorf("Expected [first second], got %v", rendered)
	}
}
