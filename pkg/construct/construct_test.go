package construct

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_Root(t *testing.T) {
	root, err := New(nil, "")
	if err != nil {
		t.Fatalf("Expected no error creating root, got: %v", err)
	}
	if root.ID() != "" {
		t.Errorf("Expected empty root id, got %q", root.ID())
	}
	if root.Parent() != nil {
		t.Error("Expected root to have no parent")
	}
	if len(root.Path()) != 0 {
		t.Errorf("Expected empty root path, got %v", root.Path())
	}
}

func TestNew_InvalidIdentity(t *testing.T) {
	if _, err := New(nil, "orphan"); !IsInvalidIdentity(err) {
		t.Errorf("Expected INVALID_IDENTITY for id without parent, got: %v", err)
	}

	root := NewRoot()
	if _, err := New(root, ""); !IsInvalidIdentity(err) {
		t.Errorf("Expected INVALID_IDENTITY for parent without id, got: %v", err)
	}
}

func TestNew_DuplicateID(t *testing.T) {
	root := NewRoot()
	if _, err := New(root, "child"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	_, err := New(root, "child")
	if !IsDuplicateID(err) {
		t.Fatalf("Expected DUPLICATE_ID, got: %v", err)
	}
}

func TestConstruct_Path(t *testing.T) {
	root := NewRoot()
	a, _ := New(root, "a")
	b, _ := New(a, "b")
	c, _ := New(b, "c")

	path := c.Path()
	want := []string{"a", "b", "c"}
	if len(path) != len(want) {
		t.Fatalf("Expected path %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("Expected path[%d]=%q, got %q", i, want[i], path[i])
		}
	}

	if got := c.PathString(); got != "a/b/c" {
		t.Errorf("Expected path string a/b/c, got %q", got)
	}
}

func TestConstruct_Children_InsertionOrder(t *testing.T) {
	root := NewRoot()
	for _, id := range []string{"zebra", "alpha", "mid"} {
		if _, err := New(root, id); err != nil {
			t.Fatalf("Expected no error creating %q, got: %v", id, err)
		}
	}

	children := root.Children()
	want := []string{"zebra", "alpha", "mid"}
	if len(children) != len(want) {
		t.Fatalf("Expected %d children, got %d", len(want), len(children))
	}
	for i, child := range children {
		if child.ID() != want[i] {
			t.Errorf("Expected child[%d]=%q, got %q", i, want[i], child.ID())
		}
	}
}

func TestConstruct_Reparent_FromFloatingScope(t *testing.T) {
	scope := NewFloatingScope()
	node, _ := New(scope, "node")
	root := NewRoot()

	if err := node.Reparent(root); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if node.Parent() != root {
		t.Error("Expected node parent to be the new root")
	}
	if _, ok := scope.Child("node"); ok {
		t.Error("Expected node to be removed from the floating scope")
	}
	if got, ok := root.Child("node"); !ok || got != node {
		t.Error("Expected node to be owned by the new root")
	}
}

func TestConstruct_Reparent_Root(t *testing.T) {
	root := NewRoot()
	if err := root.Reparent(NewRoot()); !IsNotReparentable(err) {
		t.Errorf("Expected NOT_REPARENTABLE for root, got: %v", err)
	}
}

func TestConstruct_Reparent_ConcreteOwner(t *testing.T) {
	root := NewRoot()
	node, _ := New(root, "node")

	if err := node.Reparent(NewRoot()); !IsNotReparentable(err) {
		t.Errorf("Expected NOT_REPARENTABLE for concretely owned node, got: %v", err)
	}
	if node.Parent() != root {
		t.Error("Expected ownership to be unchanged after failed reparent")
	}
}

func TestConstruct_Reparent_Conflict(t *testing.T) {
	scope := NewFloatingScope()
	node, _ := New(scope, "dup")

	dest := NewRoot()
	if _, err := New(dest, "dup"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if err := node.Reparent(dest); !IsReparentConflict(err) {
		t.Fatalf("Expected REPARENT_CONFLICT, got: %v", err)
	}
	if node.Parent() != scope {
		t.Error("Expected node to remain in the floating scope after conflict")
	}
	if _, ok := scope.Child("dup"); !ok {
		t.Error("Expected floating scope to still own the node")
	}
}

func TestConstruct_Reparent_SubtreeInheritsLogger(t *testing.T) {
	scope := NewFloatingScope()
	parent, _ := New(scope, "parent")
	child, _ := New(parent, "child")

	var buf bytes.Buffer
	root := NewRoot()
	root.UseLogger(zerolog.New(&buf))

	if err := parent.Reparent(root); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	buf.Reset()
	if _, err := New(child, "grandchild"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(buf.String(), "construct created") {
		t.Errorf("Expected adopted subtree to log through the root logger, got: %q", buf.String())
	}
}

func TestConstruct_UseLinkObserver_Inherited(t *testing.T) {
	root := NewRoot()
	obs := &recordingObserver{}
	root.UseLinkObserver(obs)

	parent, _ := New(root, "parent")
	child, _ := New(parent, "child")
	child.MakeLinkableAs("leaf")

	lk := &recordingLinkable{targets: []string{"leaf"}}
	if err := root.Link(lk); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(obs.matched) != 1 || obs.matched[0] != "parent/child" {
		t.Errorf("Expected observer installed before the subtree existed to see the match, got %v", obs.matched)
	}
}
