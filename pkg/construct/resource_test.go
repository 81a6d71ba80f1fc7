package construct

import (
	"testing"
)

func TestNewResource_AdvertisesType(t *testing.T) {
	root := NewRoot()
	r, err := NewResource(root, "Thing", "Test::Thing")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	tags := r.Node().Advertises()
	if len(tags) != 1 || tags[0] != "Test::Thing" {
		t.Errorf("Expected advertised tags [Test::Thing], got %v", tags)
	}
	if r.Node().Resource() != r {
		t.Error("Expected node to carry its resource payload")
	}
}

func TestResource_AddProperty_Duplicate(t *testing.T) {
	root := NewRoot()
	r, _ := NewResource(root, "Thing", "Test::Thing")

	if err := r.AddProperty("Name", NewScalar()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := r.AddProperty("Name", NewScalar()); !IsDuplicateID(err) {
		t.Errorf("Expected DUPLICATE_ID for redefined property, got: %v", err)
	}
}

func TestResource_Scalar_Errors(t *testing.T) {
	root := NewRoot()
	r, _ := NewResource(root, "Thing", "Test::Thing")
	if err := r.AddProperty("Tags", NewCollection()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if _, err := r.Scalar("Missing"); !IsUnknownProperty(err) {
		t.Errorf("Expected UNKNOWN_PROPERTY, got: %v", err)
	}

	_, err := r.Scalar("Tags")
	if !IsTypeMismatch(err) {
		t.Fatalf("Expected TYPE_MISMATCH, got: %v", err)
	}
	var e *Error
	if !asError(err, &e) {
		t.Fatal("Expected a classified error")
	}
	if e.Expected != "scalar" || e.Actual != "collection" {
		t.Errorf("Expected variant context scalar/collection, got %s/%s", e.Expected, e.Actual)
	}
}

func TestResource_LogicalID(t *testing.T) {
	root := NewRoot()
	app, _ := New(root, "App")
	r, _ := NewResource(app, "Bucket", "Test::Thing")

	if got := r.LogicalID(); got != "AppBucket" {
		t.Errorf("Expected logical id AppBucket, got %q", got)
	}
}

func TestResource_AddLinkRelationship_SetOnLink(t *testing.T) {
	root := NewRoot()
	source, _ := NewResource(root, "Source", "Test::Policy")
	target, _ := NewResource(root, "Target", "Test::Bucket")
	target.MakeLinkableAs("bucket")

	rel, err := source.AddLinkRelationship("Bucket", []string{"bucket"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, ok := rel.Get(); ok {
		t.Fatal("Expected relationship to start unset")
	}

	if err := root.Link(source); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	got, ok := rel.Get()
	if !ok {
		t.Fatal("Expected relationship to be set after link")
	}
	if got != target {
		t.Errorf("Expected relationship target Target, got %q", got.LogicalID())
	}
}

func TestResource_AddLinkRelationship_Initial(t *testing.T) {
	root := NewRoot()
	target, _ := NewResource(root, "Target", "Test::Bucket")
	source, _ := NewResource(root, "Source", "Test::Policy")

	rel, err := source.AddLinkRelationship("Bucket", []string{"bucket"}, target)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got, ok := rel.Get(); !ok || got != target {
		t.Error("Expected relationship to hold the initial target")
	}
}

func TestResource_AddLinkRelationship_SecondMatchFails(t *testing.T) {
	root := NewRoot()
	source, _ := NewResource(root, "Source", "Test::Policy")
	first, _ := NewResource(root, "First", "Test::Bucket")
	first.MakeLinkableAs("bucket")
	second, _ := NewResource(root, "Second", "Test::Bucket")
	second.MakeLinkableAs("bucket")

	if _, err := source.AddLinkRelationship("Bucket", []string{"bucket"}, nil); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// The traversal matches both buckets; the set-once relationship
	// rejects the second.
	if err := root.Link(source); !IsAlreadyLinked(err) {
		t.Errorf("Expected ALREADY_LINKED on second match, got: %v", err)
	}
}

// asError is a test helper around errors.As for *Error.
func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
