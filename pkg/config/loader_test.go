package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Expected no error writing manifest, got: %v", err)
	}
	return path
}

func TestLoader_Load_YAML(t *testing.T) {
	path := writeManifest(t, "stack.yaml", `
stack:
  name: demo
  resources:
    - id: Bucket
      type: S3::Bucket
      properties:
        BucketName: my-bucket
    - id: Policy
      type: S3::BucketPolicy
      links:
        Bucket: Bucket
  tweaks:
    - target: bucket
      action: append
      property: Tags
      value:
        Key: CostCenter
        Value: "1234"
`)

	m, err := NewLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if m.Stack.Name != "demo" {
		t.Errorf("Expected stack name demo, got %q", m.Stack.Name)
	}
	if len(m.Stack.Resources) != 2 {
		t.Fatalf("Expected 2 resources, got %d", len(m.Stack.Resources))
	}
	if m.Stack.Resources[0].Properties["BucketName"] != "my-bucket" {
		t.Errorf("Expected BucketName my-bucket, got %v", m.Stack.Resources[0].Properties["BucketName"])
	}
	if m.Stack.Resources[1].Links["Bucket"] != "Bucket" {
		t.Errorf("Expected Policy linked to Bucket, got %v", m.Stack.Resources[1].Links)
	}
	if len(m.Stack.Tweaks) != 1 || m.Stack.Tweaks[0].Action != "append" {
		t.Errorf("Expected one append tweak, got %v", m.Stack.Tweaks)
	}
}

func TestLoader_Load_CUE(t *testing.T) {
	path := writeManifest(t, "stack.cue", `
stack: {
	name: "demo"
	resources: [{
		id:   "Bucket"
		type: "S3::Bucket"
		properties: BucketName: "my-bucket"
	}]
}
`)

	m, err := NewLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if m.Stack.Resources[0].Properties["BucketName"] != "my-bucket" {
		t.Errorf("Expected BucketName my-bucket, got %v", m.Stack.Resources[0].Properties["BucketName"])
	}
}

func TestLoader_Load_VariableSubstitution(t *testing.T) {
	path := writeManifest(t, "stack.yaml", `
stack:
  name: demo
  variables:
    env: prod
    replicas: 3
  resources:
    - id: Bucket
      type: S3::Bucket
      properties:
        BucketName: app-${env}
        Replicas: ${replicas}
`)

	m, err := NewLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	props := m.Stack.Resources[0].Properties
	if props["BucketName"] != "app-prod" {
		t.Errorf("Expected embedded reference stringified to app-prod, got %v", props["BucketName"])
	}
	// A lone reference keeps the variable's native type.
	if props["Replicas"] != 3 {
		t.Errorf("Expected Replicas to stay an int 3, got %v (%T)", props["Replicas"], props["Replicas"])
	}
}

func TestLoader_Load_ScriptVariables(t *testing.T) {
	path := writeManifest(t, "stack.yaml", `
stack:
  name: demo
  variables:
    env: prod
  scripts:
    - name: naming
      script: |
        bucket_name = "app-" + env + "-data"
  resources:
    - id: Bucket
      type: S3::Bucket
      properties:
        BucketName: ${bucket_name}
`)

	m, err := NewLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got := m.Stack.Resources[0].Properties["BucketName"]; got != "app-prod-data" {
		t.Errorf("Expected script-computed name app-prod-data, got %v", got)
	}
}

func TestLoader_Load_UndefinedVariable(t *testing.T) {
	path := writeManifest(t, "stack.yaml", `
stack:
  name: demo
  resources:
    - id: Bucket
      type: S3::Bucket
      properties:
        BucketName: ${missing}
`)

	if _, err := NewLoader().Load(context.Background(), path); err == nil {
		t.Error("Expected error for undefined variable")
	}
}

func TestLoader_Load_ValidationFailure(t *testing.T) {
	// No resources at all.
	path := writeManifest(t, "stack.yaml", `
stack:
  name: demo
`)

	if _, err := NewLoader().Load(context.Background(), path); err == nil {
		t.Error("Expected validation error for a stack without resources")
	}
}

func TestLoader_Load_UnsupportedExtension(t *testing.T) {
	path := writeManifest(t, "stack.toml", "stack = 1")
	if _, err := NewLoader().Load(context.Background(), path); err == nil {
		t.Error("Expected error for unsupported manifest extension")
	}
}
