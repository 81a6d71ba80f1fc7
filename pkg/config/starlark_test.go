package config

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestStarlarkEvaluator_Evaluate(t *testing.T) {
	se := NewStarlarkEvaluator(0)
	script := `
name = prefix + "-bucket"
count = 3
`
	out, err := se.Evaluate(context.Background(), "test", script, map[string]any{"prefix": "logs"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if out["name"] != "logs-bucket" {
		t.Errorf("Expected name=logs-bucket, got %v", out["name"])
	}
	if out["count"] != int64(3) {
		t.Errorf("Expected count=3, got %v", out["count"])
	}
}

func TestStarlarkEvaluator_Evaluate_SkipsHelpers(t *testing.T) {
	se := NewStarlarkEvaluator(0)
	script := `
def _mk(n):
    return n * 2

_hidden = 1
value = _mk(21)
`
	out, err := se.Evaluate(context.Background(), "test", script, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if out["value"] != int64(42) {
		t.Errorf("Expected value=42, got %v", out["value"])
	}
	if _, ok := out["_hidden"]; ok {
		t.Error("Expected underscore globals to be omitted")
	}
	if _, ok := out["_mk"]; ok {
		t.Error("Expected function globals to be omitted")
	}
}

func TestStarlarkEvaluator_Evaluate_Timeout(t *testing.T) {
	se := NewStarlarkEvaluator(50 * time.Millisecond)
	script := `
def spin():
    x = 0
    for i in range(1000000000):
        x = x + 1
    return x

result = spin()
`
	start := time.Now()
	_, err := se.Evaluate(context.Background(), "loop", script, nil)
	if err == nil {
		t.Fatal("Expected an error for a script that exceeds the deadline")
	}
	if !strings.Contains(err.Error(), "execution timeout") {
		t.Errorf("Expected execution timeout error, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Expected the script to be stopped promptly, ran for %v", elapsed)
	}
}
