package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Loader parses, evaluates, and validates stack manifests. The source
// language is chosen by file extension: .cue for CUE, .yaml/.yml for
// YAML.
type Loader struct {
	cueCtx    *cue.Context
	starlark  *StarlarkEvaluator
	validator *validator.Validate
}

// NewLoader creates a loader with a 30 second script timeout.
func NewLoader() *Loader {
	return &Loader{
		cueCtx:    cuecontext.New(),
		starlark:  NewStarlarkEvaluator(30 * time.Second),
		validator: validator.New(),
	}
}

// Load reads a manifest file, runs its scripts, substitutes variables,
// and validates the result.
func (l *Loader) Load(ctx context.Context, path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	switch ext := filepath.Ext(path); ext {
	case ".cue":
		if err := l.parseCUE(path, content, &m); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &m); err != nil {
			return nil, fmt.Errorf("parsing YAML manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest extension %q (want .cue, .yaml, or .yml)", ext)
	}

	vars, err := l.evaluateScripts(ctx, &m)
	if err != nil {
		return nil, err
	}
	if err := substituteManifest(&m, vars); err != nil {
		return nil, err
	}

	if err := l.validator.Struct(&m); err != nil {
		return nil, fmt.Errorf("manifest %s failed validation: %w", path, err)
	}
	return &m, nil
}

// parseCUE compiles a CUE source and decodes it into the manifest shape.
func (l *Loader) parseCUE(path string, content []byte, m *Manifest) error {
	v := l.cueCtx.CompileBytes(content, cue.Filename(path))
	if err := v.Err(); err != nil {
		return fmt.Errorf("compiling CUE manifest %s: %w", path, err)
	}
	if err := v.Decode(m); err != nil {
		return fmt.Errorf("decoding CUE manifest %s: %w", path, err)
	}
	return nil
}

// evaluateScripts runs the manifest's Starlark scripts in order. Each
// script sees the variables accumulated so far and its global assignments
// extend them.
func (l *Loader) evaluateScripts(ctx context.Context, m *Manifest) (map[string]any, error) {
	vars := make(map[string]any, len(m.Stack.Variables))
	for k, v := range m.Stack.Variables {
		vars[k] = v
	}
	for _, script := range m.Stack.Scripts {
		out, err := l.starlark.Evaluate(ctx, script.Name, script.Script, vars)
		if err != nil {
			return nil, err
		}
		for k, v := range out {
			vars[k] = v
		}
	}
	return vars, nil
}

var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// substituteManifest expands "${name}" references in resource property
// values and tweak values. A value that is exactly one reference takes
// the variable's value with its type intact; references embedded in a
// longer string are stringified in place.
func substituteManifest(m *Manifest, vars map[string]any) error {
	for i := range m.Stack.Resources {
		cfg := &m.Stack.Resources[i]
		for name, value := range cfg.Properties {
			expanded, err := substituteValue(value, vars)
			if err != nil {
				return fmt.Errorf("resource %s property %s: %w", cfg.ID, name, err)
			}
			cfg.Properties[name] = expanded
		}
	}
	for i := range m.Stack.Tweaks {
		expanded, err := substituteValue(m.Stack.Tweaks[i].Value, vars)
		if err != nil {
			return fmt.Errorf("tweak %d: %w", i, err)
		}
		m.Stack.Tweaks[i].Value = expanded
	}
	return nil
}

func substituteValue(value any, vars map[string]any) (any, error) {
	switch v := value.(type) {
	case string:
		return substituteString(v, vars)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			expanded, err := substituteValue(item, vars)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			expanded, err := substituteValue(item, vars)
			if err != nil {
				return nil, err
			}
			out[k] = expanded
		}
		return out, nil
	default:
		return value, nil
	}
}

func substituteString(s string, vars map[string]any) (any, error) {
	// A lone reference keeps the variable's native type.
	if match := varPattern.FindStringSubmatch(s); match != nil && match[0] == s {
		v, ok := vars[match[1]]
		if !ok {
			return nil, fmt.Errorf("undefined variable %q", match[1])
		}
		return v, nil
	}

	var missing string
	expanded := varPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := varPattern.FindStringSubmatch(ref)[1]
		v, ok := vars[name]
		if !ok {
			missing = name
			return ref
		}
		return fmt.Sprint(v)
	})
	if missing != "" {
		return nil, fmt.Errorf("undefined variable %q", missing)
	}
	if strings.Contains(expanded, "${") {
		return nil, fmt.Errorf("malformed variable reference in %q", s)
	}
	return expanded, nil
}
