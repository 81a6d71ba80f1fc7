package config

// Manifest is the root of a declarative stack definition, parsed from a
// CUE or YAML source file.
type Manifest struct {
	Stack StackConfig `json:"stack" yaml:"stack" validate:"required"`
}

// StackConfig describes one construct tree: an ordered list of resources,
// optional cross-cutting tweaks, and optional computed variables.
type StackConfig struct {
	// Name is the human-readable stack name.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Variables seed the substitution environment. Property and tweak
	// values reference them as "${name}".
	Variables map[string]any `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Scripts are Starlark snippets evaluated before substitution; their
	// global assignments extend the variable environment.
	Scripts []ScriptConfig `json:"scripts,omitempty" yaml:"scripts,omitempty" validate:"omitempty,dive"`

	// Resources are built into the tree in listed order.
	Resources []ResourceConfig `json:"resources" yaml:"resources" validate:"required,min=1,dive"`

	// Tweaks are resolved against the whole tree after construction and
	// explicit linking.
	Tweaks []TweakConfig `json:"tweaks,omitempty" yaml:"tweaks,omitempty" validate:"omitempty,dive"`
}

// ResourceConfig declares a single resource node.
type ResourceConfig struct {
	// ID is the node id, unique among siblings.
	ID string `json:"id" yaml:"id" validate:"required"`

	// Type selects the registered resource type builder (e.g.
	// "S3::Bucket").
	Type string `json:"type" yaml:"type" validate:"required"`

	// Properties is the type-specific initial property mapping.
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`

	// Links pre-sets named link relationships to other resources in the
	// same stack, keyed by relationship property name, valued by the
	// target resource id.
	Links map[string]string `json:"links,omitempty" yaml:"links,omitempty"`
}

// ScriptConfig is a named Starlark snippet.
type ScriptConfig struct {
	// Name identifies the script in diagnostics.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Script is the Starlark source.
	Script string `json:"script" yaml:"script" validate:"required"`
}

// TweakConfig declares a deferred mutation keyed by capability tag.
type TweakConfig struct {
	// Target is the capability tag of the intended resource type.
	Target string `json:"target" yaml:"target" validate:"required"`

	// Action is the tweak variant: "set" or "append".
	Action string `json:"action" yaml:"action" validate:"required,oneof=set append"`

	// Property names the scalar or collection to mutate.
	Property string `json:"property" yaml:"property" validate:"required"`

	// Value is the value to store or append.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`
}
