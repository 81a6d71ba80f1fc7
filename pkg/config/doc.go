// Package config is the declarative front-end of Stackform. It loads
// stack manifests written in CUE or YAML, evaluates embedded Starlark
// scripts into a variable environment, substitutes "${name}" references,
// validates the manifest shape, and builds a construct tree through a
// registry of resource-type builders.
//
// The package is glue around the construct core: every error the core
// raises during building or tweak resolution propagates to the caller
// unchanged.
package config
