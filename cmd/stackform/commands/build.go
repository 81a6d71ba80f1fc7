package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/stackform/stackform/pkg/config"
	"github.com/stackform/stackform/pkg/construct"
	"github.com/stackform/stackform/pkg/providers/s3"
	"github.com/stackform/stackform/pkg/telemetry"
)

// newRegistry returns a type registry with all built-in providers registered.
func newRegistry() (*config.TypeRegistry, error) {
	reg := config.NewTypeRegistry()
	if err := s3.RegisterTypes(reg); err != nil {
		return nil, fmt.Errorf("registering provider types: %w", err)
	}
	return reg, nil
}

// buildTree loads the manifest at path and builds the resource tree.
// A non-nil telemetry instance receives build metrics and events.
func buildTree(ctx context.Context, path string, tel *telemetry.Telemetry) (*construct.Construct, *config.Manifest, error) {
	loader := config.NewLoader()
	manifest, err := loader.Load(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading manifest: %w", err)
	}

	reg, err := newRegistry()
	if err != nil {
		return nil, nil, err
	}

	builder := config.NewTreeBuilder(reg, log.Logger)
	builder.UseTelemetry(tel)
	root, err := builder.Build(manifest)
	if err != nil {
		return nil, nil, fmt.Errorf("building stack %s: %w", manifest.Stack.Name, err)
	}
	return root, manifest, nil
}
