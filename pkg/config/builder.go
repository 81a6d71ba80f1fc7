package config

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stackform/stackform/pkg/construct"
	"github.com/stackform/stackform/pkg/telemetry"
	"github.com/stackform/stackform/pkg/tweak"
)

// TreeBuilder turns validated manifests into construct trees.
type TreeBuilder struct {
	registry *TypeRegistry
	log      zerolog.Logger
	tel      *telemetry.Telemetry
}

// NewTreeBuilder creates a builder over a type registry. The logger
// becomes the tree's debug channel.
func NewTreeBuilder(registry *TypeRegistry, log zerolog.Logger) *TreeBuilder {
	return &TreeBuilder{
		registry: registry,
		log:      log,
	}
}

// UseTelemetry attaches a telemetry instance: builds record resource and
// tweak metrics and publish lifecycle events, and the built tree reports
// link matches and drops. Nil detaches.
func (b *TreeBuilder) UseTelemetry(tel *telemetry.Telemetry) {
	b.tel = tel
}

// telemetryLinkObserver forwards link-resolution outcomes from the
// construct tree to metrics and events.
type telemetryLinkObserver struct {
	tel *telemetry.Telemetry
}

func (o *telemetryLinkObserver) LinkMatched(path string, tags []string) {
	for _, tag := range tags {
		o.tel.Metrics.RecordLinkMatched(tag)
	}
	o.tel.Events.PublishLinkMatched(path, tags)
}

func (o *telemetryLinkObserver) LinkDropped(targets []string) {
	o.tel.Events.PublishLinkDropped(targets)
}

// Build constructs the tree a manifest describes: resources in listed
// order, then explicit links, then tweak resolution over the whole tree.
// Errors from the construct core propagate unchanged; the tree may be
// partially built on failure.
func (b *TreeBuilder) Build(m *Manifest) (*construct.Construct, error) {
	root := construct.NewRoot()
	root.UseLogger(b.log)
	if b.tel != nil {
		root.UseLinkObserver(&telemetryLinkObserver{tel: b.tel})
	}

	built := make(map[string]*construct.Resource, len(m.Stack.Resources))
	for _, cfg := range m.Stack.Resources {
		builder, err := b.registry.Builder(cfg.Type)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", cfg.ID, err)
		}
		r, err := builder(root, cfg)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", cfg.ID, err)
		}
		built[cfg.ID] = r
		b.log.Debug().Str("id", cfg.ID).Str("type", cfg.Type).Msg("resource built")
		if b.tel != nil {
			b.tel.Metrics.RecordResourceBuilt(cfg.Type)
			b.tel.Events.PublishConstructCreated(r.Node().PathString())
		}
	}

	// Second pass so links may point forward as well as backward.
	for _, cfg := range m.Stack.Resources {
		for name, targetID := range cfg.Links {
			target, ok := built[targetID]
			if !ok {
				return nil, fmt.Errorf("resource %s: link %s references unknown resource %s",
					cfg.ID, name, targetID)
			}
			rel, err := built[cfg.ID].Relationship(name)
			if err != nil {
				return nil, fmt.Errorf("resource %s: %w", cfg.ID, err)
			}
			if err := rel.Set(target); err != nil {
				return nil, fmt.Errorf("resource %s: %w", cfg.ID, err)
			}
		}
	}

	if len(m.Stack.Tweaks) > 0 {
		linkables := make([]construct.Linkable, 0, len(m.Stack.Tweaks))
		for _, t := range m.Stack.Tweaks {
			lk, err := buildTweak(t)
			if err != nil {
				return nil, err
			}
			linkables = append(linkables, lk)
		}
		if err := root.Link(linkables...); err != nil {
			return nil, fmt.Errorf("resolving tweaks: %w", err)
		}
		if b.tel != nil {
			for _, t := range m.Stack.Tweaks {
				b.tel.Metrics.RecordTweakApplied(t.Action)
				b.tel.Events.PublishTweakApplied(t.Target, t.Action, t.Property)
			}
		}
	}

	return root, nil
}

// buildTweak maps a tweak declaration onto the tweak factory API.
func buildTweak(cfg TweakConfig) (construct.Linkable, error) {
	switch cfg.Action {
	case "set":
		return tweak.Set(cfg.Target, cfg.Property, cfg.Value), nil
	case "append":
		return tweak.Append(cfg.Target, cfg.Property, cfg.Value), nil
	default:
		return nil, fmt.Errorf("unknown tweak action %q", cfg.Action)
	}
}
