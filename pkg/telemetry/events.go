package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents a telemetry event emitted during tree construction
// and rendering.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// Source identifies where the event originated.
	Source string `json:"source"`

	// Path is the associated construct path, if applicable.
	Path string `json:"path,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// EventType constants for common event types.
const (
	EventTypeConstructCreated = "construct.created"
	EventTypeLinkMatched      = "link.matched"
	EventTypeLinkDropped      = "link.dropped"
	EventTypeTweakApplied     = "tweak.applied"
	EventTypeRenderCompleted  = "render.completed"
	EventTypeRenderFailed     = "render.failed"
)

// EventLevel constants for event severity.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

// EventPublisher delivers events synchronously to subscribers in
// registration order. Delivery order matches publish order, which lets
// subscribers reconstruct the sequence of build steps.
type EventPublisher struct {
	config      EventsConfig
	subscribers []subscriberEntry
	filters     []EventFilter
	mu          sync.RWMutex
}

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// NewEventPublisher creates a new event publisher with the given configuration.
func NewEventPublisher(cfg EventsConfig) *EventPublisher {
	return &EventPublisher{config: cfg}
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) {
	if !ep.config.Enabled {
		return
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	ep.mu.RLock()
	defer ep.mu.RUnlock()

	for _, filter := range ep.filters {
		if !filter(event) {
			return
		}
	}

	for _, entry := range ep.subscribers {
		if entry.filter != nil && !entry.filter(event) {
			continue
		}
		entry.subscriber(event)
	}
}

// PublishConstructCreated publishes an event for a newly created construct.
func (ep *EventPublisher) PublishConstructCreated(path string) {
	ep.Publish(Event{
		Type:    EventTypeConstructCreated,
		Source:  "construct",
		Path:    path,
		Message: fmt.Sprintf("Construct %s created", path),
		Level:   EventLevelInfo,
	})
}

// PublishLinkMatched publishes an event for a linkable matched to a node.
func (ep *EventPublisher) PublishLinkMatched(path string, targets []string) {
	ep.Publish(Event{
		Type:    EventTypeLinkMatched,
		Source:  "construct",
		Path:    path,
		Message: fmt.Sprintf("Linkable matched node %s", path),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"targets": targets,
		},
	})
}

// PublishLinkDropped publishes an event for a linkable that matched no node.
func (ep *EventPublisher) PublishLinkDropped(targets []string) {
	ep.Publish(Event{
		Type:    EventTypeLinkDropped,
		Source:  "construct",
		Message: "Linkable matched no node in the tree",
		Level:   EventLevelWarning,
		Data: map[string]interface{}{
			"targets": targets,
		},
	})
}

// PublishTweakApplied publishes an event for an applied tweak, keyed by
// the capability tag it targeted.
func (ep *EventPublisher) PublishTweakApplied(target, action, property string) {
	ep.Publish(Event{
		Type:    EventTypeTweakApplied,
		Source:  "tweak",
		Message: fmt.Sprintf("Tweak %s applied to %s.%s", action, target, property),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"target":   target,
			"action":   action,
			"property": property,
		},
	})
}

// PublishRenderCompleted publishes an event for a completed render.
func (ep *EventPublisher) PublishRenderCompleted(entries int, duration time.Duration) {
	ep.Publish(Event{
		Type:    EventTypeRenderCompleted,
		Source:  "render",
		Message: fmt.Sprintf("Rendered %d entries", entries),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"entries":  entries,
			"duration": duration.Seconds(),
		},
	})
}

// PublishRenderFailed publishes an event for a failed render.
func (ep *EventPublisher) PublishRenderFailed(reason string) {
	ep.Publish(Event{
		Type:    EventTypeRenderFailed,
		Source:  "render",
		Message: fmt.Sprintf("Render failed: %s", reason),
		Level:   EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// Subscribe adds a new event subscriber with an optional filter.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

// AddFilter adds a global event filter.
func (ep *EventPublisher) AddFilter(filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.filters = append(ep.filters, filter)
}
