// Package events provides an in-process event bus that carries bulb changes from the
// controller, monitor and discovery loop to the WebSocket hub.
package events

import (
	"encoding/json"
	"slices"
	"sync"
	"time"
)

// EventType identifies the kind of event.
type EventType string

const (
	BulbStateChanged EventType = "bulb.state_changed"
	BulbDiscovered   EventType = "bulb.discovered"
	BulbAdded        EventType = "bulb.added"
	BulbRemoved      EventType = "bulb.removed"
	BulbUpdated      EventType = "bulb.updated"
)

// Event is a single event emitted by a producer.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent creates an Event, marshaling data to JSON.
// If marshaling fails the Data field is set to null.
func NewEvent(t EventType, data any) Event {
	raw, err := json.Marshal(data)
	if err != nil {
		raw = []byte("null")
	}
	return Event{
		Type:      t,
		Timestamp: time.Now(),
		Data:      raw,
	}
}

// Decode unmarshals the event payload into v
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// StatePayload accompanies BulbStateChanged. Reachable is false when the bulb did not
// answer; the remaining fields are then the last values sent to it, if any.
type StatePayload struct {
	ID          string `json:"id"`
	Reachable   bool   `json:"reachable"`
	On          bool   `json:"on"`
	Brightness  int    `json:"brightness"`
	Temperature int    `json:"temperature"`
	Swatch      string `json:"swatch,omitempty"`
}

// DiscoveredPayload accompanies BulbDiscovered
type DiscoveredPayload struct {
	IPs   []string `json:"ips"`
	Added int      `json:"added"`
}

// BulbPayload accompanies BulbAdded, BulbRemoved and BulbUpdated
type BulbPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IP           string `json:"ip"`
	ShowInWidget bool   `json:"show_in_widget"`
}

// Publisher is the producer side of a Bus
type Publisher interface {
	Publish(Event)
}

// SubscriberFunc is a callback invoked for each event.
// Implementations must not block; slow subscribers should buffer internally.
type SubscriberFunc func(Event)

// Bus is a simple synchronous fan-out event bus.
// Publishing blocks until all subscribers have been called, so subscribers
// should be fast (e.g., write to a channel).
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]SubscriberFunc
	nextID      int
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[int]SubscriberFunc),
	}
}

// Subscribe registers a callback and returns an unsubscribe function.
func (b *Bus) Subscribe(fn SubscriberFunc) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}

// SubscribeTypes registers a callback that only sees the listed event types
func (b *Bus) SubscribeTypes(fn SubscriberFunc, types ...EventType) func() {
	return b.Subscribe(func(e Event) {
		if slices.Contains(types, e.Type) {
			fn(e)
		}
	})
}

// Publish sends an event to all current subscribers. A nil bus drops the event.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	// Snapshot subscriber list under read lock so we don't hold it during callbacks.
	subs := make([]SubscriberFunc, 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}
