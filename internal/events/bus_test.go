package events

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(BulbStateChanged, StatePayload{ID: "bulb-1", Reachable: true, On: true, Brightness: 40, Temperature: 2700})

	assert.Equal(t, BulbStateChanged, e.Type)
	assert.False(t, e.Timestamp.IsZero())
	assert.JSONEq(t, `{"id":"bulb-1","reachable":true,"on":true,"brightness":40,"temperature":2700}`, string(e.Data))

	var data StatePayload
	require.NoError(t, e.Decode(&data))
	assert.Equal(t, "bulb-1", data.ID)
	assert.Equal(t, 40, data.Brightness)
}

func TestNewEventUnmarshalable(t *testing.T) {
	e := NewEvent(BulbUpdated, make(chan int))
	assert.Equal(t, "null", string(e.Data))
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()
	var received []Event
	var mu sync.Mutex

	unsub := bus.Subscribe(func(e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})

	bus.Publish(NewEvent(BulbDiscovered, DiscoveredPayload{IPs: []string{"10.0.0.2"}, Added: 1}))
	bus.Publish(NewEvent(BulbRemoved, BulbPayload{ID: "x"}))

	mu.Lock()
	require.Len(t, received, 2)
	assert.Equal(t, BulbDiscovered, received[0].Type)
	assert.Equal(t, BulbRemoved, received[1].Type)
	mu.Unlock()

	// Unsubscribe and verify no more events
	unsub()
	bus.Publish(NewEvent(BulbAdded, nil))

	mu.Lock()
	assert.Len(t, received, 2)
	mu.Unlock()
}

func TestBusSubscribeTypes(t *testing.T) {
	bus := NewBus()
	var got []EventType

	unsub := bus.SubscribeTypes(func(e Event) { got = append(got, e.Type) }, BulbAdded, BulbRemoved)
	defer unsub()

	bus.Publish(NewEvent(BulbStateChanged, nil))
	bus.Publish(NewEvent(BulbAdded, nil))
	bus.Publish(NewEvent(BulbUpdated, nil))
	bus.Publish(NewEvent(BulbRemoved, nil))

	assert.Equal(t, []EventType{BulbAdded, BulbRemoved}, got)
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := NewBus()
	var count1, count2 atomic.Int32

	unsub1 := bus.Subscribe(func(e Event) { count1.Add(1) })
	unsub2 := bus.Subscribe(func(e Event) { count2.Add(1) })

	bus.Publish(NewEvent(BulbStateChanged, nil))

	assert.Equal(t, int32(1), count1.Load())
	assert.Equal(t, int32(1), count2.Load())

	unsub1()
	bus.Publish(NewEvent(BulbStateChanged, nil))

	assert.Equal(t, int32(1), count1.Load())
	assert.Equal(t, int32(2), count2.Load())

	unsub2()
}

func TestBusNoSubscribers(t *testing.T) {
	bus := NewBus()
	// Should not panic
	bus.Publish(NewEvent(BulbStateChanged, nil))

	var nilBus *Bus
	nilBus.Publish(NewEvent(BulbStateChanged, nil))
}

func TestBusSatisfiesPublisher(t *testing.T) {
	var p Publisher = NewBus()
	p.Publish(NewEvent(BulbAdded, nil))
}
