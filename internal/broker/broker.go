package broker

import (
	"sync"

	"github.com/google/uuid"

	"github.com/oshokin/speech-timer/internal/domain/timer"
	"github.com/oshokin/speech-timer/internal/engine"
)

// Broker distributes engine notifications to registered subscribers.
// Delivery order across subscribers is unspecified; every subscriber
// sees each notification exactly once.
type Broker struct {
	// mu protects subscribers.
	mu sync.RWMutex
	// subscribers maps subscription IDs to listeners.
	subscribers map[string]engine.Listener
}

// Subscription is the handle returned by Subscribe. Unsubscribing
// through the handle makes listener lifetime explicit.
type Subscription struct {
	// id keys the listener inside the broker.
	id string
	// broker owns the subscription.
	broker *Broker
}

// New creates an empty broker.
func New() *Broker {
	return &Broker{
		subscribers: make(map[string]engine.Listener),
	}
}

// Subscribe registers a listener and returns its handle.
func (b *Broker) Subscribe(listener engine.Listener) *Subscription {
	id := uuid.NewString()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[id] = listener

	return &Subscription{
		id:     id,
		broker: b,
	}
}

// Unsubscribe removes the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()

	delete(s.broker.subscribers, s.id)
}

// Len returns the number of active subscribers.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subscribers)
}

// OnTick fans the tick snapshot out to every subscriber.
func (b *Broker) OnTick(snapshot timer.Snapshot) {
	for _, listener := range b.listeners() {
		listener.OnTick(snapshot)
	}
}

// OnStatusChange fans the transition out to every subscriber.
func (b *Broker) OnStatusChange(previous, current timer.Status) {
	for _, listener := range b.listeners() {
		listener.OnStatusChange(previous, current)
	}
}

// OnFinish fans the final snapshot out to every subscriber.
func (b *Broker) OnFinish(snapshot timer.Snapshot) {
	for _, listener := range b.listeners() {
		listener.OnFinish(snapshot)
	}
}

// listeners snapshots the subscriber set so delivery happens outside
// the lock and a subscriber may unsubscribe from inside a callback.
func (b *Broker) listeners() []engine.Listener {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]engine.Listener, 0, len(b.subscribers))
	for _, listener := range b.subscribers {
		result = append(result, listener)
	}

	return result
}
