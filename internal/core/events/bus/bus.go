package bus

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Change describes one blackboard write. Agents publish these so other
// subsystems can mirror state without reaching into the tree.
type Change struct {
	Agent string
	Key   string
	Value any
	At    time.Time
}

// Handler consumes published changes. Delivery is synchronous and in
// publish order; handlers must not block.
type Handler func(Change)

type subscription struct {
	prefix  string
	handler Handler
}

// Bus is an in-memory change bus. Subscribers filter by key prefix; an
// empty prefix receives everything.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]subscription
}

// New creates a new change bus
func New() *Bus {
	return &Bus{subs: make(map[string]subscription)}
}

// Subscribe registers a handler for keys with the given prefix and
// returns the subscription id.
func (b *Bus) Subscribe(prefix string, h Handler) string {
	id := uuid.NewString()
	b.mu.Lock()
	b.subs[id] = subscription{prefix: prefix, handler: h}
	b.mu.Unlock()
	return id
}

// Unsubscribe removes a subscription by id
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[id]; !ok {
		return false
	}
	delete(b.subs, id)
	return true
}

// Publish delivers a change to every matching subscriber
func (b *Bus) Publish(c Change) {
	if c.At.IsZero() {
		c.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.prefix == "" || strings.HasPrefix(c.Key, s.prefix) {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(c)
	}
}

// SubscriberCount returns the number of active subscriptions
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
