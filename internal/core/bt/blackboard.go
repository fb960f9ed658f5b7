package bt

import (
	"sync"
	"time"
)

// ChangeFunc receives (key, new value) on every blackboard write. It is
// the seam external systems use to mirror state.
type ChangeFunc func(key string, value any)

// Blackboard is the shared key/value surface visible to every node of a
// tree. Alternate backing stores (an FSM bridge, for example) implement
// the same contract; the tree never knows which one it has.
type Blackboard interface {
	// Get retrieves a value by key. Returns (nil, false) if absent.
	Get(key string) (any, bool)
	// Set assigns a value and notifies subscribers.
	Set(key string, value any)
	// Has reports whether the key holds a non-nil value.
	Has(key string) bool
	// Delete removes a key.
	Delete(key string)
	// Clear removes all keys. Adapter implementations may document this
	// as a no-op when the backing store has no remove-all operation.
	Clear()
	// Keys returns a snapshot of existing keys.
	Keys() []string
	// Subscribe registers a change callback and returns its cancel func.
	Subscribe(fn ChangeFunc) func()
}

// MapBlackboard is the primary in-memory Blackboard implementation
type MapBlackboard struct {
	mu   sync.RWMutex
	data map[string]any

	subMu  sync.Mutex
	subs   map[int]ChangeFunc
	nextID int
}

// NewBlackboard creates a new empty map-backed blackboard
func NewBlackboard() *MapBlackboard {
	return &MapBlackboard{
		data: make(map[string]any),
		subs: make(map[int]ChangeFunc),
	}
}

// Get retrieves a value from the blackboard
func (bb *MapBlackboard) Get(key string) (any, bool) {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	value, exists := bb.data[key]
	return value, exists
}

// Set stores a value and notifies subscribers synchronously, so a write
// is observable before the next sibling executes.
func (bb *MapBlackboard) Set(key string, value any) {
	bb.mu.Lock()
	bb.data[key] = value
	bb.mu.Unlock()

	bb.notify(key, value)
}

// Has reports whether the key holds a non-nil value
func (bb *MapBlackboard) Has(key string) bool {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	value, exists := bb.data[key]
	return exists && value != nil
}

// Delete removes a key from the blackboard
func (bb *MapBlackboard) Delete(key string) {
	bb.mu.Lock()
	delete(bb.data, key)
	bb.mu.Unlock()
}

// Clear removes all data from the blackboard
func (bb *MapBlackboard) Clear() {
	bb.mu.Lock()
	bb.data = make(map[string]any)
	bb.mu.Unlock()
}

// Keys returns all keys in the blackboard
func (bb *MapBlackboard) Keys() []string {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	keys := make([]string, 0, len(bb.data))
	for key := range bb.data {
		keys = append(keys, key)
	}
	return keys
}

// Subscribe registers a change callback and returns its cancel func
func (bb *MapBlackboard) Subscribe(fn ChangeFunc) func() {
	bb.subMu.Lock()
	id := bb.nextID
	bb.nextID++
	bb.subs[id] = fn
	bb.subMu.Unlock()

	return func() {
		bb.subMu.Lock()
		delete(bb.subs, id)
		bb.subMu.Unlock()
	}
}

func (bb *MapBlackboard) notify(key string, value any) {
	bb.subMu.Lock()
	fns := make([]ChangeFunc, 0, len(bb.subs))
	for _, fn := range bb.subs {
		fns = append(fns, fn)
	}
	bb.subMu.Unlock()

	for _, fn := range fns {
		fn(key, value)
	}
}

// Value retrieves a typed value from any blackboard. An absent key or a
// type mismatch yields the zero value and false.
func Value[T any](bb Blackboard, key string) (T, bool) {
	var zero T
	v, ok := bb.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// GetString retrieves a string value
func GetString(bb Blackboard, key string) (string, bool) {
	return Value[string](bb, key)
}

// GetInt retrieves an int value, coercing float64 for values that came
// in through JSON/YAML configs
func GetInt(bb Blackboard, key string) (int, bool) {
	v, ok := bb.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// GetFloat retrieves a float64 value, coercing int
func GetFloat(bb Blackboard, key string) (float64, bool) {
	v, ok := bb.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// GetBool retrieves a boolean value
func GetBool(bb Blackboard, key string) (bool, bool) {
	return Value[bool](bb, key)
}

// GetDuration retrieves a duration value, parsing strings like "250ms"
func GetDuration(bb Blackboard, key string) (time.Duration, bool) {
	v, ok := bb.Get(key)
	if !ok {
		return 0, false
	}
	switch d := v.(type) {
	case time.Duration:
		return d, true
	case string:
		parsed, err := time.ParseDuration(d)
		return parsed, err == nil
	case int:
		return time.Duration(d), true
	case int64:
		return time.Duration(d), true
	case float64:
		return time.Duration(d), true
	default:
		return 0, false
	}
}
