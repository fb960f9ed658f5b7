package fsm

import (
	"sync"

	"github.com/verdantgames/arbor/internal/core/bt"
)

var _ bt.Blackboard = (*StateBlackboard)(nil)

// StateBlackboard adapts a Machine's key store to the bt.Blackboard
// contract so a behavior tree can share state with an FSM-driven
// subsystem. Trees built over it cannot tell it apart from the primary
// map blackboard.
//
// Clear is a deliberate no-op: the underlying machine has no remove-all
// operation, and wiping keys other subsystems rely on would be worse
// than diverging from the primary Clear semantics. Callers that need a
// true Clear should not share a machine-backed store.
type StateBlackboard struct {
	machine *Machine

	subMu  sync.Mutex
	subs   map[int]bt.ChangeFunc
	nextID int
}

// NewStateBlackboard wraps a machine as a blackboard backing store
func NewStateBlackboard(machine *Machine) *StateBlackboard {
	return &StateBlackboard{
		machine: machine,
		subs:    make(map[int]bt.ChangeFunc),
	}
}

// Machine returns the underlying state machine
func (sb *StateBlackboard) Machine() *Machine { return sb.machine }

// Get retrieves a value from the machine's key store
func (sb *StateBlackboard) Get(key string) (any, bool) {
	return sb.machine.Get(key)
}

// Set writes through to the machine and notifies subscribers
func (sb *StateBlackboard) Set(key string, value any) {
	sb.machine.Set(key, value)

	sb.subMu.Lock()
	fns := make([]bt.ChangeFunc, 0, len(sb.subs))
	for _, fn := range sb.subs {
		fns = append(fns, fn)
	}
	sb.subMu.Unlock()

	for _, fn := range fns {
		fn(key, value)
	}
}

// Has reports whether the key holds a non-nil value
func (sb *StateBlackboard) Has(key string) bool {
	v, ok := sb.machine.Get(key)
	return ok && v != nil
}

// Delete removes a key from the machine's store
func (sb *StateBlackboard) Delete(key string) {
	sb.machine.Delete(key)
}

// Clear does nothing; see the type comment for why.
func (sb *StateBlackboard) Clear() {}

// Keys returns the machine's value keys
func (sb *StateBlackboard) Keys() []string {
	return sb.machine.Keys()
}

// Subscribe registers a change callback and returns its cancel func
func (sb *StateBlackboard) Subscribe(fn bt.ChangeFunc) func() {
	sb.subMu.Lock()
	id := sb.nextID
	sb.nextID++
	sb.subs[id] = fn
	sb.subMu.Unlock()

	return func() {
		sb.subMu.Lock()
		delete(sb.subs, id)
		sb.subMu.Unlock()
	}
}
