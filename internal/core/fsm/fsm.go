package fsm

import (
	"fmt"
	"sync"
)

// Machine is a minimal finite-state-machine state holder: a current
// state, an optional transition table, and a named key/value store that
// other subsystems read and write. The behavior-tree engine treats it as
// opaque and only ever reaches it through the blackboard bridge.
type Machine struct {
	mu          sync.RWMutex
	current     string
	transitions map[string]map[string]struct{}
	values      map[string]any
}

// NewMachine creates a machine in the given initial state
func NewMachine(initial string) *Machine {
	return &Machine{
		current:     initial,
		transitions: make(map[string]map[string]struct{}),
		values:      make(map[string]any),
	}
}

// AddTransition allows moving from one state to another
func (m *Machine) AddTransition(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transitions[from] == nil {
		m.transitions[from] = make(map[string]struct{})
	}
	m.transitions[from][to] = struct{}{}
}

// State returns the current state
func (m *Machine) State() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// TransitionTo moves to the target state. A machine with no transition
// table accepts any target.
func (m *Machine) TransitionTo(state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.transitions) > 0 {
		allowed, ok := m.transitions[m.current]
		if !ok {
			return fmt.Errorf("no transitions from state %q", m.current)
		}
		if _, ok = allowed[state]; !ok {
			return fmt.Errorf("transition %q -> %q is not allowed", m.current, state)
		}
	}
	m.current = state
	return nil
}

// Set stores a named value on the machine
func (m *Machine) Set(key string, value any) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

// Get retrieves a named value from the machine
func (m *Machine) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Delete removes a named value. The machine has no remove-all operation.
func (m *Machine) Delete(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

// Keys returns a snapshot of the machine's value keys
func (m *Machine) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}
