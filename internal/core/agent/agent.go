package agent

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verdantgames/arbor/internal/core/bt"
	"github.com/verdantgames/arbor/internal/core/events/bus"
)

// Agent binds one behavior tree to an owner identity. The engine side
// stays single-threaded: all mutation happens inside Update, and the
// mutex only guards cross-goroutine reads (snapshots, the debug server).
type Agent struct {
	mu   sync.RWMutex
	id   string
	name string
	tree *bt.Tree

	active bool
	// loop restarts the tree once its root resolves, the usual mode for
	// game agents whose behavior repeats forever
	loop bool

	unsubscribe func()
}

// Option configures an agent at construction time
type Option func(*Agent)

// WithLoop makes the agent restart its tree whenever the root resolves
func WithLoop() Option {
	return func(a *Agent) { a.loop = true }
}

// WithBus mirrors every blackboard write of this agent onto the bus
func WithBus(b *bus.Bus) Option {
	return func(a *Agent) {
		a.unsubscribe = a.tree.Blackboard().Subscribe(func(key string, value any) {
			b.Publish(bus.Change{Agent: a.id, Key: key, Value: value})
		})
	}
}

// New creates an agent owning a tree built over the given root node
func New(name string, root bt.Node, opts ...Option) *Agent {
	a := &Agent{
		id:     uuid.NewString(),
		name:   name,
		active: true,
	}
	a.tree = bt.NewTree(a, root)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewWithTree creates an agent over an already-built tree, e.g. one
// sharing an FSM-backed blackboard
func NewWithTree(name string, tree *bt.Tree, opts ...Option) *Agent {
	a := &Agent{
		id:     uuid.NewString(),
		name:   name,
		tree:   tree,
		active: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the agent's unique identifier
func (a *Agent) ID() string { return a.id }

// Name returns the agent's name
func (a *Agent) Name() string { return a.name }

// Tree returns the agent's tree controller
func (a *Agent) Tree() *bt.Tree { return a.tree }

// Blackboard returns the tree's blackboard
func (a *Agent) Blackboard() bt.Blackboard { return a.tree.Blackboard() }

// IsActive returns whether the agent is updated
func (a *Agent) IsActive() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.active
}

// SetActive enables or disables updates
func (a *Agent) SetActive(active bool) {
	a.mu.Lock()
	a.active = active
	a.mu.Unlock()
}

// Update drives one tick of the agent's tree
func (a *Agent) Update(dt time.Duration) bt.NodeState {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.active {
		return a.tree.CurrentState()
	}

	switch a.tree.Lifecycle() {
	case bt.TreeCreated:
		a.tree.Start()
	case bt.TreeStopped:
		if !a.loop {
			return a.tree.CurrentState()
		}
		a.tree.Start()
	}

	return a.tree.Tick(dt)
}

// Stop aborts the agent's running subtree
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tree.Stop()
}

// Close stops the agent and detaches its bus subscription
func (a *Agent) Close() {
	a.Stop()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Snapshot is a read-only view of an agent for inspection tooling
type Snapshot struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Active    bool           `json:"active"`
	Lifecycle string         `json:"lifecycle"`
	State     string         `json:"state"`
	Data      map[string]any `json:"data"`
}

// Snapshot captures the agent's current state and blackboard contents
func (a *Agent) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	bb := a.tree.Blackboard()
	data := make(map[string]any)
	for _, key := range bb.Keys() {
		if v, ok := bb.Get(key); ok {
			data[key] = v
		}
	}

	return Snapshot{
		ID:        a.id,
		Name:      a.name,
		Active:    a.active,
		Lifecycle: a.tree.Lifecycle().String(),
		State:     a.tree.CurrentState().String(),
		Data:      data,
	}
}
