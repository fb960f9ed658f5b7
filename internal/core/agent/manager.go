package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verdantgames/arbor/internal/core/bt"
	"github.com/verdantgames/arbor/internal/core/observability/log"
)

// Config describes one agent: its tree plus runtime settings
type Config struct {
	Name        string         `json:"name" yaml:"name"`
	Loop        bool           `json:"loop" yaml:"loop"`
	InitialData map[string]any `json:"initial_data,omitempty" yaml:"initial_data,omitempty"`
	Tree        *bt.TreeConfig `json:"tree" yaml:"tree"`
}

// Validate validates the agent configuration
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("agent name is required")
	}
	if c.Tree == nil {
		return fmt.Errorf("agent %s: tree is required", c.Name)
	}
	return c.Tree.Validate()
}

// Manager owns a set of agents and updates them together. Each agent's
// tree stays single-threaded; agents never share blackboards through
// the manager, which is what makes the concurrent update sound.
type Manager struct {
	mu     sync.RWMutex
	agents map[string]*Agent
	logger log.Log
}

// NewManager creates an empty agent manager
func NewManager(logger log.Log) *Manager {
	return &Manager{
		agents: make(map[string]*Agent),
		logger: logger,
	}
}

// Create builds an agent from config using the given tree builder
func (m *Manager) Create(cfg *Config, builder *bt.Builder, opts ...Option) (*Agent, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, err := builder.Build(cfg.Tree)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", cfg.Name, err)
	}

	if cfg.Loop {
		opts = append(opts, WithLoop())
	}
	a := New(cfg.Name, root, opts...)
	for k, v := range cfg.Tree.Variables {
		a.Blackboard().Set(k, v)
	}
	for k, v := range cfg.InitialData {
		a.Blackboard().Set(k, v)
	}

	m.Add(a)
	if m.logger != nil {
		m.logger.Info("agent created",
			log.String("agent", a.ID()),
			log.String("name", a.Name()),
			log.Uint64("tree_fingerprint", cfg.Tree.Fingerprint()),
		)
	}
	return a, nil
}

// Add registers an existing agent
func (m *Manager) Add(a *Agent) {
	m.mu.Lock()
	m.agents[a.ID()] = a
	m.mu.Unlock()
}

// Get retrieves an agent by id
func (m *Manager) Get(id string) (*Agent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[id]
	return a, ok
}

// Remove closes and removes an agent by id
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	a, ok := m.agents[id]
	if ok {
		delete(m.agents, id)
	}
	m.mu.Unlock()

	if ok {
		a.Close()
	}
	return ok
}

// List returns all agents sorted by name for stable iteration
func (m *Manager) List() []*Agent {
	m.mu.RLock()
	agents := make([]*Agent, 0, len(m.agents))
	for _, a := range m.agents {
		agents = append(agents, a)
	}
	m.mu.RUnlock()

	sort.Slice(agents, func(i, j int) bool { return agents[i].Name() < agents[j].Name() })
	return agents
}

// Count returns the number of registered agents
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.agents)
}

// UpdateAll ticks every agent concurrently and waits for the slowest.
// Each agent is still strictly single-threaded within its own tree.
func (m *Manager) UpdateAll(ctx context.Context, dt time.Duration) error {
	agents := m.List()

	g, _ := errgroup.WithContext(ctx)
	for _, a := range agents {
		a := a
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a.Update(dt)
			return nil
		})
	}
	return g.Wait()
}

// Snapshots captures every agent's state for inspection tooling
func (m *Manager) Snapshots() []Snapshot {
	agents := m.List()
	snaps := make([]Snapshot, 0, len(agents))
	for _, a := range agents {
		snaps = append(snaps, a.Snapshot())
	}
	return snaps
}

// StopAll aborts every agent's running subtree
func (m *Manager) StopAll() {
	for _, a := range m.List() {
		a.Stop()
	}
}
