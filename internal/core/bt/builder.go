package bt

import (
	"fmt"
	"strings"
	"sync"

	"github.com/verdantgames/arbor/internal/core/observability/log"
)

// NodeFactory creates a node from its configuration. Child wiring is
// handled by the builder after the factory returns.
type NodeFactory func(b *Builder, cfg *NodeConfig) (Node, error)

// Builder constructs behavior trees from declarative configs. Actions
// and predicates are code; configs reference them by registered name.
type Builder struct {
	mu         sync.RWMutex
	factories  map[string]NodeFactory
	actions    map[string]ActionFunc
	predicates map[string]Predicate
	logger     log.Log
}

// NewBuilder creates a builder with the built-in node types registered
func NewBuilder(logger log.Log) *Builder {
	b := &Builder{
		factories:  make(map[string]NodeFactory),
		actions:    make(map[string]ActionFunc),
		predicates: make(map[string]Predicate),
		logger:     logger,
	}
	b.registerDefaults()
	return b
}

func (b *Builder) registerDefaults() {
	b.factories["Sequence"] = func(_ *Builder, cfg *NodeConfig) (Node, error) {
		return NewSequenceNode(cfg.Name), nil
	}
	b.factories["Selector"] = func(_ *Builder, cfg *NodeConfig) (Node, error) {
		return NewSelectorNode(cfg.Name), nil
	}
	b.factories["Parallel"] = buildParallel
	b.factories["Inverter"] = func(_ *Builder, cfg *NodeConfig) (Node, error) {
		return NewInverterNode(cfg.Name), nil
	}
	b.factories["AlwaysSucceed"] = func(_ *Builder, cfg *NodeConfig) (Node, error) {
		return NewAlwaysSucceedNode(cfg.Name), nil
	}
	b.factories["AlwaysFail"] = func(_ *Builder, cfg *NodeConfig) (Node, error) {
		return NewAlwaysFailNode(cfg.Name), nil
	}
	b.factories["Repeater"] = buildRepeater
	b.factories["Conditional"] = buildConditional
	b.factories["Action"] = buildAction
	b.factories["Wait"] = buildWait
	b.factories["Log"] = func(b *Builder, cfg *NodeConfig) (Node, error) {
		message, ok := cfg.StringParam("message")
		if !ok {
			message = cfg.Name
		}
		return NewLogNode(cfg.Name, message, b.logger), nil
	}
}

// RegisterNodeType registers a custom node factory
func (b *Builder) RegisterNodeType(nodeType string, factory NodeFactory) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.factories[nodeType] = factory
}

// RegisterAction binds a name usable from Action node configs
func (b *Builder) RegisterAction(name string, fn ActionFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions[name] = fn
}

// RegisterPredicate binds a name usable from Conditional node configs
func (b *Builder) RegisterPredicate(name string, fn Predicate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.predicates[name] = fn
}

// RegisteredTypes returns all known node type names
func (b *Builder) RegisteredTypes() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	types := make([]string, 0, len(b.factories))
	for t := range b.factories {
		types = append(types, t)
	}
	return types
}

// Build creates the root node of a behavior tree from configuration
func (b *Builder) Build(cfg *TreeConfig) (Node, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return b.buildNode(cfg.Root)
}

// BuildTree builds the root and wraps it in a controller, seeding the
// blackboard with the config's variables
func (b *Builder) BuildTree(owner any, cfg *TreeConfig) (*Tree, error) {
	root, err := b.Build(cfg)
	if err != nil {
		return nil, err
	}
	tree := NewTree(owner, root)
	for k, v := range cfg.Variables {
		tree.Blackboard().Set(k, v)
	}
	return tree, nil
}

func (b *Builder) buildNode(cfg *NodeConfig) (Node, error) {
	b.mu.RLock()
	factory, ok := b.factories[cfg.Type]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", cfg.Type)
	}

	node, err := factory(b, cfg)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", cfg.Name, err)
	}

	if composite, ok := node.(Composite); ok {
		for _, childCfg := range cfg.Children {
			child, err := b.buildNode(childCfg)
			if err != nil {
				return nil, err
			}
			composite.AddChild(child)
		}
	}

	if decorator, ok := node.(Decorator); ok && cfg.Child != nil {
		child, err := b.buildNode(cfg.Child)
		if err != nil {
			return nil, err
		}
		decorator.SetChild(child)
	}

	return node, nil
}

func buildParallel(_ *Builder, cfg *NodeConfig) (Node, error) {
	success, err := parsePolicy(cfg, "success_policy", RequireAll)
	if err != nil {
		return nil, err
	}
	failure, err := parsePolicy(cfg, "failure_policy", RequireOne)
	if err != nil {
		return nil, err
	}
	return NewParallelNode(cfg.Name, success, failure), nil
}

func parsePolicy(cfg *NodeConfig, key string, fallback ParallelPolicy) (ParallelPolicy, error) {
	s, ok := cfg.StringParam(key)
	if !ok {
		return fallback, nil
	}
	switch strings.ToLower(s) {
	case "one", "any", "require_one":
		return RequireOne, nil
	case "all", "require_all":
		return RequireAll, nil
	default:
		return fallback, fmt.Errorf("unknown %s: %q", key, s)
	}
}

func buildRepeater(_ *Builder, cfg *NodeConfig) (Node, error) {
	times, ok := cfg.IntParam("times")
	if !ok {
		times = -1
	}
	return NewRepeaterNode(cfg.Name, times), nil
}

func buildConditional(b *Builder, cfg *NodeConfig) (Node, error) {
	name, ok := cfg.StringParam("predicate")
	if !ok {
		return nil, fmt.Errorf("predicate param is required")
	}
	b.mu.RLock()
	predicate, ok := b.predicates[name]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown predicate: %s", name)
	}

	mode := AbortNone
	if s, ok := cfg.StringParam("abort"); ok {
		switch strings.ToLower(s) {
		case "none":
		case "self":
			mode = AbortSelf
		case "lower_priority", "lower-priority":
			mode = AbortLowerPriority
		case "both":
			mode = AbortBoth
		default:
			return nil, fmt.Errorf("unknown abort mode: %q", s)
		}
	}
	return NewConditionalNode(cfg.Name, predicate, mode), nil
}

func buildAction(b *Builder, cfg *NodeConfig) (Node, error) {
	name, ok := cfg.StringParam("action")
	if !ok {
		return nil, fmt.Errorf("action param is required")
	}
	b.mu.RLock()
	fn, ok := b.actions[name]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown action: %s", name)
	}
	return NewActionNode(cfg.Name, fn), nil
}

func buildWait(_ *Builder, cfg *NodeConfig) (Node, error) {
	duration, ok := cfg.DurationParam("duration")
	if !ok {
		return nil, fmt.Errorf("duration param is required")
	}
	return NewWaitNode(cfg.Name, duration), nil
}
