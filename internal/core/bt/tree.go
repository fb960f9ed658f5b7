package bt

import (
	"time"
)

// Lifecycle is the tree controller's own state machine
type Lifecycle int

const (
	TreeCreated Lifecycle = iota
	TreeRunning
	TreeStopped
)

func (l Lifecycle) String() string {
	switch l {
	case TreeCreated:
		return "Created"
	case TreeRunning:
		return "Running"
	case TreeStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Tree owns a root node and the blackboard shared by its subtree, and
// drives execution one Tick at a time. Ticks are strictly synchronous: a
// call returns only after the whole depth-first traversal finished.
type Tree struct {
	owner      any
	root       Node
	blackboard Blackboard
	lifecycle  Lifecycle
	current    NodeState
}

// NewTree creates a tree with its own blackboard
func NewTree(owner any, root Node) *Tree {
	return &Tree{
		owner:      owner,
		root:       root,
		blackboard: NewBlackboard(),
	}
}

// NewTreeWithBlackboard creates a tree over an externally supplied
// blackboard, e.g. a shared FSM-backed store
func NewTreeWithBlackboard(owner any, root Node, bb Blackboard) *Tree {
	if bb == nil {
		bb = NewBlackboard()
	}
	return &Tree{
		owner:      owner,
		root:       root,
		blackboard: bb,
	}
}

// Owner returns the opaque owner handle
func (t *Tree) Owner() any { return t.owner }

// Root returns the root node
func (t *Tree) Root() Node { return t.root }

// Blackboard returns the shared blackboard. Its contents survive
// Restart; only node-local per-run state is discarded.
func (t *Tree) Blackboard() Blackboard { return t.blackboard }

// Lifecycle returns the controller state
func (t *Tree) Lifecycle() Lifecycle { return t.lifecycle }

// CurrentState returns the last state produced by the root
func (t *Tree) CurrentState() NodeState { return t.current }

// IsRunning reports whether the tree is mid-run
func (t *Tree) IsRunning() bool { return t.lifecycle == TreeRunning }

// Start transitions Created/Stopped to Running. Per-run node state is
// cleared; the root's start hook fires on its first Execute.
func (t *Tree) Start() {
	if t.lifecycle == TreeRunning {
		return
	}
	if t.root != nil {
		t.root.Reset()
	}
	t.lifecycle = TreeRunning
	t.current = StateRunning
}

// Tick drives one evaluation pass. It is a no-op unless the tree is
// Running; calling it before Start is not an error.
func (t *Tree) Tick(dt time.Duration) NodeState {
	if t.lifecycle != TreeRunning {
		return t.current
	}
	if t.root == nil {
		t.current = StateFailure
		t.lifecycle = TreeStopped
		return t.current
	}

	ctx := &ExecutionContext{
		Owner:      t.owner,
		Blackboard: t.blackboard,
		DeltaTime:  dt,
	}

	t.current = t.root.Execute(ctx)
	if t.current != StateRunning {
		t.lifecycle = TreeStopped
	}
	return t.current
}

// Stop aborts the running subtree and transitions to Stopped. By the
// time it returns the subtree is terminated.
func (t *Tree) Stop() {
	if t.lifecycle != TreeRunning {
		return
	}
	if t.root != nil {
		t.root.Abort()
	}
	t.lifecycle = TreeStopped
}

// Restart stops then immediately starts, preserving blackboard contents
func (t *Tree) Restart() {
	t.Stop()
	t.Start()
}
