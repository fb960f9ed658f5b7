package bt

// BaseNode carries the bookkeeping shared by every node: name, type and
// the started/last-state lifecycle that backs the OnStart-once contract.
type BaseNode struct {
	name     string
	nodeType string
	state    NodeState
	started  bool
}

// NewBaseNode creates a new base node
func NewBaseNode(name, nodeType string) *BaseNode {
	return &BaseNode{
		name:     name,
		nodeType: nodeType,
	}
}

// Name returns the node name
func (b *BaseNode) Name() string { return b.name }

// Type returns the node type
func (b *BaseNode) Type() string { return b.nodeType }

// State returns the last state produced by Execute
func (b *BaseNode) State() NodeState { return b.state }

// begin reports whether this Execute is the first since the node was
// constructed, reset or aborted. Concrete nodes do their OnStart work
// when it returns true.
func (b *BaseNode) begin() bool {
	if b.started {
		return false
	}
	b.started = true
	return true
}

// finish records the tick result. A terminal state rearms begin so the
// next Execute starts a fresh run.
func (b *BaseNode) finish(s NodeState) NodeState {
	b.state = s
	if s != StateRunning {
		b.started = false
	}
	return s
}

// Abort clears the run-in-progress marker. Nodes owning children wrap
// this to propagate into the active subtree first.
func (b *BaseNode) Abort() {
	b.started = false
	b.state = StateFailure
}

// Reset clears per-run bookkeeping
func (b *BaseNode) Reset() {
	b.started = false
	b.state = StateRunning
}
