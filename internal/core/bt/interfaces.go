package bt

import (
	"time"
)

// NodeState represents the execution result of a behavior tree node
type NodeState int

const (
	StateRunning NodeState = iota
	StateSuccess
	StateFailure
)

func (s NodeState) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateSuccess:
		return "Success"
	case StateFailure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// AbortMode declares whether a node may interrupt running subtrees.
// It is attached primarily to conditional decorators and consulted by
// composites during the priority-interruption pre-scan.
type AbortMode uint8

const (
	AbortNone AbortMode = 0
	// AbortSelf allows the node to terminate its own running subtree
	// when its condition stops holding.
	AbortSelf AbortMode = 1 << 0
	// AbortLowerPriority allows the node to interrupt lower-priority
	// siblings that were selected after it.
	AbortLowerPriority AbortMode = 1 << 1
	AbortBoth          AbortMode = AbortSelf | AbortLowerPriority
)

// ExecutionContext is the per-tick bundle threaded through Execute calls.
// It is never retained beyond the tick that created it.
type ExecutionContext struct {
	// Owner is the opaque handle of whoever this behavior belongs to.
	// The engine passes it through untouched.
	Owner      any
	Blackboard Blackboard
	DeltaTime  time.Duration
}

// Node is the polymorphic unit of execution in a behavior tree
type Node interface {
	// Execute runs one tick of the node and returns its state
	Execute(ctx *ExecutionContext) NodeState

	// Abort force-terminates the node's running subtree. By the time it
	// returns the subtree is guaranteed terminated.
	Abort()

	// Reset clears per-run bookkeeping recursively
	Reset()

	// State returns the last state produced by Execute
	State() NodeState

	// Name returns the node name/identifier
	Name() string

	// Type returns the node type
	Type() string
}

// Composite is a node that owns an ordered list of children.
// Insertion order is priority order, index 0 is highest.
type Composite interface {
	Node

	AddChild(child Node)
	Children() []Node
}

// Decorator is a node that owns exactly one child
type Decorator interface {
	Node

	SetChild(child Node)
	Child() Node
}

// ConditionAborter is the capability a composite probes for during its
// abort scan: does this child support conditional interruption, and does
// its condition currently hold.
type ConditionAborter interface {
	AbortMode() AbortMode
	CheckCondition(ctx *ExecutionContext) bool
}
