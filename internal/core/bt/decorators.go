package bt

// Decorator nodes: Inverter, AlwaysSucceed, AlwaysFail, Repeater, Conditional

// InverterNode flips Success and Failure; Running passes through.
type InverterNode struct {
	*BaseNode
	child Node
}

// NewInverterNode creates a new inverter node
func NewInverterNode(name string) *InverterNode {
	return &InverterNode{BaseNode: NewBaseNode(name, "Inverter")}
}

// Execute runs the inverter logic
func (in *InverterNode) Execute(ctx *ExecutionContext) NodeState {
	in.begin()
	if in.child == nil {
		return in.finish(StateFailure)
	}

	switch in.child.Execute(ctx) {
	case StateSuccess:
		return in.finish(StateFailure)
	case StateFailure:
		return in.finish(StateSuccess)
	default:
		return in.finish(StateRunning)
	}
}

// SetChild sets the child node
func (in *InverterNode) SetChild(child Node) { in.child = child }

// Child returns the child node
func (in *InverterNode) Child() Node { return in.child }

// Abort force-terminates the child
func (in *InverterNode) Abort() {
	if in.child != nil {
		in.child.Abort()
	}
	in.BaseNode.Abort()
}

// Reset resets the inverter and its child
func (in *InverterNode) Reset() {
	in.BaseNode.Reset()
	if in.child != nil {
		in.child.Reset()
	}
}

// AlwaysSucceedNode forces Success once its child reaches a terminal
// state. The child still runs for its side effects.
type AlwaysSucceedNode struct {
	*BaseNode
	child Node
}

// NewAlwaysSucceedNode creates a new always-succeed node
func NewAlwaysSucceedNode(name string) *AlwaysSucceedNode {
	return &AlwaysSucceedNode{BaseNode: NewBaseNode(name, "AlwaysSucceed")}
}

// Execute runs the child and maps any terminal result to Success
func (an *AlwaysSucceedNode) Execute(ctx *ExecutionContext) NodeState {
	an.begin()
	if an.child == nil {
		return an.finish(StateFailure)
	}
	if an.child.Execute(ctx) == StateRunning {
		return an.finish(StateRunning)
	}
	return an.finish(StateSuccess)
}

// SetChild sets the child node
func (an *AlwaysSucceedNode) SetChild(child Node) { an.child = child }

// Child returns the child node
func (an *AlwaysSucceedNode) Child() Node { return an.child }

// Abort force-terminates the child
func (an *AlwaysSucceedNode) Abort() {
	if an.child != nil {
		an.child.Abort()
	}
	an.BaseNode.Abort()
}

// Reset resets the node and its child
func (an *AlwaysSucceedNode) Reset() {
	an.BaseNode.Reset()
	if an.child != nil {
		an.child.Reset()
	}
}

// AlwaysFailNode forces Failure once its child reaches a terminal state.
type AlwaysFailNode struct {
	*BaseNode
	child Node
}

// NewAlwaysFailNode creates a new always-fail node
func NewAlwaysFailNode(name string) *AlwaysFailNode {
	return &AlwaysFailNode{BaseNode: NewBaseNode(name, "AlwaysFail")}
}

// Execute runs the child and maps any terminal result to Failure
func (an *AlwaysFailNode) Execute(ctx *ExecutionContext) NodeState {
	an.begin()
	if an.child == nil {
		return an.finish(StateFailure)
	}
	if an.child.Execute(ctx) == StateRunning {
		return an.finish(StateRunning)
	}
	return an.finish(StateFailure)
}

// SetChild sets the child node
func (an *AlwaysFailNode) SetChild(child Node) { an.child = child }

// Child returns the child node
func (an *AlwaysFailNode) Child() Node { return an.child }

// Abort force-terminates the child
func (an *AlwaysFailNode) Abort() {
	if an.child != nil {
		an.child.Abort()
	}
	an.BaseNode.Abort()
}

// Reset resets the node and its child
func (an *AlwaysFailNode) Reset() {
	an.BaseNode.Reset()
	if an.child != nil {
		an.child.Reset()
	}
}

// RepeaterNode re-executes its child, counting Successes. times < 0
// repeats without bound. A child Failure fails the repeater.
type RepeaterNode struct {
	*BaseNode
	child     Node
	times     int
	completed int
}

// NewRepeaterNode creates a new repeater node
func NewRepeaterNode(name string, times int) *RepeaterNode {
	return &RepeaterNode{
		BaseNode: NewBaseNode(name, "Repeater"),
		times:    times,
	}
}

// Execute runs one child execution per tick, reporting Running between
// iterations and Success after the configured count of child Successes.
func (rn *RepeaterNode) Execute(ctx *ExecutionContext) NodeState {
	if rn.begin() {
		rn.completed = 0
	}
	if rn.child == nil {
		return rn.finish(StateFailure)
	}
	if rn.times == 0 {
		return rn.finish(StateSuccess)
	}

	switch rn.child.Execute(ctx) {
	case StateRunning:
		return rn.finish(StateRunning)
	case StateFailure:
		return rn.finish(StateFailure)
	}

	rn.completed++
	rn.child.Reset()

	if rn.times > 0 && rn.completed >= rn.times {
		return rn.finish(StateSuccess)
	}
	return rn.finish(StateRunning)
}

// SetChild sets the child node
func (rn *RepeaterNode) SetChild(child Node) { rn.child = child }

// Child returns the child node
func (rn *RepeaterNode) Child() Node { return rn.child }

// Abort force-terminates the child and discards the iteration count
func (rn *RepeaterNode) Abort() {
	if rn.child != nil {
		rn.child.Abort()
	}
	rn.completed = 0
	rn.BaseNode.Abort()
}

// Reset resets the repeater and its child
func (rn *RepeaterNode) Reset() {
	rn.BaseNode.Reset()
	rn.completed = 0
	if rn.child != nil {
		rn.child.Reset()
	}
}

// Predicate is a condition evaluated against the per-tick context
type Predicate func(ctx *ExecutionContext) bool

// ConditionalNode gates its child behind a predicate evaluated every
// tick. A false predicate short-circuits to Failure without touching the
// child. Its AbortMode is what the composite abort scan consults.
type ConditionalNode struct {
	*BaseNode
	child     Node
	predicate Predicate
	mode      AbortMode
}

// NewConditionalNode creates a new conditional node
func NewConditionalNode(name string, predicate Predicate, mode AbortMode) *ConditionalNode {
	return &ConditionalNode{
		BaseNode:  NewBaseNode(name, "Conditional"),
		predicate: predicate,
		mode:      mode,
	}
}

// AbortMode returns the node's interruption policy
func (cn *ConditionalNode) AbortMode() AbortMode { return cn.mode }

// CheckCondition evaluates the predicate against the current context
func (cn *ConditionalNode) CheckCondition(ctx *ExecutionContext) bool {
	return cn.predicate != nil && cn.predicate(ctx)
}

// Execute runs the conditional logic
func (cn *ConditionalNode) Execute(ctx *ExecutionContext) NodeState {
	first := cn.begin()
	wasRunning := !first && cn.State() == StateRunning

	if !cn.CheckCondition(ctx) {
		if wasRunning && cn.mode&AbortSelf != 0 && cn.child != nil {
			cn.child.Abort()
		}
		return cn.finish(StateFailure)
	}
	if cn.child == nil {
		return cn.finish(StateFailure)
	}
	return cn.finish(cn.child.Execute(ctx))
}

// SetChild sets the child node
func (cn *ConditionalNode) SetChild(child Node) { cn.child = child }

// Child returns the child node
func (cn *ConditionalNode) Child() Node { return cn.child }

// Abort force-terminates the child
func (cn *ConditionalNode) Abort() {
	if cn.child != nil {
		cn.child.Abort()
	}
	cn.BaseNode.Abort()
}

// Reset resets the conditional and its child
func (cn *ConditionalNode) Reset() {
	cn.BaseNode.Reset()
	if cn.child != nil {
		cn.child.Reset()
	}
}
