package bt

// Composite nodes: Sequence, Selector, Parallel

// SequenceNode executes children in order starting from a remembered
// cursor. A failing child fails the whole sequence and the cursor stays
// where it was, so the sequence does not restart by itself; only Abort
// or Reset rewind it.
type SequenceNode struct {
	*BaseNode
	children []Node
	current  int
}

// NewSequenceNode creates a new sequence node
func NewSequenceNode(name string) *SequenceNode {
	return &SequenceNode{
		BaseNode: NewBaseNode(name, "Sequence"),
	}
}

// Execute runs the sequence logic
func (sn *SequenceNode) Execute(ctx *ExecutionContext) NodeState {
	sn.begin()

	if len(sn.children) == 0 {
		return sn.finish(StateSuccess)
	}

	sn.checkAbortConditions(ctx)

	for sn.current < len(sn.children) {
		child := sn.children[sn.current]
		if child == nil {
			return sn.finish(StateFailure)
		}

		switch child.Execute(ctx) {
		case StateRunning:
			return sn.finish(StateRunning)
		case StateFailure:
			// cursor intentionally stays on the failed child
			return sn.finish(StateFailure)
		case StateSuccess:
			sn.current++
		}
	}

	sn.current = 0
	return sn.finish(StateSuccess)
}

// checkAbortConditions is the priority-interruption pre-scan: any
// already-passed sibling that declares AbortLowerPriority and whose
// condition now holds pulls the cursor back to itself, aborting whatever
// was running at the old cursor.
func (sn *SequenceNode) checkAbortConditions(ctx *ExecutionContext) {
	if sn.current == 0 {
		return
	}
	for i := 0; i < sn.current && i < len(sn.children); i++ {
		ca, ok := sn.children[i].(ConditionAborter)
		if !ok || ca.AbortMode()&AbortLowerPriority == 0 {
			continue
		}
		if !ca.CheckCondition(ctx) {
			continue
		}
		if sn.current < len(sn.children) && sn.children[sn.current] != nil {
			sn.children[sn.current].Abort()
		}
		sn.current = i
		return
	}
}

// AddChild adds a child node
func (sn *SequenceNode) AddChild(child Node) {
	sn.children = append(sn.children, child)
}

// Children returns all children
func (sn *SequenceNode) Children() []Node { return sn.children }

// Abort force-terminates the active child and rewinds the cursor
func (sn *SequenceNode) Abort() {
	if sn.current < len(sn.children) && sn.children[sn.current] != nil {
		sn.children[sn.current].Abort()
	}
	sn.current = 0
	sn.BaseNode.Abort()
}

// Reset resets the sequence and all children
func (sn *SequenceNode) Reset() {
	sn.BaseNode.Reset()
	sn.current = 0
	for _, child := range sn.children {
		if child != nil {
			child.Reset()
		}
	}
}

// SelectorNode tries children in order until one succeeds. A failing
// child advances the cursor; a succeeding child wins immediately.
type SelectorNode struct {
	*BaseNode
	children []Node
	current  int
}

// NewSelectorNode creates a new selector node
func NewSelectorNode(name string) *SelectorNode {
	return &SelectorNode{
		BaseNode: NewBaseNode(name, "Selector"),
	}
}

// Execute runs the selector logic
func (sn *SelectorNode) Execute(ctx *ExecutionContext) NodeState {
	sn.begin()

	if len(sn.children) == 0 {
		return sn.finish(StateFailure)
	}

	sn.checkAbortConditions(ctx)

	for sn.current < len(sn.children) {
		child := sn.children[sn.current]
		if child == nil {
			return sn.finish(StateFailure)
		}

		switch child.Execute(ctx) {
		case StateRunning:
			return sn.finish(StateRunning)
		case StateSuccess:
			sn.current = 0
			return sn.finish(StateSuccess)
		case StateFailure:
			sn.current++
		}
	}

	sn.current = 0
	return sn.finish(StateFailure)
}

func (sn *SelectorNode) checkAbortConditions(ctx *ExecutionContext) {
	if sn.current == 0 {
		return
	}
	for i := 0; i < sn.current && i < len(sn.children); i++ {
		ca, ok := sn.children[i].(ConditionAborter)
		if !ok || ca.AbortMode()&AbortLowerPriority == 0 {
			continue
		}
		if !ca.CheckCondition(ctx) {
			continue
		}
		if sn.current < len(sn.children) && sn.children[sn.current] != nil {
			sn.children[sn.current].Abort()
		}
		sn.current = i
		return
	}
}

// AddChild adds a child node
func (sn *SelectorNode) AddChild(child Node) {
	sn.children = append(sn.children, child)
}

// Children returns all children
func (sn *SelectorNode) Children() []Node { return sn.children }

// Abort force-terminates the active child and rewinds the cursor
func (sn *SelectorNode) Abort() {
	if sn.current < len(sn.children) && sn.children[sn.current] != nil {
		sn.children[sn.current].Abort()
	}
	sn.current = 0
	sn.BaseNode.Abort()
}

// Reset resets the selector and all children
func (sn *SelectorNode) Reset() {
	sn.BaseNode.Reset()
	sn.current = 0
	for _, child := range sn.children {
		if child != nil {
			child.Reset()
		}
	}
}

// ParallelPolicy controls how many children must resolve the same way
// before a ParallelNode adopts that result.
type ParallelPolicy int

const (
	RequireOne ParallelPolicy = iota
	RequireAll
)

// ParallelNode executes every still-running child each tick. Children
// that already resolved this round keep their result until the node
// starts a fresh run. "Parallel" is logical concurrency across ticks;
// children run sequentially within one call stack.
type ParallelNode struct {
	*BaseNode
	children      []Node
	successPolicy ParallelPolicy
	failurePolicy ParallelPolicy
	childStates   []NodeState
}

// NewParallelNode creates a new parallel node
func NewParallelNode(name string, successPolicy, failurePolicy ParallelPolicy) *ParallelNode {
	return &ParallelNode{
		BaseNode:      NewBaseNode(name, "Parallel"),
		successPolicy: successPolicy,
		failurePolicy: failurePolicy,
	}
}

// Execute runs the parallel logic
func (pn *ParallelNode) Execute(ctx *ExecutionContext) NodeState {
	if pn.begin() {
		pn.childStates = make([]NodeState, len(pn.children))
	}

	if len(pn.children) == 0 {
		return pn.finish(StateSuccess)
	}

	// children appended after the run started: grow instead of indexing
	// out of bounds; new slots start out Running
	if len(pn.childStates) < len(pn.children) {
		grown := make([]NodeState, len(pn.children))
		copy(grown, pn.childStates)
		pn.childStates = grown
	}

	successes, failures, running := 0, 0, 0
	for i, child := range pn.children {
		if pn.childStates[i] == StateRunning {
			if child == nil {
				pn.childStates[i] = StateFailure
			} else {
				pn.childStates[i] = child.Execute(ctx)
			}
		}

		switch pn.childStates[i] {
		case StateSuccess:
			successes++
		case StateFailure:
			failures++
		case StateRunning:
			running++
		}
	}

	if pn.failurePolicy == RequireOne && failures > 0 {
		pn.abortRunning()
		return pn.finish(StateFailure)
	}
	if pn.failurePolicy == RequireAll && failures == len(pn.children) {
		return pn.finish(StateFailure)
	}
	if pn.successPolicy == RequireOne && successes > 0 {
		pn.abortRunning()
		return pn.finish(StateSuccess)
	}
	if pn.successPolicy == RequireAll && successes == len(pn.children) {
		return pn.finish(StateSuccess)
	}

	if running > 0 {
		return pn.finish(StateRunning)
	}

	// every child resolved but neither policy triggered
	return pn.finish(StateFailure)
}

// abortRunning terminates children that are still mid-run after a policy
// short-circuited the round.
func (pn *ParallelNode) abortRunning() {
	for i, child := range pn.children {
		if i < len(pn.childStates) && pn.childStates[i] == StateRunning && child != nil {
			child.Abort()
		}
	}
}

// AddChild adds a child node
func (pn *ParallelNode) AddChild(child Node) {
	pn.children = append(pn.children, child)
	pn.childStates = append(pn.childStates, StateRunning)
}

// Children returns all children
func (pn *ParallelNode) Children() []Node { return pn.children }

// Abort force-terminates every still-running child
func (pn *ParallelNode) Abort() {
	pn.abortRunning()
	for i := range pn.childStates {
		pn.childStates[i] = StateRunning
	}
	pn.BaseNode.Abort()
}

// Reset resets the parallel node and all children
func (pn *ParallelNode) Reset() {
	pn.BaseNode.Reset()
	for i := range pn.childStates {
		pn.childStates[i] = StateRunning
	}
	for _, child := range pn.children {
		if child != nil {
			child.Reset()
		}
	}
}
