package bt

import (
	"time"

	"github.com/verdantgames/arbor/internal/core/observability/log"
)

// Leaf nodes: Action, Wait, Log

// ActionFunc is the delegate an ActionNode wraps
type ActionFunc func(ctx *ExecutionContext) NodeState

// ActionNode is a terminal node driven entirely by a delegate. Any state
// the action needs lives in the delegate closure or the blackboard.
type ActionNode struct {
	*BaseNode
	fn ActionFunc
}

// NewActionNode creates a new action node
func NewActionNode(name string, fn ActionFunc) *ActionNode {
	return &ActionNode{
		BaseNode: NewBaseNode(name, "Action"),
		fn:       fn,
	}
}

// Execute runs the action delegate
func (an *ActionNode) Execute(ctx *ExecutionContext) NodeState {
	an.begin()
	if an.fn == nil {
		return an.finish(StateFailure)
	}
	return an.finish(an.fn(ctx))
}

// WaitNode accumulates per-tick deltas until its duration elapses.
// It never blocks; delay is simulated purely through DeltaTime.
type WaitNode struct {
	*BaseNode
	duration time.Duration
	elapsed  time.Duration
}

// NewWaitNode creates a new wait node
func NewWaitNode(name string, duration time.Duration) *WaitNode {
	return &WaitNode{
		BaseNode: NewBaseNode(name, "Wait"),
		duration: duration,
	}
}

// Execute accumulates elapsed time and succeeds once the threshold is
// reached
func (wn *WaitNode) Execute(ctx *ExecutionContext) NodeState {
	if wn.begin() {
		wn.elapsed = 0
	}

	wn.elapsed += ctx.DeltaTime
	if wn.elapsed >= wn.duration {
		return wn.finish(StateSuccess)
	}
	return wn.finish(StateRunning)
}

// Abort discards the accumulated wait time
func (wn *WaitNode) Abort() {
	wn.elapsed = 0
	wn.BaseNode.Abort()
}

// Reset resets the wait node
func (wn *WaitNode) Reset() {
	wn.BaseNode.Reset()
	wn.elapsed = 0
}

// LogNode writes a diagnostic message and always succeeds; useful for
// tracing which branch of a tree ran.
type LogNode struct {
	*BaseNode
	message string
	logger  log.Log
}

// NewLogNode creates a new log node. A nil logger suppresses output but
// the node still succeeds.
func NewLogNode(name, message string, logger log.Log) *LogNode {
	return &LogNode{
		BaseNode: NewBaseNode(name, "Log"),
		message:  message,
		logger:   logger,
	}
}

// Execute logs the message and returns Success
func (ln *LogNode) Execute(ctx *ExecutionContext) NodeState {
	ln.begin()
	if ln.logger != nil {
		ln.logger.Debug(ln.message, log.String("node", ln.Name()))
	}
	if ctx.Blackboard != nil {
		ctx.Blackboard.Set("last_log_message", ln.message)
	}
	return ln.finish(StateSuccess)
}
