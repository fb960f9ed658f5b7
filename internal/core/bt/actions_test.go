package bt

import (
	"testing"
	"time"

	"github.com/verdantgames/arbor/internal/core/observability/log"
)

func TestActionDelegateResult(t *testing.T) {
	calls := 0
	act := NewActionNode("act", func(_ *ExecutionContext) NodeState {
		calls++
		return StateSuccess
	})

	if got := act.Execute(testCtx()); got != StateSuccess {
		t.Errorf("expected Success, got %v", got)
	}
	if calls != 1 {
		t.Errorf("expected one delegate call, got %d", calls)
	}
}

func TestActionNilDelegateFails(t *testing.T) {
	act := NewActionNode("act", nil)
	if got := act.Execute(testCtx()); got != StateFailure {
		t.Errorf("expected Failure, got %v", got)
	}
}

func TestActionReceivesContext(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("target", "gate")
	ctx := &ExecutionContext{Blackboard: bb, DeltaTime: 50 * time.Millisecond}

	act := NewActionNode("act", func(ctx *ExecutionContext) NodeState {
		if v, _ := GetString(ctx.Blackboard, "target"); v != "gate" {
			return StateFailure
		}
		return StateSuccess
	})

	if got := act.Execute(ctx); got != StateSuccess {
		t.Errorf("expected the delegate to see blackboard data, got %v", got)
	}
}

func TestWaitAccumulatesDeltaTime(t *testing.T) {
	wait := NewWaitNode("wait", 100*time.Millisecond)
	ctx := &ExecutionContext{Blackboard: NewBlackboard(), DeltaTime: 30 * time.Millisecond}

	for i := 0; i < 3; i++ {
		if got := wait.Execute(ctx); got != StateRunning {
			t.Fatalf("tick %d: expected Running, got %v", i, got)
		}
	}
	if got := wait.Execute(ctx); got != StateSuccess {
		t.Errorf("expected Success at 120ms elapsed, got %v", got)
	}
}

func TestWaitRestartsAfterCompletion(t *testing.T) {
	wait := NewWaitNode("wait", 50*time.Millisecond)
	ctx := &ExecutionContext{Blackboard: NewBlackboard(), DeltaTime: 60 * time.Millisecond}

	wait.Execute(ctx) // Success

	ctx.DeltaTime = 10 * time.Millisecond
	if got := wait.Execute(ctx); got != StateRunning {
		t.Errorf("expected a fresh run to accumulate from zero, got %v", got)
	}
}

func TestWaitAbortDiscardsElapsed(t *testing.T) {
	wait := NewWaitNode("wait", 100*time.Millisecond)
	ctx := &ExecutionContext{Blackboard: NewBlackboard(), DeltaTime: 90 * time.Millisecond}

	wait.Execute(ctx)
	wait.Abort()

	ctx.DeltaTime = 20 * time.Millisecond
	if got := wait.Execute(ctx); got != StateRunning {
		t.Errorf("expected elapsed time discarded on abort, got %v", got)
	}
}

func TestLogNodeAlwaysSucceeds(t *testing.T) {
	node := NewLogNode("trace", "reached waypoint", log.Nop())
	ctx := testCtx()

	if got := node.Execute(ctx); got != StateSuccess {
		t.Errorf("expected Success, got %v", got)
	}
	if msg, ok := GetString(ctx.Blackboard, "last_log_message"); !ok || msg != "reached waypoint" {
		t.Errorf("expected the message recorded on the blackboard, got %q", msg)
	}
}

func TestLogNodeNilLogger(t *testing.T) {
	node := NewLogNode("trace", "quiet", nil)
	if got := node.Execute(testCtx()); got != StateSuccess {
		t.Errorf("expected Success with a nil logger, got %v", got)
	}
}
