package bt

import (
	"testing"
	"time"
)

func TestBlackboardRoundTrip(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("name", "scout")
	bb.Set("health", 75)
	bb.Set("speed", 2.5)
	bb.Set("alive", true)

	if v, ok := GetString(bb, "name"); !ok || v != "scout" {
		t.Errorf("GetString = %q, %v", v, ok)
	}
	if v, ok := GetInt(bb, "health"); !ok || v != 75 {
		t.Errorf("GetInt = %d, %v", v, ok)
	}
	if v, ok := GetFloat(bb, "speed"); !ok || v != 2.5 {
		t.Errorf("GetFloat = %f, %v", v, ok)
	}
	if v, ok := GetBool(bb, "alive"); !ok || !v {
		t.Errorf("GetBool = %v, %v", v, ok)
	}
}

func TestBlackboardAbsentKey(t *testing.T) {
	bb := NewBlackboard()

	if _, ok := bb.Get("missing"); ok {
		t.Error("expected absent key to report false")
	}
	if v, ok := Value[string](bb, "missing"); ok || v != "" {
		t.Errorf("expected zero value for absent key, got %q, %v", v, ok)
	}
}

func TestBlackboardTypedMismatch(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("count", "not a number")

	if v, ok := Value[int](bb, "count"); ok || v != 0 {
		t.Errorf("expected mismatch to yield zero, got %d, %v", v, ok)
	}
}

func TestBlackboardStructValues(t *testing.T) {
	type waypoint struct{ X, Y float64 }

	bb := NewBlackboard()
	bb.Set("target", waypoint{X: 3, Y: 4})

	got, ok := Value[waypoint](bb, "target")
	if !ok || got.X != 3 || got.Y != 4 {
		t.Errorf("expected struct round trip, got %+v, %v", got, ok)
	}
}

func TestBlackboardIntCoercion(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("from_yaml", float64(7))
	bb.Set("wide", int64(9))

	if v, ok := GetInt(bb, "from_yaml"); !ok || v != 7 {
		t.Errorf("expected float64 coerced to int, got %d, %v", v, ok)
	}
	if v, ok := GetInt(bb, "wide"); !ok || v != 9 {
		t.Errorf("expected int64 coerced to int, got %d, %v", v, ok)
	}
}

func TestBlackboardDurationParsing(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("cooldown", "250ms")
	bb.Set("native", 2*time.Second)

	if v, ok := GetDuration(bb, "cooldown"); !ok || v != 250*time.Millisecond {
		t.Errorf("expected parsed duration, got %v, %v", v, ok)
	}
	if v, ok := GetDuration(bb, "native"); !ok || v != 2*time.Second {
		t.Errorf("expected native duration, got %v, %v", v, ok)
	}
}

func TestBlackboardDeleteAndHas(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("key", "value")

	if !bb.Has("key") {
		t.Error("expected Has after Set")
	}
	bb.Delete("key")
	if bb.Has("key") {
		t.Error("expected Has false after Delete")
	}
	if _, ok := bb.Get("key"); ok {
		t.Error("expected Get miss after Delete")
	}
}

func TestBlackboardNilValueNotHas(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("tombstone", nil)

	if bb.Has("tombstone") {
		t.Error("a nil value must not count as present")
	}
	if _, ok := bb.Get("tombstone"); !ok {
		t.Error("Get still reports the key exists")
	}
}

func TestBlackboardClear(t *testing.T) {
	bb := NewBlackboard()
	bb.Set("a", 1)
	bb.Set("b", 2)
	bb.Clear()

	if len(bb.Keys()) != 0 {
		t.Errorf("expected no keys after Clear, got %v", bb.Keys())
	}
}

func TestBlackboardSubscribeAndCancel(t *testing.T) {
	bb := NewBlackboard()

	var gotKey string
	var gotValue any
	cancel := bb.Subscribe(func(key string, value any) {
		gotKey = key
		gotValue = value
	})

	bb.Set("mood", "alert")
	if gotKey != "mood" || gotValue != "alert" {
		t.Errorf("expected synchronous notification, got %q=%v", gotKey, gotValue)
	}

	cancel()
	bb.Set("mood", "calm")
	if gotValue != "alert" {
		t.Error("expected no notification after cancel")
	}
}

func TestBlackboardWriteVisibleToNextSibling(t *testing.T) {
	seq := NewSequenceNode("seq")
	seq.AddChild(NewActionNode("write", func(ctx *ExecutionContext) NodeState {
		ctx.Blackboard.Set("flag", true)
		return StateSuccess
	}))
	seq.AddChild(NewActionNode("read", func(ctx *ExecutionContext) NodeState {
		if v, _ := GetBool(ctx.Blackboard, "flag"); v {
			return StateSuccess
		}
		return StateFailure
	}))

	if got := seq.Execute(testCtx()); got != StateSuccess {
		t.Errorf("expected the write visible within the same tick, got %v", got)
	}
}
