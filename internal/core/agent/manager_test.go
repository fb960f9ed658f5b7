package agent

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantgames/arbor/internal/core/bt"
	"github.com/verdantgames/arbor/internal/core/observability/log"
)

func testAgentConfig(name string) *Config {
	return &Config{
		Name: name,
		Loop: true,
		Tree: &bt.TreeConfig{
			Name: name + "-tree",
			Root: &bt.NodeConfig{
				Name:   "tick",
				Type:   "Action",
				Params: map[string]any{"action": "tick"},
			},
		},
	}
}

func TestManagerCreateFromConfig(t *testing.T) {
	builder := bt.NewBuilder(log.Nop())
	var ticks atomic.Int64
	builder.RegisterAction("tick", func(_ *bt.ExecutionContext) bt.NodeState {
		ticks.Add(1)
		return bt.StateSuccess
	})

	m := NewManager(log.Nop())
	cfg := testAgentConfig("guard")
	cfg.InitialData = map[string]any{"post": "north-gate"}

	a, err := m.Create(cfg, builder)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())

	v, ok := bt.GetString(a.Blackboard(), "post")
	require.True(t, ok)
	assert.Equal(t, "north-gate", v)

	a.Update(time.Millisecond)
	assert.Equal(t, int64(1), ticks.Load())
}

func TestManagerCreateRejectsBadConfig(t *testing.T) {
	builder := bt.NewBuilder(log.Nop())
	m := NewManager(log.Nop())

	_, err := m.Create(&Config{Name: "broken"}, builder)
	assert.Error(t, err, "a config without a tree is invalid")

	_, err = m.Create(nil, builder)
	assert.Error(t, err)
	assert.Equal(t, 0, m.Count())
}

func TestManagerGetAndRemove(t *testing.T) {
	m := NewManager(log.Nop())
	a := New("guard", countingRoot(new(int), bt.StateRunning))
	m.Add(a)

	got, ok := m.Get(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.True(t, m.Remove(a.ID()))
	assert.False(t, m.Remove(a.ID()))
	_, ok = m.Get(a.ID())
	assert.False(t, ok)
}

func TestManagerListSortedByName(t *testing.T) {
	m := NewManager(log.Nop())
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		m.Add(New(name, countingRoot(new(int), bt.StateRunning)))
	}

	var names []string
	for _, a := range m.List() {
		names = append(names, a.Name())
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, names)
}

func TestManagerUpdateAllTicksEveryAgent(t *testing.T) {
	m := NewManager(log.Nop())

	var ticks atomic.Int64
	for i := 0; i < 8; i++ {
		root := bt.NewActionNode("tick", func(_ *bt.ExecutionContext) bt.NodeState {
			ticks.Add(1)
			return bt.StateRunning
		})
		m.Add(New("agent", root))
	}

	require.NoError(t, m.UpdateAll(context.Background(), time.Millisecond))
	assert.Equal(t, int64(8), ticks.Load())

	require.NoError(t, m.UpdateAll(context.Background(), time.Millisecond))
	assert.Equal(t, int64(16), ticks.Load())
}

func TestManagerUpdateAllCanceledContext(t *testing.T) {
	m := NewManager(log.Nop())
	var ticks atomic.Int64
	m.Add(New("agent", bt.NewActionNode("tick", func(_ *bt.ExecutionContext) bt.NodeState {
		ticks.Add(1)
		return bt.StateRunning
	})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.UpdateAll(ctx, time.Millisecond)
	assert.Error(t, err)
	assert.Equal(t, int64(0), ticks.Load())
}

func TestManagerSnapshots(t *testing.T) {
	m := NewManager(log.Nop())
	a := New("guard", countingRoot(new(int), bt.StateRunning))
	a.Blackboard().Set("post", "gate")
	m.Add(a)
	m.Add(New("scout", countingRoot(new(int), bt.StateRunning)))

	snaps := m.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, "guard", snaps[0].Name)
	assert.Equal(t, "gate", snaps[0].Data["post"])
	assert.Equal(t, "scout", snaps[1].Name)
}

func TestManagerStopAll(t *testing.T) {
	m := NewManager(log.Nop())
	a := New("guard", countingRoot(new(int), bt.StateRunning))
	m.Add(a)

	a.Update(time.Millisecond)
	require.Equal(t, bt.TreeRunning, a.Tree().Lifecycle())

	m.StopAll()
	assert.Equal(t, bt.TreeStopped, a.Tree().Lifecycle())
}
