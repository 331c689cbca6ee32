package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latencylab/latencylab/model"
)

func fixed(v float64) model.DurationDist {
	return model.DurationDist{Kind: model.DistFixed, Value: v}
}

func TestRunOne_SeparateContextsChain(t *testing.T) {
	m := &model.Model{
		SchemaVersion: 2,
		EntryEvent:    "start",
		Contexts: map[string]model.ContextDef{
			"c1": {Concurrency: 1, Policy: "fifo"},
			"c2": {Concurrency: 1, Policy: "fifo"},
		},
		Events: map[string]model.EventDef{
			"start": {},
			"e1":     {},
		},
		Tasks: map[string]model.TaskDef{
			"t1": {Context: "c1", Duration: fixed(10), Emit: []string{"e1"}},
			"t2": {Context: "c2", Duration: fixed(10)},
		},
		Wiring: map[string][]model.WiringEdge{
			"start": {{Task: "t1"}},
			"e1":     {{Task: "t2"}},
		},
	}

	result, err := RunOne(m, 0, 1)
	require.NoError(t, err)
	require.Len(t, result.Instances, 2)

	t1, t2 := result.Instances[0], result.Instances[1]
	assert.Equal(t, "t1", t1.TaskName)
	assert.Equal(t, "t2", t2.TaskName)
	assert.Equal(t, 10.0, t2.StartMs)
	assert.Equal(t, 20.0, result.MakespanMs)
	assert.Equal(t, "t1>t2", result.CriticalPathTasks)
}

func TestRunOne_SharedContextCapacityParent(t *testing.T) {
	m := &model.Model{
		SchemaVersion: 2,
		EntryEvent:    "start",
		Contexts: map[string]model.ContextDef{
			"c1": {Concurrency: 1, Policy: "fifo"},
		},
		Events: map[string]model.EventDef{
			"start": {},
			"e1":     {},
		},
		Tasks: map[string]model.TaskDef{
			"t1": {Context: "c1", Duration: fixed(10), Emit: []string{"e1"}},
			"t2": {Context: "c1", Duration: fixed(10)},
		},
		Wiring: map[string][]model.WiringEdge{
			"start": {{Task: "t1"}},
			"e1":     {{Task: "t2"}},
		},
	}

	result, err := RunOne(m, 0, 1)
	require.NoError(t, err)
	require.Len(t, result.Instances, 2)

	t1, t2 := result.Instances[0], result.Instances[1]
	assert.Equal(t, 10.0, t2.StartMs)
	assert.Equal(t, t1.ID, t2.CapacityParentInstanceID)
	assert.Equal(t, 20.0, result.MakespanMs)
	assert.Equal(t, "t1>t2", result.CriticalPathTasks)
}

func TestRunOne_DelayedWiringInsertsSyntheticInstance(t *testing.T) {
	delay := fixed(5)
	m := &model.Model{
		SchemaVersion: 2,
		EntryEvent:    "start",
		Contexts: map[string]model.ContextDef{
			"c0": {Concurrency: 1, Policy: "fifo"},
			"c1": {Concurrency: 1, Policy: "fifo"},
		},
		Events: map[string]model.EventDef{
			"start": {},
			"e1":     {},
		},
		Tasks: map[string]model.TaskDef{
			"t0": {Context: "c0", Duration: fixed(10), Emit: []string{"e1"}},
			"t1": {Context: "c1", Duration: fixed(1)},
		},
		Wiring: map[string][]model.WiringEdge{
			"start": {{Task: "t0"}},
			"e1":     {{Task: "t1", Delay: &delay}},
		},
	}

	result, err := RunOne(m, 0, 1)
	require.NoError(t, err)
	require.Len(t, result.Instances, 3)

	t0, delayInst, t1 := result.Instances[0], result.Instances[1], result.Instances[2]
	assert.Equal(t, "t0", t0.TaskName)
	assert.True(t, delayInst.Synthetic)
	assert.Equal(t, "delay(e1->t1)", delayInst.TaskName)
	assert.Equal(t, 10.0, delayInst.StartMs)
	assert.Equal(t, 15.0, delayInst.EndMs)
	assert.Equal(t, "t1", t1.TaskName)
	assert.Equal(t, 15.0, t1.StartMs)
	assert.Equal(t, "t0>delay(e1->t1)>t1", result.CriticalPathTasks)
}

func TestRunOne_UnknownEntryEventIsInvariantViolation(t *testing.T) {
	m := &model.Model{
		SchemaVersion: 2,
		EntryEvent:    "nope",
		Contexts:      map[string]model.ContextDef{},
		Events:        map[string]model.EventDef{},
		Tasks:         map[string]model.TaskDef{},
		Wiring:        map[string][]model.WiringEdge{},
	}

	_, err := RunOne(m, 0, 1)
	require.Error(t, err)
	var invErr *InvariantViolatedError
	assert.ErrorAs(t, err, &invErr)
}
