package sim

import (
	"fmt"
	"math"

	"github.com/latencylab/latencylab/model"
)

// scheduleDelay materializes a wiring edge's delay as a synthetic
// TaskInstance on the unconstrained __delay__ context: it starts immediately
// at emitMs (delay has no capacity limit, so there is never a wait) and ends
// emitMs+sampled delay, at which point its endInstanceEvent enqueues the
// edge's target task. Grounded on the original's schedule_delay, which
// likewise models a delay as a zero-capacity-pressure pseudo-task rather
// than a bare timer, so it shows up in traces and the critical-path walk
// like any other instance.
func (r *runState) scheduleDelay(eventName string, edge model.WiringEdge, emitMs float64, source int64) {
	d := Sample(*edge.Delay, r.rng)
	if d < 0 {
		d = 0
	}

	id := r.newInstanceID()
	inst := TaskInstance{
		ID:                       id,
		TaskName:                 fmt.Sprintf("delay(%s->%s)", eventName, edge.Task),
		Context:                  model.DelayContext,
		EnqueueMs:                emitMs,
		StartMs:                  emitMs,
		EndMs:                    emitMs + d,
		ParentTaskInstanceID:     source,
		CapacityParentInstanceID: unset,
		Synthetic:                true,
	}
	r.appendInstance(inst)
	r.delayTargets[id] = edge.Task

	r.schedule(&endInstanceEvent{time: math.Max(inst.EndMs, r.now), seq: r.nextSeq(), instanceID: id})
}
