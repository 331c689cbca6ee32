package sim

import (
	"container/heap"
	"fmt"
	"math/rand"
	"sort"

	"github.com/latencylab/latencylab/model"
)

// contextState tracks one ContextDef's FIFO ready queue and its concurrency
// slots. Slots are tracked individually (not just a running count) because
// capacity_parent_instance_id is a per-slot relationship: the instance that
// freed the specific slot a new instance occupies. Grounded on the original
// implementation's free_slots/last_on_slot bookkeeping.
type contextState struct {
	queue      readyQueue
	freeSlots  []int
	lastOnSlot []int64 // index by slot; unset until the slot has been used once
}

func newContextState(concurrency int) *contextState {
	free := make([]int, concurrency)
	last := make([]int64, concurrency)
	for i := 0; i < concurrency; i++ {
		free[i] = i
		last[i] = unset
	}
	return &contextState{freeSlots: free, lastOnSlot: last}
}

// popLowestFreeSlot returns the lowest-indexed free slot, for deterministic
// slot assignment independent of append order.
func (cs *contextState) popLowestFreeSlot() int {
	sort.Ints(cs.freeSlots)
	slot := cs.freeSlots[0]
	cs.freeSlots = cs.freeSlots[1:]
	return slot
}

// runState is one run's private, exclusively-owned scheduling state: the
// event queue, per-context capacity, the append-only instance arena, and the
// RNG driving this run alone. Grounded on the teacher's Simulator struct,
// generalized from vLLM batch/KV-cache state to generic context capacity.
type runState struct {
	m   *model.Model
	rng *rand.Rand

	now   float64
	seq   uint64
	evq   eventQueue
	ctxs  map[string]*contextState
	slots map[int64]int // instance id -> slot index, non-delay only

	instances    []TaskInstance
	delayTargets map[int64]string // delay instance id -> target task name

	firstUIEventMs *float64
	lastUIEventMs  *float64
}

func newRunState(m *model.Model, rng *rand.Rand) *runState {
	ctxs := make(map[string]*contextState, len(m.Contexts))
	for name, def := range m.Contexts {
		ctxs[name] = newContextState(def.Concurrency)
	}
	return &runState{
		m:            m,
		rng:          rng,
		ctxs:         ctxs,
		slots:        make(map[int64]int),
		delayTargets: make(map[int64]string),
	}
}

func (r *runState) nextSeq() uint64 {
	s := r.seq
	r.seq++
	return s
}

func (r *runState) schedule(e event) {
	heap.Push(&r.evq, e)
}

func (r *runState) newInstanceID() int64 {
	return int64(len(r.instances))
}

func (r *runState) appendInstance(inst TaskInstance) {
	r.instances = append(r.instances, inst)
}

// run drives the event loop to completion and returns the finished
// RunResult (without RunIndex/Seed, which RunOne fills in).
func (r *runState) run() RunResult {
	r.occurEvent(r.m.EntryEvent, 0, unset)

	for r.evq.Len() > 0 {
		it := heap.Pop(&r.evq).(event)
		r.now = it.timestamp()
		it.execute(r)
	}

	makespan := 0.0
	for _, inst := range r.instances {
		if !inst.Synthetic && inst.EndMs > makespan {
			makespan = inst.EndMs
		}
	}

	return RunResult{
		Instances:         r.instances,
		CriticalPathTasks: criticalPath(r.instances),
		MakespanMs:        makespan,
		FirstUIEventMs:    r.firstUIEventMs,
		LastUIEventMs:     r.lastUIEventMs,
	}
}

// occurEvent fires event `name` at time t, caused by source (unset for the
// run's bootstrap entry event). It records UI-tagged timing and dispatches
// every wiring edge off this event: immediate edges push a new
// enqueueTaskEvent; delayed edges spawn a synthetic delay instance.
func (r *runState) occurEvent(name string, t float64, source int64) {
	def, ok := r.m.Events[name]
	if !ok {
		panic(invariantViolation{fmt.Sprintf("occurEvent: unknown event %q", name)})
	}
	if def.HasTag("ui") {
		r.recordUITime(t)
	}

	for _, edge := range r.m.Wiring[name] {
		if _, ok := r.m.Tasks[edge.Task]; !ok {
			panic(invariantViolation{fmt.Sprintf("wiring %q -> unknown task %q", name, edge.Task)})
		}
		if edge.Delay == nil {
			r.schedule(&enqueueTaskEvent{time: t, seq: r.nextSeq(), task: edge.Task, parent: source})
		} else {
			r.scheduleDelay(name, edge, t, source)
		}
	}
}

func (r *runState) recordUITime(t float64) {
	if r.firstUIEventMs == nil || t < *r.firstUIEventMs {
		v := t
		r.firstUIEventMs = &v
	}
	if r.lastUIEventMs == nil || t > *r.lastUIEventMs {
		v := t
		r.lastUIEventMs = &v
	}
}

// enqueueTask is invoked by enqueueTaskEvent.execute: it pushes the pending
// enqueue into its context's FIFO ready queue and immediately attempts
// admission, per the Run Scheduler's "push then attempt admit" step.
func (r *runState) enqueueTask(taskName string, enqueueMs float64, parent int64) {
	task, ok := r.m.Tasks[taskName]
	if !ok {
		panic(invariantViolation{fmt.Sprintf("enqueueTask: unknown task %q", taskName)})
	}
	cs, ok := r.ctxs[task.Context]
	if !ok {
		panic(invariantViolation{fmt.Sprintf("task %q references unknown context %q", taskName, task.Context)})
	}
	cs.queue.enqueue(pendingEnqueue{task: taskName, enqueueMs: enqueueMs, parent: parent})
	r.admit(task.Context)
}

// admit drains ctxName's ready queue into free slots, FIFO, sampling each
// admitted task's duration and scheduling its endInstanceEvent.
func (r *runState) admit(ctxName string) {
	cs := r.ctxs[ctxName]
	for len(cs.freeSlots) > 0 && cs.queue.len() > 0 {
		p, _ := cs.queue.dequeue()
		slot := cs.popLowestFreeSlot()
		capParent := cs.lastOnSlot[slot]

		duration := Sample(r.m.Tasks[p.task].Duration, r.rng)
		if duration < 0 {
			panic(invariantViolation{fmt.Sprintf("task %q sampled a negative duration", p.task)})
		}

		id := r.newInstanceID()
		inst := TaskInstance{
			ID:                       id,
			TaskName:                 p.task,
			Context:                  ctxName,
			EnqueueMs:                p.enqueueMs,
			StartMs:                  r.now,
			EndMs:                    r.now + duration,
			ParentTaskInstanceID:     p.parent,
			CapacityParentInstanceID: capParent,
			Synthetic:                false,
		}
		r.appendInstance(inst)
		cs.lastOnSlot[slot] = id
		r.slots[id] = slot

		r.schedule(&endInstanceEvent{time: inst.EndMs, seq: r.nextSeq(), instanceID: id})
	}
}

// finishInstance is invoked by endInstanceEvent.execute. For a non-delay
// instance it frees its context slot, admits waiting work into that slot,
// then fires its emit list. For a synthetic delay instance it enqueues the
// delay's target task.
func (r *runState) finishInstance(id int64, now float64) {
	inst := r.instances[id]

	if inst.Synthetic {
		target, ok := r.delayTargets[id]
		if !ok {
			panic(invariantViolation{fmt.Sprintf("finishInstance: no delay target recorded for instance %d", id)})
		}
		r.schedule(&enqueueTaskEvent{time: now, seq: r.nextSeq(), task: target, parent: id})
		return
	}

	cs := r.ctxs[inst.Context]
	cs.freeSlots = append(cs.freeSlots, r.slots[id])
	r.admit(inst.Context)

	task := r.m.Tasks[inst.TaskName]
	for _, ev := range task.Emit {
		r.occurEvent(ev, now, id)
	}
}

// RunOne executes a single run of model against seed and returns its
// RunResult. Internal scheduler invariant violations (a reference that
// should have been caught by model.Validate) are recovered and returned as
// *InvariantViolatedError; any other panic is a genuine bug and propagates.
func RunOne(m *model.Model, runIndex int, seed int64) (result RunResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			iv, ok := rec.(invariantViolation)
			if !ok {
				panic(rec)
			}
			err = &InvariantViolatedError{Reason: iv.reason}
		}
	}()

	r := newRunState(m, rand.New(rand.NewSource(seed)))
	result = r.run()
	result.RunIndex = runIndex
	result.Seed = seed
	return result, nil
}
