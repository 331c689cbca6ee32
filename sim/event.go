package sim

// event is the discrete-event scheduler's unit of work. Grounded on the
// teacher's Event interface (Timestamp()/Execute(*Simulator)), generalized
// from vLLM-specific arrival/step events to the two event kinds spec.md's
// Run Scheduler needs: enqueuing a task and finalizing a running instance.
type event interface {
	timestamp() float64
	// tiebreak is the insertion-order sequence number used to break ties
	// between events scheduled at the same timestamp, giving stable FIFO
	// ordering independent of heap internals.
	tiebreak() uint64
	execute(r *runState)
}

// enqueueTaskEvent enqueues taskName into its context's ready queue at time,
// carrying the causal parent instance (unset for the run's bootstrap).
type enqueueTaskEvent struct {
	time   float64
	seq    uint64
	task   string
	parent int64
}

func (e *enqueueTaskEvent) timestamp() float64 { return e.time }
func (e *enqueueTaskEvent) tiebreak() uint64    { return e.seq }

func (e *enqueueTaskEvent) execute(r *runState) {
	r.enqueueTask(e.task, e.time, e.parent)
}

// endInstanceEvent finalizes a running (or delayed) instance at time,
// freeing its context slot (if non-delay) and firing its emitted events (or,
// for a synthetic delay, enqueuing its target task).
type endInstanceEvent struct {
	time       float64
	seq        uint64
	instanceID int64
}

func (e *endInstanceEvent) timestamp() float64 { return e.time }
func (e *endInstanceEvent) tiebreak() uint64    { return e.seq }

func (e *endInstanceEvent) execute(r *runState) {
	r.finishInstance(e.instanceID, e.time)
}
