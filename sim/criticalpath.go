package sim

import (
	"math"
	"strings"
)

// criticalPath reconstructs the longest causal chain ending at a run's
// terminal instance and renders it as a ">"-joined string of task names,
// including synthetic delay names inline.
//
// Grounded on sim_v2.py's exact terminal-instance and parent-walk rules,
// which are more precise than a plain "prefer event parent" reading: the
// terminal instance is the non-delay instance maximizing
// (end_ms, context, task_name, instance_id), and at each step the walk
// follows whichever parent's end time is later, preferring the capacity
// parent on a tie only when the event parent is absent.
func criticalPath(instances []TaskInstance) string {
	terminal, ok := terminalInstance(instances)
	if !ok {
		return ""
	}

	var names []string
	cur := terminal
	for {
		names = append(names, cur.TaskName)

		var capPred, evtPred *TaskInstance
		if cur.HasCapacityParent() {
			capPred = &instances[cur.CapacityParentInstanceID]
		}
		if cur.HasParent() {
			evtPred = &instances[cur.ParentTaskInstanceID]
		}
		if capPred == nil && evtPred == nil {
			break
		}

		capTime := math.Inf(-1)
		if capPred != nil {
			capTime = capPred.EndMs
		}
		evtTime := math.Inf(-1)
		if evtPred != nil {
			evtTime = evtPred.EndMs
		}

		switch {
		case capPred != nil && capTime > evtTime:
			cur = capPred
		case evtPred != nil && evtTime >= capTime:
			cur = evtPred
		default:
			cur = nil
		}
		if cur == nil {
			break
		}
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ">")
}

func terminalInstance(instances []TaskInstance) (*TaskInstance, bool) {
	var best *TaskInstance
	for i := range instances {
		inst := &instances[i]
		if inst.Synthetic {
			continue
		}
		if best == nil || beats(inst, best) {
			best = inst
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// beats reports whether a outranks b under (end_ms, context, task_name, id),
// all maximized.
func beats(a, b *TaskInstance) bool {
	if a.EndMs != b.EndMs {
		return a.EndMs > b.EndMs
	}
	if a.Context != b.Context {
		return a.Context > b.Context
	}
	if a.TaskName != b.TaskName {
		return a.TaskName > b.TaskName
	}
	return a.ID > b.ID
}
