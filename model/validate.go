package model

// Validate enforces every constraint spec.md §6.1 places on a parsed Model:
// supported schema version, resolvable entry event, well-formed contexts,
// in-bounds distribution parameters, and that every context/task/event
// reference in tasks and wiring resolves. Field-for-field grounded on the
// original implementation's validate_model.
func Validate(m *Model) error {
	if m.SchemaVersion != 1 && m.SchemaVersion != 2 {
		return invalid("unsupported schema_version %d (expected 1 or 2)", m.SchemaVersion)
	}

	if _, ok := m.Events[m.EntryEvent]; !ok {
		return invalid("entry_event %q must exist in events", m.EntryEvent)
	}

	for name, ctx := range m.Contexts {
		if ctx.Concurrency < 1 {
			return invalid("context %q concurrency must be >= 1 (got %d)", name, ctx.Concurrency)
		}
		if ctx.Policy != "fifo" {
			return invalid("context %q policy must be 'fifo' (got %q)", name, ctx.Policy)
		}
		if name == DelayContext {
			return invalid("context name %q is reserved for synthetic delay instances", DelayContext)
		}
	}

	for name, task := range m.Tasks {
		if _, ok := m.Contexts[task.Context]; !ok {
			return invalid("task %q references unknown context %q", name, task.Context)
		}
		if err := validateDist(task.Duration); err != nil {
			return invalid("task %q %v", name, err)
		}
		for _, ev := range task.Emit {
			if _, ok := m.Events[ev]; !ok {
				return invalid("task %q emits unknown event %q", name, ev)
			}
		}
	}

	for event, edges := range m.Wiring {
		if _, ok := m.Events[event]; !ok {
			return invalid("wiring references unknown event %q", event)
		}
		for _, edge := range edges {
			if _, ok := m.Tasks[edge.Task]; !ok {
				return invalid("wiring for event %q references unknown task %q", event, edge.Task)
			}
			if edge.Delay != nil {
				if err := validateDist(*edge.Delay); err != nil {
					return invalid("wiring %q -> %q delay: %v", event, edge.Task, err)
				}
			}
		}
	}

	return nil
}

func validateDist(d DurationDist) error {
	switch d.Kind {
	case DistFixed:
		if d.Value < 0 {
			return invalid("fixed value must be >= 0")
		}
	case DistNormal:
		if d.Std < 0 {
			return invalid("normal std must be >= 0")
		}
		if d.Min != nil && *d.Min < 0 {
			return invalid("normal min must be >= 0")
		}
	case DistLognormal:
		if d.Sigma < 0 {
			return invalid("lognormal sigma must be >= 0")
		}
	default:
		return invalid("unsupported distribution kind")
	}
	return nil
}
