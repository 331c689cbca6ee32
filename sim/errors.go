package sim

import "errors"

// Sentinel error kinds surfaced by the simulation core, per the error
// handling design: typed failure values rather than control-flow
// exceptions. Model validation failures live in package model
// (model.ErrModelInvalid) — the core never re-derives them.
var (
	// ErrInvariantViolated marks an internal inconsistency detected during
	// scheduling: an unknown task/event reference surfacing mid-run, or a
	// negative duration after sampling. These can only occur if a Model
	// reached the scheduler without passing model.Validate.
	ErrInvariantViolated = errors.New("invariant violated")

	// ErrCancelled marks a batch cancelled between runs via the context
	// passed to RunMany. Completed runs up to the cancellation point are
	// still returned alongside this error.
	ErrCancelled = errors.New("batch cancelled")

	// ErrDeadlineExceeded marks a batch stopped because opts.DeadlineMs
	// elapsed between runs. Behaves identically to ErrCancelled.
	ErrDeadlineExceeded = errors.New("deadline exceeded")

	// ErrLegacyUnavailable marks a schema_version == 1 model: the legacy
	// engine is a frozen, byte-exact oracle backed by NumPy's PCG64
	// generator in the original implementation. This repository does not
	// vendor a bit-exact PCG64 reimplementation, so legacy runs fail
	// loudly with this error instead of silently drifting from the v1
	// oracle's numeric output.
	ErrLegacyUnavailable = errors.New("legacy engine (schema_version 1) unavailable: no bit-exact PCG64 RNG in this build")
)

// InvariantViolatedError wraps ErrInvariantViolated with the offending
// reference or condition, for diagnostics.
type InvariantViolatedError struct {
	Reason string
}

func (e *InvariantViolatedError) Error() string {
	return "invariant violated: " + e.Reason
}

func (e *InvariantViolatedError) Unwrap() error {
	return ErrInvariantViolated
}

// invariantViolation is panicked by scheduler internals on a reference that
// model.Validate should have already caught. RunOne recovers exactly this
// type and converts it into an *InvariantViolatedError; any other panic is a
// real bug and propagates.
type invariantViolation struct {
	reason string
}
