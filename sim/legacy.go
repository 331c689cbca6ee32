package sim

import "github.com/latencylab/latencylab/model"

// legacyEngine stands in for the frozen v1 engine. The original is NumPy
// Generator (PCG64)-backed and specified as a byte-exact oracle; this
// repository does not vendor a bit-exact PCG64 reimplementation to fake
// that guarantee, so schema_version == 1 models fail loudly instead of
// silently drifting from the v1 oracle's numeric output.
type legacyEngine struct{}

func (legacyEngine) Kind() ExecutorKind { return ExecutorLegacy }

func (legacyEngine) runOne(_ *model.Model, _ int, _ int64) (RunResult, error) {
	return RunResult{}, ErrLegacyUnavailable
}
