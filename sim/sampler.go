package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/latencylab/latencylab/model"
)

// Sample draws one nonnegative duration (in ms) from dist using rng. It is a
// pure function of (distribution, rng state): the only mutation is to rng's
// internal stream. Grounded on the original implementation's _sample_ms,
// which floors a Normal draw at dist.Min (default 0) rather than clamping
// twice — the two descriptions are equivalent since Min, when set, is
// already validated to be >= 0.
func Sample(dist model.DurationDist, rng *rand.Rand) float64 {
	switch dist.Kind {
	case model.DistFixed:
		return dist.Value

	case model.DistNormal:
		val := rng.NormFloat64()*dist.Std + dist.Mean
		floor := 0.0
		if dist.Min != nil {
			floor = *dist.Min
		}
		if val < floor {
			val = floor
		}
		return val

	case model.DistLognormal:
		z := rng.NormFloat64()
		val := math.Exp(dist.Mu + dist.Sigma*z)
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return 0
		}
		return val

	default:
		panic(invariantViolation{fmt.Sprintf("sample: unhandled distribution kind %v", dist.Kind)})
	}
}
