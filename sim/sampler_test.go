package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latencylab/latencylab/model"
)

func TestSample_Fixed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := Sample(model.DurationDist{Kind: model.DistFixed, Value: 42}, rng)
	assert.Equal(t, 42.0, got)
}

func TestSample_NormalClampsAtZeroByDefault(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	dist := model.DurationDist{Kind: model.DistNormal, Mean: -1000, Std: 1}
	for i := 0; i < 100; i++ {
		got := Sample(dist, rng)
		assert.GreaterOrEqual(t, got, 0.0)
	}
}

func TestSample_NormalClampsAtExplicitMin(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	min := 5.0
	dist := model.DurationDist{Kind: model.DistNormal, Mean: -1000, Std: 1, Min: &min}
	for i := 0; i < 100; i++ {
		got := Sample(dist, rng)
		assert.GreaterOrEqual(t, got, 5.0)
	}
}

func TestSample_NormalZeroStdIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	dist := model.DurationDist{Kind: model.DistNormal, Mean: 10, Std: 0}
	for i := 0; i < 10; i++ {
		assert.Equal(t, 10.0, Sample(dist, rng))
	}
}

func TestSample_LognormalNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	dist := model.DurationDist{Kind: model.DistLognormal, Mu: 0, Sigma: 1}
	for i := 0; i < 100; i++ {
		got := Sample(dist, rng)
		assert.GreaterOrEqual(t, got, 0.0)
	}
}

func TestSample_PanicsOnUnhandledKind(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Panics(t, func() {
		Sample(model.DurationDist{Kind: model.DistKind(99)}, rng)
	})
}
