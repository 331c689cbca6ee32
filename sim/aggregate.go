package sim

import (
	"math"
	"sort"

	"github.com/latencylab/latencylab/model"
)

// Percentiles holds the four percentiles spec'd for every aggregated
// metric.
type Percentiles struct {
	P50 float64
	P90 float64
	P95 float64
	P99 float64
}

// TopCriticalPath is one entry in a Summary's top-K critical path ranking.
type TopCriticalPath struct {
	Path  string
	Count int
	Share float64
}

// Summary is N RunResults collapsed into percentiles, a critical-path
// frequency ranking, and (for v2 models) per-task metadata passthrough.
// Grounded on metrics.py:aggregate_runs's field shape.
type Summary struct {
	Percentiles      map[string]Percentiles
	TopCriticalPaths []TopCriticalPath
	TaskMetadata     map[string]model.TaskMeta
}

const defaultTopK = 10

// Aggregate collapses results into a Summary. meta may be nil (v1 models
// carry no per-task metadata); topK <= 0 uses the default of 10.
func Aggregate(results []RunResult, meta map[string]model.TaskMeta, topK int) Summary {
	if topK <= 0 {
		topK = defaultTopK
	}

	summary := Summary{Percentiles: make(map[string]Percentiles, 3)}

	summary.Percentiles["makespan_ms"] = percentilesOf(makespans(results))

	if firsts := uiTimes(results, func(r RunResult) *float64 { return r.FirstUIEventMs }); len(firsts) > 0 {
		summary.Percentiles["first_ui_event_time_ms"] = percentilesOf(firsts)
	}
	if lasts := uiTimes(results, func(r RunResult) *float64 { return r.LastUIEventMs }); len(lasts) > 0 {
		summary.Percentiles["last_ui_event_time_ms"] = percentilesOf(lasts)
	}

	summary.TopCriticalPaths = topCriticalPaths(results, topK)

	if meta != nil {
		summary.TaskMetadata = meta
	}
	return summary
}

func makespans(results []RunResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.MakespanMs
	}
	return out
}

func uiTimes(results []RunResult, pick func(RunResult) *float64) []float64 {
	var out []float64
	for _, r := range results {
		if v := pick(r); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// percentilesOf computes p50/p90/p95/p99 via linear interpolation between
// closest ranks: percentile p sits at 1-based rank p*n + 0.5, clamped to
// [1, n], and a fractional rank interpolates between its two neighboring
// samples. A single sample yields that value for every percentile.
func percentilesOf(samples []float64) Percentiles {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	n := len(sorted)
	at := func(p float64) float64 {
		rank := math.Min(math.Max(p*float64(n)+0.5, 1), float64(n))
		lo := int(rank)
		if lo == n {
			return sorted[n-1]
		}
		return sorted[lo-1] + (rank-float64(lo))*(sorted[lo]-sorted[lo-1])
	}
	return Percentiles{P50: at(0.50), P90: at(0.90), P95: at(0.95), P99: at(0.99)}
}

func topCriticalPaths(results []RunResult, topK int) []TopCriticalPath {
	counts := make(map[string]int)
	for _, r := range results {
		if r.CriticalPathTasks == "" {
			continue
		}
		counts[r.CriticalPathTasks]++
	}

	entries := make([]TopCriticalPath, 0, len(counts))
	total := float64(len(results))
	for path, count := range counts {
		share := 0.0
		if total > 0 {
			share = float64(count) / total
		}
		entries = append(entries, TopCriticalPath{Path: path, Count: count, Share: share})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Path < entries[j].Path
	})

	if len(entries) > topK {
		entries = entries[:topK]
	}
	return entries
}
