package modelio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/latencylab/latencylab/model"
	"github.com/latencylab/latencylab/sim"
)

type percentileJSON struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type topCriticalPathJSON struct {
	Path  string  `json:"path"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

type taskMetaJSON struct {
	Category string            `json:"category,omitempty"`
	Tags     []string          `json:"tags"`
	Labels   map[string]string `json:"labels"`
}

type summaryJSON struct {
	Percentiles      map[string]percentileJSON      `json:"percentiles"`
	TopCriticalPaths []topCriticalPathJSON           `json:"top_critical_paths"`
	TaskMetadata     map[string]taskMetaJSON         `json:"task_metadata,omitempty"`
}

// WriteSummaryJSON writes a Summary to the exact shape external tooling
// expects: {percentiles, top_critical_paths, task_metadata?}. Grounded on
// io.py's summary writer field shape.
func WriteSummaryJSON(path string, summary sim.Summary) error {
	out := summaryJSON{
		Percentiles:      make(map[string]percentileJSON, len(summary.Percentiles)),
		TopCriticalPaths: make([]topCriticalPathJSON, len(summary.TopCriticalPaths)),
	}

	for metric, p := range summary.Percentiles {
		out.Percentiles[metric] = percentileJSON{P50: p.P50, P90: p.P90, P95: p.P95, P99: p.P99}
	}
	for i, tcp := range summary.TopCriticalPaths {
		out.TopCriticalPaths[i] = topCriticalPathJSON{Path: tcp.Path, Count: tcp.Count, Share: tcp.Share}
	}
	if summary.TaskMetadata != nil {
		out.TaskMetadata = make(map[string]taskMetaJSON, len(summary.TaskMetadata))
		for name, meta := range summary.TaskMetadata {
			out.TaskMetadata[name] = toTaskMetaJSON(meta)
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary json: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing summary json: %w", err)
	}
	return nil
}

func toTaskMetaJSON(meta model.TaskMeta) taskMetaJSON {
	return taskMetaJSON{Category: meta.Category, Tags: meta.Tags, Labels: meta.Labels}
}
