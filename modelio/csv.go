// Package modelio writes per-run and aggregate simulation results to the
// CSV/JSON shapes external tooling consumes. Grounded on the teacher's
// sim/workload/tracev2.go ExportTraceV2 (encoding/csv, strconv formatting,
// fmt.Errorf-wrapped I/O errors) and on io.py's exact column/field shapes.
package modelio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/latencylab/latencylab/sim"
)

var traceColumns = []string{
	"run_index", "instance_id", "task_name", "context",
	"enqueue_ms", "start_ms", "end_ms",
	"parent_task_instance_id", "capacity_parent_instance_id", "synthetic",
}

var runsColumns = []string{
	"run_index", "seed", "makespan_ms",
	"first_ui_event_time_ms", "last_ui_event_time_ms", "critical_path_tasks",
}

// WriteTraceCSV writes one row per TaskInstance across every run in
// results, in run order and then id order. Empty cells denote "unset".
func WriteTraceCSV(path string, results []sim.RunResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace csv: %w", err)
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(traceColumns); err != nil {
		return fmt.Errorf("writing trace csv header: %w", err)
	}

	for _, run := range results {
		for _, inst := range run.Instances {
			parent := ""
			if inst.HasParent() {
				parent = strconv.FormatInt(inst.ParentTaskInstanceID, 10)
			}
			capParent := ""
			if inst.HasCapacityParent() {
				capParent = strconv.FormatInt(inst.CapacityParentInstanceID, 10)
			}

			row := []string{
				strconv.Itoa(run.RunIndex),
				strconv.FormatInt(inst.ID, 10),
				inst.TaskName,
				inst.Context,
				formatMs(inst.EnqueueMs),
				formatMs(inst.StartMs),
				formatMs(inst.EndMs),
				parent,
				capParent,
				strconv.FormatBool(inst.Synthetic),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("writing trace csv row (run %d, instance %d): %w", run.RunIndex, inst.ID, err)
			}
		}
	}
	return nil
}

// WriteRunsCSV writes one row per run: its seed, makespan, UI timing (empty
// if that run observed no UI event), and critical path string.
func WriteRunsCSV(path string, results []sim.RunResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating runs csv: %w", err)
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(runsColumns); err != nil {
		return fmt.Errorf("writing runs csv header: %w", err)
	}

	for _, run := range results {
		firstUI, lastUI := "", ""
		if run.FirstUIEventMs != nil {
			firstUI = formatMs(*run.FirstUIEventMs)
		}
		if run.LastUIEventMs != nil {
			lastUI = formatMs(*run.LastUIEventMs)
		}

		row := []string{
			strconv.Itoa(run.RunIndex),
			strconv.FormatInt(run.Seed, 10),
			formatMs(run.MakespanMs),
			firstUI,
			lastUI,
			run.CriticalPathTasks,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing runs csv row (run %d): %w", run.RunIndex, err)
		}
	}
	return nil
}

func formatMs(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
