package model

import (
	"encoding/json"
	"fmt"
)

type rawModel struct {
	SchemaVersion *int                       `json:"schema_version"`
	Version       *int                       `json:"version"`
	ModelVersion  *int                       `json:"model_version"`
	EntryEvent    string                     `json:"entry_event"`
	Contexts      map[string]rawContext      `json:"contexts"`
	Events        map[string]rawEvent        `json:"events"`
	Tasks         map[string]rawTask         `json:"tasks"`
	Wiring        map[string][]json.RawMessage `json:"wiring"`
}

type rawContext struct {
	Concurrency int    `json:"concurrency"`
	Policy      string `json:"policy"`
}

type rawEvent struct {
	Tags []string `json:"tags"`
}

type rawTask struct {
	Context    string          `json:"context"`
	DurationMs json.RawMessage `json:"duration_ms"`
	Emit       []string        `json:"emit"`
	Meta       *rawMeta        `json:"meta"`
}

type rawMeta struct {
	Category string            `json:"category"`
	Tags     []string          `json:"tags"`
	Labels   map[string]string `json:"labels"`
}

type rawDist struct {
	Dist  string   `json:"dist"`
	Value *float64 `json:"value"`
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *float64 `json:"min"`
	Mu    *float64 `json:"mu"`
	Sigma *float64 `json:"sigma"`
}

type rawWiringEdge struct {
	Task    string          `json:"task"`
	DelayMs json.RawMessage `json:"delay_ms"`
}

// FromJSON parses the LatencyLab model JSON shape described in the model
// format reference: a schema_version/version/model_version alias, contexts,
// events, tasks (each with a duration_ms distribution and an emit list), and
// wiring (event name -> list of task names or {task, delay_ms?} objects). A
// bare numeric delay_ms is shorthand for Fixed{value: <number>}.
func FromJSON(data []byte) (*Model, error) {
	var raw rawModel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("model: parsing JSON: %w", err)
	}

	m := &Model{
		SchemaVersion: schemaVersionOf(raw),
		EntryEvent:    raw.EntryEvent,
		Contexts:      make(map[string]ContextDef, len(raw.Contexts)),
		Events:        make(map[string]EventDef, len(raw.Events)),
		Tasks:         make(map[string]TaskDef, len(raw.Tasks)),
		Wiring:        make(map[string][]WiringEdge, len(raw.Wiring)),
	}

	for name, c := range raw.Contexts {
		policy := c.Policy
		if policy == "" {
			policy = "fifo"
		}
		m.Contexts[name] = ContextDef{Concurrency: c.Concurrency, Policy: policy}
	}

	for name, e := range raw.Events {
		m.Events[name] = EventDef{Tags: e.Tags}
	}

	for name, t := range raw.Tasks {
		dist, err := parseDist(t.DurationMs)
		if err != nil {
			return nil, fmt.Errorf("model: task %q: %w", name, err)
		}
		task := TaskDef{
			Context:  t.Context,
			Duration: dist,
			Emit:     t.Emit,
		}
		if t.Meta != nil {
			task.Meta = &TaskMeta{
				Category: t.Meta.Category,
				Tags:     t.Meta.Tags,
				Labels:   t.Meta.Labels,
			}
		}
		m.Tasks[name] = task
	}

	for event, listeners := range raw.Wiring {
		edges := make([]WiringEdge, 0, len(listeners))
		for _, l := range listeners {
			edge, err := parseWiringListener(l)
			if err != nil {
				return nil, fmt.Errorf("model: wiring %q: %w", event, err)
			}
			edges = append(edges, edge)
		}
		m.Wiring[event] = edges
	}

	return m, nil
}

func schemaVersionOf(raw rawModel) int {
	switch {
	case raw.SchemaVersion != nil:
		return *raw.SchemaVersion
	case raw.Version != nil:
		return *raw.Version
	case raw.ModelVersion != nil:
		return *raw.ModelVersion
	default:
		return 0
	}
}

func parseDist(data json.RawMessage) (DurationDist, error) {
	if len(data) == 0 {
		return DurationDist{}, fmt.Errorf("duration_ms is required")
	}
	var rd rawDist
	if err := json.Unmarshal(data, &rd); err != nil {
		return DurationDist{}, fmt.Errorf("parsing duration_ms: %w", err)
	}
	switch rd.Dist {
	case "fixed":
		if rd.Value == nil {
			return DurationDist{}, fmt.Errorf("fixed dist requires 'value'")
		}
		return DurationDist{Kind: DistFixed, Value: *rd.Value}, nil
	case "normal":
		if rd.Mean == nil || rd.Std == nil {
			return DurationDist{}, fmt.Errorf("normal dist requires 'mean' and 'std'")
		}
		return DurationDist{Kind: DistNormal, Mean: *rd.Mean, Std: *rd.Std, Min: rd.Min}, nil
	case "lognormal":
		if rd.Mu == nil || rd.Sigma == nil {
			return DurationDist{}, fmt.Errorf("lognormal dist requires 'mu' and 'sigma'")
		}
		return DurationDist{Kind: DistLognormal, Mu: *rd.Mu, Sigma: *rd.Sigma}, nil
	default:
		return DurationDist{}, fmt.Errorf("unsupported dist %q", rd.Dist)
	}
}

// parseWiringListener accepts either a bare task name string or an object
// {"task": ..., "delay_ms": <dist object> | <number> | null}.
func parseWiringListener(data json.RawMessage) (WiringEdge, error) {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		return WiringEdge{Task: asString}, nil
	}

	var raw rawWiringEdge
	if err := json.Unmarshal(data, &raw); err != nil {
		return WiringEdge{}, fmt.Errorf("wiring listeners must be strings or objects: %w", err)
	}
	delay, err := parseDelay(raw.DelayMs)
	if err != nil {
		return WiringEdge{}, err
	}
	return WiringEdge{Task: raw.Task, Delay: delay}, nil
}

func parseDelay(data json.RawMessage) (*DurationDist, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		return &DurationDist{Kind: DistFixed, Value: num}, nil
	}
	dist, err := parseDist(data)
	if err != nil {
		return nil, fmt.Errorf("delay_ms must be a number or a dist object: %w", err)
	}
	return &dist, nil
}
