package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON_SchemaVersionAliases(t *testing.T) {
	for _, key := range []string{"schema_version", "version", "model_version"} {
		data := []byte(`{"` + key + `":2,"entry_event":"e0","events":{"e0":{}}}`)
		m, err := FromJSON(data)
		require.NoError(t, err)
		assert.Equal(t, 2, m.SchemaVersion)
	}
}

func TestFromJSON_NumericDelayShorthand(t *testing.T) {
	data := []byte(`{
		"schema_version": 2,
		"entry_event": "e0",
		"contexts": {"ui": {"concurrency": 1}},
		"events": {"e0": {"tags": ["ui"]}},
		"tasks": {"t": {"context": "ui", "duration_ms": {"dist": "fixed", "value": 1.0}, "emit": []}},
		"wiring": {"e0": [{"task": "t", "delay_ms": 5}]}
	}`)
	m, err := FromJSON(data)
	require.NoError(t, err)
	require.Len(t, m.Wiring["e0"], 1)
	edge := m.Wiring["e0"][0]
	require.NotNil(t, edge.Delay)
	assert.Equal(t, DistFixed, edge.Delay.Kind)
	assert.Equal(t, 5.0, edge.Delay.Value)
}

func TestFromJSON_StringWiringListener(t *testing.T) {
	data := []byte(`{
		"schema_version": 1,
		"entry_event": "e0",
		"contexts": {"ui": {"concurrency": 1}},
		"events": {"e0": {}},
		"tasks": {"t": {"context": "ui", "duration_ms": {"dist": "fixed", "value": 1.0}}},
		"wiring": {"e0": ["t"]}
	}`)
	m, err := FromJSON(data)
	require.NoError(t, err)
	require.Len(t, m.Wiring["e0"], 1)
	assert.Equal(t, "t", m.Wiring["e0"][0].Task)
	assert.Nil(t, m.Wiring["e0"][0].Delay)
}

func TestFromJSON_RejectsBadDelayType(t *testing.T) {
	data := []byte(`{
		"schema_version": 2,
		"entry_event": "e0",
		"contexts": {"ui": {"concurrency": 1}},
		"events": {"e0": {}},
		"tasks": {"t": {"context": "ui", "duration_ms": {"dist": "fixed", "value": 1.0}}},
		"wiring": {"e0": [{"task": "t", "delay_ms": "nope"}]}
	}`)
	_, err := FromJSON(data)
	require.Error(t, err)
}

func TestFromJSON_DistVariants(t *testing.T) {
	cases := []struct {
		name string
		json string
		want DurationDist
	}{
		{"fixed", `{"dist":"fixed","value":10}`, DurationDist{Kind: DistFixed, Value: 10}},
		{"normal", `{"dist":"normal","mean":10,"std":2}`, DurationDist{Kind: DistNormal, Mean: 10, Std: 2}},
		{"lognormal", `{"dist":"lognormal","mu":1,"sigma":0.5}`, DurationDist{Kind: DistLognormal, Mu: 1, Sigma: 0.5}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := parseDist([]byte(c.json))
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}
