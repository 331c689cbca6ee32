package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModelJSON = `{
  "schema_version": 2,
  "entry_event": "start",
  "contexts": {"c1": {"concurrency": 1, "policy": "fifo"}},
  "events": {"start": {}, "done": {"tags": ["ui"]}},
  "tasks": {
    "t1": {"context": "c1", "duration_ms": {"dist": "fixed", "value": 5}, "emit": ["done"]}
  },
  "wiring": {"start": ["t1"]}
}`

func TestSimulateCmd_WritesOutputFiles(t *testing.T) {
	dir := t.TempDir()
	modelFile := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(modelFile, []byte(sampleModelJSON), 0644))

	outDir := filepath.Join(dir, "out")

	root := newRootCmd()
	root.SetArgs([]string{
		"simulate",
		"--model", modelFile,
		"--runs", "5",
		"--seed", "1",
		"--out", outDir,
		"--log", "error",
	})
	require.NoError(t, root.Execute())

	assert.FileExists(t, filepath.Join(outDir, "trace.csv"))
	assert.FileExists(t, filepath.Join(outDir, "runs.csv"))
	assert.FileExists(t, filepath.Join(outDir, "summary.json"))
}

func TestSimulateCmd_LoadsDefaultsFromYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	modelFile := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(modelFile, []byte(sampleModelJSON), 0644))

	outDir := filepath.Join(dir, "out")
	configFile := filepath.Join(dir, "batch.yaml")
	configYAML := "model: " + modelFile + "\nruns: 3\nseed: 9\nout: " + outDir + "\nlog: error\n"
	require.NoError(t, os.WriteFile(configFile, []byte(configYAML), 0644))

	root := newRootCmd()
	root.SetArgs([]string{"simulate", "--config", configFile})
	require.NoError(t, root.Execute())

	assert.FileExists(t, filepath.Join(outDir, "summary.json"))
}

func TestLoadBatchConfig_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs: 50\nseed: 7\n"), 0644))

	cfg, err := LoadBatchConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Runs)
	assert.Equal(t, 50, *cfg.Runs)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(7), *cfg.Seed)
}
