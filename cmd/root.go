// Package cmd wires the Cobra CLI surface. Grounded on the teacher's
// cmd/root.go (a rootCmd plus a run-style subcommand, flags registered in
// a constructor, Execute() as the sole entry point main.go calls). Flags
// are bound to locals captured by each command's closures rather than
// package-level vars, so building a fresh command tree (as tests do) never
// observes state left over from a previous invocation.
package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/latencylab/latencylab/model"
	"github.com/latencylab/latencylab/modelio"
	"github.com/latencylab/latencylab/sim"
)

// newSimulateCmd builds the `simulate` subcommand: load a model, fan N
// runs out across derived seeds, write trace.csv/runs.csv/summary.json.
func newSimulateCmd() *cobra.Command {
	var (
		modelPath      string
		nRuns          int
		baseSeed       int64
		outDir         string
		logLevel       string
		maxParallelism uint32
		deadlineMs     uint64
		topK           int
		configPath     string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run N seeded simulations of a model and aggregate the results",
		Run: func(cmd *cobra.Command, args []string) {
			if configPath != "" {
				cfg, err := LoadBatchConfig(configPath)
				if err != nil {
					logrus.Fatalf("loading batch config: %v", err)
				}
				if cfg.Model != "" && !cmd.Flags().Changed("model") {
					modelPath = cfg.Model
				}
				if cfg.Runs != nil && !cmd.Flags().Changed("runs") {
					nRuns = *cfg.Runs
				}
				if cfg.Seed != nil && !cmd.Flags().Changed("seed") {
					baseSeed = *cfg.Seed
				}
				if cfg.Out != "" && !cmd.Flags().Changed("out") {
					outDir = cfg.Out
				}
				if cfg.LogLevel != "" && !cmd.Flags().Changed("log") {
					logLevel = cfg.LogLevel
				}
				if cfg.MaxParallelism != nil && !cmd.Flags().Changed("max-parallelism") {
					maxParallelism = *cfg.MaxParallelism
				}
				if cfg.DeadlineMs != nil && !cmd.Flags().Changed("deadline-ms") {
					deadlineMs = *cfg.DeadlineMs
				}
				if cfg.TopK != nil && !cmd.Flags().Changed("top-k") {
					topK = *cfg.TopK
				}
			}

			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				logrus.Fatalf("invalid log level: %s", logLevel)
			}
			logrus.SetLevel(level)

			if modelPath == "" {
				logrus.Fatal("--model is required")
			}

			data, err := os.ReadFile(modelPath)
			if err != nil {
				logrus.Fatalf("reading model file: %v", err)
			}

			m, err := model.FromJSON(data)
			if err != nil {
				logrus.Fatalf("parsing model: %v", err)
			}
			if err := model.Validate(m); err != nil {
				logrus.Fatalf("invalid model: %v", err)
			}

			logrus.WithFields(logrus.Fields{
				"schema_version": m.SchemaVersion,
				"runs":           nRuns,
				"base_seed":      baseSeed,
			}).Info("starting simulation batch")

			opts := sim.DefaultOptions()
			if maxParallelism > 0 {
				opts.MaxParallelism = &maxParallelism
			}
			if deadlineMs > 0 {
				opts.DeadlineMs = &deadlineMs
			}

			results, err := sim.RunMany(context.Background(), m, nRuns, baseSeed, opts)
			if err != nil {
				logrus.WithError(err).Warn("batch did not run to completion")
			}
			if len(results) == 0 {
				logrus.Fatal("no runs completed")
			}

			var meta map[string]model.TaskMeta
			if m.SchemaVersion >= 2 {
				meta = taskMetadataOf(m)
			}
			summary := sim.Aggregate(results, meta, topK)

			if err := os.MkdirAll(outDir, 0755); err != nil {
				logrus.Fatalf("creating output directory: %v", err)
			}
			if err := modelio.WriteTraceCSV(filepath.Join(outDir, "trace.csv"), results); err != nil {
				logrus.Fatalf("writing trace.csv: %v", err)
			}
			if err := modelio.WriteRunsCSV(filepath.Join(outDir, "runs.csv"), results); err != nil {
				logrus.Fatalf("writing runs.csv: %v", err)
			}
			if err := modelio.WriteSummaryJSON(filepath.Join(outDir, "summary.json"), summary); err != nil {
				logrus.Fatalf("writing summary.json: %v", err)
			}

			logrus.Infof("wrote %d runs to %s", len(results), outDir)
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "Path to the model JSON file")
	cmd.Flags().IntVar(&nRuns, "runs", 100, "Number of independent runs")
	cmd.Flags().Int64Var(&baseSeed, "seed", 42, "Master seed mixed per run")
	cmd.Flags().StringVar(&outDir, "out", "./out", "Output directory for trace.csv, runs.csv, summary.json")
	cmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().Uint32Var(&maxParallelism, "max-parallelism", 0, "Maximum concurrent runs (0 = unbounded)")
	cmd.Flags().Uint64Var(&deadlineMs, "deadline-ms", 0, "Stop starting new runs once this many milliseconds have passed since the batch began (0 = none)")
	cmd.Flags().IntVar(&topK, "top-k", 10, "Number of top critical paths to report")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML batch config file; explicit flags take precedence")

	return cmd
}

func taskMetadataOf(m *model.Model) map[string]model.TaskMeta {
	out := make(map[string]model.TaskMeta, len(m.Tasks))
	for name, task := range m.Tasks {
		if task.Meta != nil {
			out[name] = *task.Meta
		}
	}
	return out
}

// newRootCmd builds the CLI's root command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "latencylab",
		Short: "Discrete-event latency simulator for event-driven interactive systems",
	}
	root.AddCommand(newSimulateCmd())
	return root
}

// Execute runs the CLI root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
