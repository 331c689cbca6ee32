package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BatchConfig holds simulate flag defaults loadable from a YAML file, so a
// batch can be reproduced by config file instead of a long flag line.
// Nil pointer fields mean "not set in YAML" — they do not override whatever
// the flag's own default or an explicit command-line flag already set.
// Grounded on the teacher's sim/bundle.go PolicyBundle (same
// os.ReadFile + yaml.Unmarshal + fmt.Errorf-wrapped-error shape).
type BatchConfig struct {
	Model          string  `yaml:"model"`
	Runs           *int    `yaml:"runs"`
	Seed           *int64  `yaml:"seed"`
	Out            string  `yaml:"out"`
	LogLevel       string  `yaml:"log"`
	MaxParallelism *uint32 `yaml:"max_parallelism"`
	DeadlineMs     *uint64 `yaml:"deadline_ms"`
	TopK           *int    `yaml:"top_k"`
}

// LoadBatchConfig reads and parses a YAML batch configuration file.
func LoadBatchConfig(path string) (*BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch config: %w", err)
	}
	var cfg BatchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing batch config: %w", err)
	}
	return &cfg, nil
}
