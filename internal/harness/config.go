package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig is the corpus-wide configuration for a conformance run: which
// fixtures to check and where their expected-output baselines live, loaded
// from a YAML file rather than per-fixture directives (spec §6, the
// harness-directive loader's non-JSON config path).
type RunConfig struct {
	Corpus struct {
		Root    string   `yaml:"root"`
		Include []string `yaml:"include"`
		Exclude []string `yaml:"exclude"`
	} `yaml:"corpus"`
	BaselineDir string `yaml:"baselineDir"`
	// FailOnNewBaseline makes a fixture whose baseline file is missing fail
	// instead of writing a new baseline, for CI use. A mismatch against an
	// existing baseline fails either way.
	FailOnNewBaseline bool `yaml:"failOnNewBaseline"`
}

// LoadRunConfig reads and parses a RunConfig from path.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: reading run config: %w", err)
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("harness: parsing run config: %w", err)
	}
	if cfg.Corpus.Root == "" {
		return nil, fmt.Errorf("harness: run config missing required field: corpus.root")
	}
	return &cfg, nil
}

// ToCorpus builds the Corpus this run config describes.
func (c *RunConfig) ToCorpus() Corpus {
	return Corpus{Root: c.Corpus.Root, Include: c.Corpus.Include, Exclude: c.Corpus.Exclude}
}
