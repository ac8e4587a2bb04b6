package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is one conformance case: a program, the worker counts to run it
// with, and the outcome every run must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Program is inline source. Exactly one of Program and File is set.
	Program string `yaml:"program,omitempty"`

	// File is a program path, relative to the scenario file.
	File string `yaml:"file,omitempty"`

	// Workers lists the worker counts to run with. Defaults to [1].
	Workers []int `yaml:"workers,omitempty"`

	// Capacity overrides the arena sizes.
	Capacity *Capacity `yaml:"capacity,omitempty"`

	// Expect is the outcome every run must produce.
	Expect Expect `yaml:"expect"`
}

// Capacity sets arena sizes for a scenario.
type Capacity struct {
	Nodes uint32 `yaml:"nodes"`
	Vars  uint32 `yaml:"vars"`
}

// Expect is the required outcome. Either Result or Error is set.
type Expect struct {
	// Result is the printed normal form.
	Result string `yaml:"result,omitempty"`

	// Interactions, when set, is the exact rewrite count.
	Interactions *uint64 `yaml:"interactions,omitempty"`

	// Error is the error code the program must fail with, e.g.
	// CAPACITY_EXHAUSTED or SYNTAX_ERROR.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative File is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}

	if scenario.File != "" && !filepath.IsAbs(scenario.File) {
		scenario.File = filepath.Join(filepath.Dir(path), scenario.File)
	}
	if len(scenario.Workers) == 0 {
		scenario.Workers = []int{1}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// LoadScenarios loads every .yaml and .yml file under dir, sorted by path.
// Scenario names must be unique.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := filepath.Ext(path)
		if !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan scenarios: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	sort.Strings(paths)

	seen := map[string]string{}
	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("duplicate scenario name %q in %s and %s", s.Name, prev, path)
		}
		seen[s.Name] = path
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Source returns the program text, reading File if needed.
func (s *Scenario) Source() (string, error) {
	if s.File == "" {
		return s.Program, nil
	}
	data, err := os.ReadFile(s.File)
	if err != nil {
		return "", fmt.Errorf("read program: %w", err)
	}
	return string(data), nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Program == "") == (s.File == "") {
		return fmt.Errorf("exactly one of program and file is required")
	}

	for i, w := range s.Workers {
		if w < 1 {
			return fmt.Errorf("workers[%d]: must be at least 1, got %d", i, w)
		}
	}

	if s.Capacity != nil && (s.Capacity.Nodes < 2 || s.Capacity.Vars < 2) {
		return fmt.Errorf("capacity: nodes and vars must be at least 2")
	}

	if (s.Expect.Result == "") == (s.Expect.Error == "") {
		return fmt.Errorf("expect: exactly one of result and error is required")
	}

	if s.Expect.Error != "" && !knownCode(s.Expect.Error) {
		return fmt.Errorf("expect.error: unknown code %q", s.Expect.Error)
	}

	return nil
}
