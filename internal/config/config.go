package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"runtime"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/saikumarakula/HVM/internal/engine"
)

//go:embed schema.cue
var schemaSource string

// Backend locates an external runtime. Runner is an executable that takes
// the path of a binary Book; Template overrides the bundled source template.
type Backend struct {
	Runner   string `yaml:"runner,omitempty" json:"runner,omitempty"`
	Template string `yaml:"template,omitempty" json:"template,omitempty"`
}

// Config holds everything a run needs besides the program itself.
type Config struct {
	Workers        int     `yaml:"workers" json:"workers"`
	NodeCapacity   int     `yaml:"node_capacity" json:"node_capacity"`
	VarsCapacity   int     `yaml:"vars_capacity" json:"vars_capacity"`
	WindowSize     int     `yaml:"window_size" json:"window_size"`
	ShareThreshold int     `yaml:"share_threshold" json:"share_threshold"`
	Native         Backend `yaml:"native,omitempty" json:"native,omitempty"`
	Accelerated    Backend `yaml:"accelerated,omitempty" json:"accelerated,omitempty"`
	RecordDB       string  `yaml:"record_db,omitempty" json:"record_db,omitempty"`
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Workers:        runtime.GOMAXPROCS(0),
		NodeCapacity:   int(engine.DefaultNodeCapacity),
		VarsCapacity:   int(engine.DefaultVarsCapacity),
		WindowSize:     int(engine.DefaultWindowSize),
		ShareThreshold: engine.DefaultShareThreshold,
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// RunOptions converts the configuration into engine options.
func (c Config) RunOptions() []engine.RunOption {
	return []engine.RunOption{
		engine.WithWorkers(c.Workers),
		engine.WithCapacity(uint32(c.NodeCapacity), uint32(c.VarsCapacity)),
		engine.WithWindowSize(uint32(c.WindowSize)),
		engine.WithShareThreshold(c.ShareThreshold),
	}
}
