package harness

// Attempt is one run of a scenario's program.
type Attempt struct {
	Workers      int    `json:"workers"`
	Result       string `json:"result,omitempty"`
	Interactions uint64 `json:"interactions"`
	Error        string `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Scenario is the name of the scenario that produced this result.
	Scenario string `json:"scenario"`

	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Attempts holds one entry per worker count, in scenario order. A
	// program that fails to compile has a single attempt with Workers 0.
	Attempts []Attempt `json:"attempts"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Attempts: []Attempt{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
