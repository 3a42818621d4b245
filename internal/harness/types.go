package harness

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name     string `json:"name"`
	Question string `json:"question"`

	RequestID   string   `json:"request_id"`
	Query       string   `json:"query"`
	Object      string   `json:"object"`
	Diagnostics []string `json:"diagnostics"`

	// Pass is true when every check of the case matched.
	Pass bool `json:"pass"`

	// Errors holds one message per failed check.
	Errors []string `json:"errors,omitempty"`
}

// AddError records a failed check and marks the case as failed.
func (c *CaseResult) AddError(err string) {
	c.Errors = append(c.Errors, err)
	c.Pass = false
}

// Result is the outcome of running a suite.
type Result struct {
	Suite string `json:"suite"`

	// Pass is true when every case passed.
	Pass bool `json:"pass"`

	Cases []CaseResult `json:"cases"`
}

// NewResult creates a passing result with no cases.
func NewResult(suite string) *Result {
	return &Result{
		Suite: suite,
		Pass:  true,
		Cases: []CaseResult{},
	}
}

// Add appends a case result, failing the suite if the case failed.
func (r *Result) Add(c CaseResult) {
	r.Cases = append(r.Cases, c)
	if !c.Pass {
		r.Pass = false
	}
}

// Passed counts passing cases.
func (r *Result) Passed() int {
	n := 0
	for _, c := range r.Cases {
		if c.Pass {
			n++
		}
	}
	return n
}

// Failed counts failing cases.
func (r *Result) Failed() int {
	return len(r.Cases) - r.Passed()
}
