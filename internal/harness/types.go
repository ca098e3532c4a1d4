package harness

import (
	"github.com/roach88/assetcare/internal/model"
	"github.com/roach88/assetcare/internal/report"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions hold.
	Pass bool `json:"pass"`

	// Report is the evaluation the assertions were checked against.
	Report *report.EvaluationReport `json:"report"`

	// Fleet is the fleet as read back from the store.
	Fleet *model.Fleet `json:"-"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
