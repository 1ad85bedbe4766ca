package harness

import (
	"errors"
	"fmt"

	"github.com/roach88/jp/internal/diff"
	"github.com/roach88/jp/internal/doc"
	"github.com/roach88/jp/internal/patch"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Pass indicates the scenario's expectations held.
	Pass bool

	// Errors lists expectation violations. Empty when Pass is true.
	Errors []string

	// Document is the applied result of a successful apply scenario.
	Document doc.Value

	// Patch is the computed patch of a diff scenario.
	Patch patch.Patch
}

// AddError records an expectation violation and fails the result.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run executes a scenario. The returned error means the scenario
// itself was unusable; expectation violations land in Result.Errors.
func Run(s *Scenario) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.IsDiff() {
		return runDiffScenario(s)
	}
	return runApplyScenario(s)
}

func runApplyScenario(s *Scenario) (*Result, error) {
	input, err := doc.FromYAMLNode(s.Doc)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: doc: %w", s.Name, err)
	}
	patchValue, err := doc.FromYAMLNode(s.Patch)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: patch: %w", s.Name, err)
	}
	p, err := patch.FromValue(patchValue)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: patch: %w", s.Name, err)
	}

	result := &Result{Pass: true}
	applied, applyErr := patch.Apply(input, p)

	if s.Expect.Error != "" {
		var ae *patch.ApplyError
		switch {
		case applyErr == nil:
			result.AddError("expected %s but apply succeeded", s.Expect.Error)
		case !errors.As(applyErr, &ae):
			result.AddError("expected %s but got %v", s.Expect.Error, applyErr)
		case string(ae.Code) != s.Expect.Error:
			result.AddError("expected %s but got %s", s.Expect.Error, ae.Code)
		}
		return result, nil
	}

	if applyErr != nil {
		result.AddError("apply failed: %v", applyErr)
		return result, nil
	}
	result.Document = applied

	expected, err := doc.FromYAMLNode(s.Expect.Result)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: expect.result: %w", s.Name, err)
	}
	if !doc.Equal(applied, expected) {
		result.AddError("result mismatch:\nwant: %s\ngot:  %s",
			doc.EncodeJSON(expected), doc.EncodeJSON(applied))
	}
	return result, nil
}

func runDiffScenario(s *Scenario) (*Result, error) {
	from, err := doc.FromYAMLNode(s.From)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: from: %w", s.Name, err)
	}
	to, err := doc.FromYAMLNode(s.To)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: to: %w", s.Name, err)
	}

	result := &Result{Pass: true}
	p := diff.Diff(from, to)
	result.Patch = p

	// Round-trip correctness is the diff engine's primary invariant;
	// every diff scenario checks it regardless of the golden file.
	applied, applyErr := patch.Apply(from, p)
	if applyErr != nil {
		result.AddError("computed patch does not apply: %v", applyErr)
		return result, nil
	}
	if !doc.Equal(applied, to) {
		result.AddError("round trip mismatch:\nwant: %s\ngot:  %s",
			doc.EncodeJSON(to), doc.EncodeJSON(applied))
	}
	return result, nil
}
