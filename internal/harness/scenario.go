package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario. Exactly one of the
// two shapes must be used:
//
//   - apply scenario: Doc + Patch, with Expect.Result or Expect.Error
//   - diff scenario: From + To, checked for round-trip correctness
//     and pinned by a golden patch file named after the scenario
//
// Document-shaped fields stay as yaml.Node so mapping order survives
// into the document model.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Doc is the input document of an apply scenario.
	Doc *yaml.Node `yaml:"doc,omitempty"`

	// Patch is the patch of an apply scenario, in wire shape.
	Patch *yaml.Node `yaml:"patch,omitempty"`

	// From and To are the documents of a diff scenario.
	From *yaml.Node `yaml:"from,omitempty"`
	To   *yaml.Node `yaml:"to,omitempty"`

	// Expect holds the apply scenario's expected outcome.
	Expect ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of an apply scenario.
type ExpectClause struct {
	// Result is the expected document after a successful apply.
	Result *yaml.Node `yaml:"result,omitempty"`

	// Error is the expected ApplyError code (e.g. "TEST_FAILED") of a
	// failing apply. Mutually exclusive with Result.
	Error string `yaml:"error,omitempty"`
}

// IsDiff reports whether the scenario is a diff scenario.
func (s *Scenario) IsDiff() bool { return s.From != nil || s.To != nil }

// Validate checks the scenario shape before execution.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if s.IsDiff() {
		if s.From == nil || s.To == nil {
			return fmt.Errorf("scenario %s: diff scenarios need both from and to", s.Name)
		}
		if s.Doc != nil || s.Patch != nil {
			return fmt.Errorf("scenario %s: diff scenarios cannot carry doc or patch", s.Name)
		}
		if s.Expect.Result != nil || s.Expect.Error != "" {
			return fmt.Errorf("scenario %s: diff scenarios cannot carry expect", s.Name)
		}
		return nil
	}
	if s.Doc == nil || s.Patch == nil {
		return fmt.Errorf("scenario %s: apply scenarios need both doc and patch", s.Name)
	}
	if (s.Expect.Result == nil) == (s.Expect.Error == "") {
		return fmt.Errorf("scenario %s: expect needs exactly one of result or error", s.Name)
	}
	return nil
}

// LoadScenario reads and validates a single scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScenarioDir loads every *.yaml scenario in dir, sorted by file
// name for deterministic test ordering.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
