package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/jp/internal/patch"
)

// RunWithGolden executes a scenario and, for diff scenarios, pins the
// serialized patch against testdata/golden/{scenario.Name}.golden.
// The byte-level pin is what guards the determinism contract: a diff
// that starts emitting the same operations in a different order or
// formatting breaks patch files kept under version control.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) *Result {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		t.Fatalf("scenario %s: %v", s.Name, err)
	}
	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", s.Name, msg)
	}

	if s.IsDiff() {
		g := goldie.New(t,
			goldie.WithFixtureDir("testdata/golden"),
			goldie.WithNameSuffix(".golden"),
		)
		g.Assert(t, s.Name, patch.Encode(result.Patch))
	}
	return result
}
