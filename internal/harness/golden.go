package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden replays a scenario and compares the written document
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// The scenario must reach end_document; failed assertions fail the test.
func RunWithGolden(t *testing.T, scenario *Scenario, cfg Config) *Result {
	t.Helper()

	result, err := Run(context.Background(), scenario, cfg)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}
	if result.Data == nil {
		t.Fatalf("scenario %s produced no document", scenario.Name)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, result.Data)
	return result
}
