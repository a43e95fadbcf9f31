package core_test

import (
	"errors"
	"testing"

	"github.com/melih-ucgun/bedrock/internal/core"
)

func TestPlanSteps(t *testing.T) {
	var applied []string

	satisfied := newStep("timezone", nil)
	satisfied.checkSatisfied = true

	pending := newStep("packages", &applied)

	unknown := newStep("s3-bucket", &applied)
	unknown.checkErr = errors.New("no credentials")

	excluded := &conditionalStep{mockStep: *newStep("ubuntu-only", &applied), when: `distro == "ubuntu"`}

	ctx := newRunContext(t)
	ctx.Distro = "debian"

	results := core.PlanSteps(ctx, []core.Step{satisfied, pending, unknown, excluded})

	if len(applied) != 0 {
		t.Fatalf("plan must never apply, got %v", applied)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	want := map[string]core.PlanStatus{
		"timezone":    core.PlanSatisfied,
		"packages":    core.PlanPending,
		"s3-bucket":   core.PlanUnknown,
		"ubuntu-only": core.PlanSkipped,
	}
	for _, r := range results {
		if r.Status != want[r.Step] {
			t.Errorf("step %s status = %q, want %q", r.Step, r.Status, want[r.Step])
		}
	}

	// Check hatası planı durdurmaz: sonraki adımlar yine denetlenir.
	if results[3].Step != "ubuntu-only" {
		t.Errorf("audit should continue past unknown steps: %+v", results)
	}

	if n := core.PendingCount(results); n != 1 {
		t.Errorf("PendingCount = %d, want 1", n)
	}
}
