package core

import "fmt"

// PlanStatus, bir adımın uygulanmadan yapılan denetimdeki durumudur.
type PlanStatus string

const (
	// PlanSatisfied: önkoşul zaten sağlanıyor, Apply gerekmez.
	PlanSatisfied PlanStatus = "satisfied"
	// PlanPending: Apply çalışacak.
	PlanPending PlanStatus = "pending"
	// PlanSkipped: when koşulu adımı dışlıyor.
	PlanSkipped PlanStatus = "skipped"
	// PlanUnknown: Check değerlendirilemedi (ör. kimlik bilgisi yok).
	PlanUnknown PlanStatus = "unknown"
)

// PlanResult holds the audit outcome for one step.
type PlanResult struct {
	Step   string
	Kind   string
	Status PlanStatus
	Detail string
}

// PlanSteps evaluates every step's condition and precondition without
// applying anything. Unlike a run, a failing Check is not fatal here:
// the step is reported as unknown and the audit continues, so one
// unreachable service does not hide the rest of the plan.
func PlanSteps(ctx *RunContext, steps []Step) []PlanResult {
	results := make([]PlanResult, 0, len(steps))

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			break
		}

		if cond, ok := step.(Conditional); ok && cond.When() != "" {
			shouldRun, err := EvaluateCondition(cond.When(), ctx)
			if err != nil {
				results = append(results, PlanResult{
					Step: step.Name(), Kind: step.Kind(),
					Status: PlanUnknown,
					Detail: fmt.Sprintf("condition %q: %v", cond.When(), err),
				})
				continue
			}
			if !shouldRun {
				results = append(results, PlanResult{
					Step: step.Name(), Kind: step.Kind(),
					Status: PlanSkipped,
					Detail: "condition not met: " + cond.When(),
				})
				continue
			}
		}

		satisfied, err := step.Check(ctx)
		switch {
		case err != nil:
			results = append(results, PlanResult{
				Step: step.Name(), Kind: step.Kind(),
				Status: PlanUnknown,
				Detail: err.Error(),
			})
		case satisfied:
			results = append(results, PlanResult{
				Step: step.Name(), Kind: step.Kind(),
				Status: PlanSatisfied,
			})
		default:
			results = append(results, PlanResult{
				Step: step.Name(), Kind: step.Kind(),
				Status: PlanPending,
			})
		}
	}

	return results
}

// PendingCount returns how many steps would apply.
func PendingCount(results []PlanResult) int {
	n := 0
	for _, r := range results {
		if r.Status == PlanPending {
			n++
		}
	}
	return n
}
