package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StepError, başarısız olan adımı ve alttaki hatayı birlikte taşır.
// Runner ilk hatada durur ve bu hatayı döndürür.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Runner executes a pipeline of steps sequentially and fail-fast:
// the first Apply or Verify error aborts the run, later steps never start.
type Runner struct {
	Pipeline string
}

// NewRunner creates a runner for the named pipeline.
func NewRunner(pipeline string) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run processes the steps in order and returns the report. The report is
// returned even on failure so callers can render partial progress.
func (r *Runner) Run(ctx *RunContext, steps []Step) (*Report, error) {
	report := &Report{
		RunID:    uuid.New().String(),
		Pipeline: r.Pipeline,
		Target:   ctx.Transport.Describe(),
		Started:  time.Now(),
		DryRun:   ctx.DryRun,
	}
	defer func() { report.Finished = time.Now() }()

	for i, step := range steps {
		// 0. Abort on cancellation (Ctrl+C)
		if err := ctx.Err(); err != nil {
			return report, err
		}

		label := fmt.Sprintf("[%d/%d] %s", i+1, len(steps), step.Name())

		// 0.5 Check Condition (When)
		if cond, ok := step.(Conditional); ok && cond.When() != "" {
			shouldRun, err := EvaluateCondition(cond.When(), ctx)
			if err != nil {
				report.Results = append(report.Results, failedResult(step, 0, err))
				return report, &StepError{Step: step.Name(), Err: fmt.Errorf("condition %q: %w", cond.When(), err)}
			}
			if !shouldRun {
				ctx.Logger.Debug(fmt.Sprintf("[%s] Skipped (condition not met: %s)", step.Name(), cond.When()))
				ctx.UI.Skip(label, "condition not met")
				report.Results = append(report.Results, skippedResult(step, 0, "condition not met"))
				continue
			}
		}

		// 1. Validate step configuration
		if v, ok := step.(Validator); ok {
			if err := v.Validate(); err != nil {
				ctx.Logger.Error(fmt.Sprintf("[%s] Validation failed: %v", step.Name(), err))
				report.Results = append(report.Results, failedResult(step, 0, err))
				return report, &StepError{Step: step.Name(), Err: err}
			}
		}

		started := time.Now()
		ctx.UI.Start(label)

		// 2. Precondition: already satisfied means the action is skipped
		satisfied, err := step.Check(ctx)
		if err != nil {
			ctx.UI.Fail(label, err.Error())
			ctx.Logger.Error(fmt.Sprintf("[%s] Check failed: %v", step.Name(), err))
			report.Results = append(report.Results, failedResult(step, time.Since(started), err))
			return report, &StepError{Step: step.Name(), Err: err}
		}
		if satisfied {
			ctx.Logger.Debug(fmt.Sprintf("[%s] Skipped (already satisfied)", step.Name()))
			ctx.UI.Skip(label, "already satisfied")
			report.Results = append(report.Results, skippedResult(step, time.Since(started), "already satisfied"))
			continue
		}

		// Dry-run: Check çalışır, Apply asla.
		if ctx.DryRun {
			msg := "dry-run: would apply"
			ctx.Logger.Info(fmt.Sprintf("[%s] %s", step.Name(), msg))
			ctx.UI.Skip(label, msg)
			report.Results = append(report.Results, skippedResult(step, time.Since(started), msg))
			continue
		}

		// 3. Apply
		result, err := step.Apply(ctx)
		if err != nil {
			ctx.UI.Fail(label, err.Error())
			ctx.Logger.Error(fmt.Sprintf("[%s] Failed: %v", step.Name(), err))
			report.Results = append(report.Results, failedResult(step, time.Since(started), err))
			return report, &StepError{Step: step.Name(), Err: err}
		}

		// 4. Postcondition (if supported, and only when something ran)
		if ver, ok := step.(Verifier); ok && result.Changed {
			if err := ver.Verify(ctx); err != nil {
				ctx.UI.Fail(label, err.Error())
				ctx.Logger.Error(fmt.Sprintf("[%s] Verify failed: %v", step.Name(), err))
				report.Results = append(report.Results, failedResult(step, time.Since(started), err))
				return report, &StepError{Step: step.Name(), Err: fmt.Errorf("verify: %w", err)}
			}
		}

		duration := time.Since(started)
		if result.Changed {
			ctx.Logger.Info(fmt.Sprintf("[%s] %s", step.Name(), result.Message))
			ctx.UI.Done(label, result.Message)
			report.Results = append(report.Results, StepResult{
				Step:     step.Name(),
				Kind:     step.Kind(),
				Status:   StatusDone,
				Message:  result.Message,
				Output:   result.Output,
				Duration: duration,
			})
		} else {
			msg := "OK"
			if result.Message != "" {
				msg = result.Message
			}
			ctx.Logger.Debug(fmt.Sprintf("[%s] %s", step.Name(), msg))
			ctx.UI.Skip(label, msg)
			report.Results = append(report.Results, skippedResult(step, duration, msg))
		}
	}

	return report, nil
}

func skippedResult(step Step, d time.Duration, msg string) StepResult {
	return StepResult{
		Step:     step.Name(),
		Kind:     step.Kind(),
		Status:   StatusSkipped,
		Message:  msg,
		Duration: d,
	}
}

func failedResult(step Step, d time.Duration, err error) StepResult {
	return StepResult{
		Step:     step.Name(),
		Kind:     step.Kind(),
		Status:   StatusFailed,
		Error:    err.Error(),
		Duration: d,
	}
}
