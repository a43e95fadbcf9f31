package core

import "time"

// Result, bir adımın uygulanması (Apply) sonucunda dönen değerdir.
// Sadece hatayı değil, neyin değiştiğini ve kullanıcıya gösterilecek
// mesajı da taşır.
type Result struct {
	// Changed: Sistemde bir değişiklik yapıldı mı?
	Changed bool

	// Message: Kullanıcıya gösterilecek kısa, tek satırlık mesaj.
	Message string

	// Output: Adımın yakaladığı ham çıktı (komut çıktısı, render edilen
	// metin vb.). Rapora aynen yazılır.
	Output string
}

// SuccessChange, başarılı ve değişiklik içeren bir sonuç döner.
func SuccessChange(msg string) Result {
	return Result{Changed: true, Message: msg}
}

// SuccessNoChange, başarılı ama değişiklik içermeyen bir sonuç döner.
func SuccessNoChange(msg string) Result {
	return Result{Changed: false, Message: msg}
}

// WithOutput, sonuca yakalanan çıktıyı ekler.
func (r Result) WithOutput(out string) Result {
	r.Output = out
	return r
}

// StepStatus is the terminal state of a step within a run.
type StepStatus string

const (
	// StatusDone: the action ran and finished successfully.
	StatusDone StepStatus = "done"
	// StatusSkipped: the precondition already held (or a condition
	// excluded the step); the pipeline still counts as successful.
	StatusSkipped StepStatus = "skipped"
	// StatusFailed: the action (or its verification) failed; the
	// pipeline stops here.
	StatusFailed StepStatus = "failed"
)

func (s StepStatus) String() string {
	return string(s)
}

// StepResult records what happened to one step during a run.
type StepResult struct {
	Step     string        `json:"step"`
	Kind     string        `json:"kind"`
	Status   StepStatus    `json:"status"`
	Message  string        `json:"message,omitempty"`
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report is the full record of a pipeline run.
type Report struct {
	RunID    string       `json:"run_id"`
	Pipeline string       `json:"pipeline"`
	Target   string       `json:"target"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
	DryRun   bool         `json:"dry_run"`
	Results  []StepResult `json:"results"`
}

// Failed reports whether any step in the run failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Counts returns the number of done, skipped and failed steps.
func (r *Report) Counts() (done, skipped, failed int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusDone:
			done++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return done, skipped, failed
}
