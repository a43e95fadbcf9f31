package steps

import (
	"sort"

	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/state"
)

// SummaryStep, çalışmanın yayınladığı değerleri kullanıcıya gösterir ve
// outputs.json'a işler. Pipeline'ın son adımıdır; değerlerin kalıcı
// olması sonraki çalışmaların (bucket adı gibi) aynı kaynakları
// kullanmasını sağlar.
type SummaryStep struct {
	core.BaseStep
	Store *state.Store
}

func NewSummaryStep(store *state.Store) *SummaryStep {
	return &SummaryStep{
		BaseStep: core.BaseStep{StepName: "summary", StepKind: "summary"},
		Store:    store,
	}
}

func (s *SummaryStep) Check(ctx *core.RunContext) (bool, error) {
	return false, nil
}

func (s *SummaryStep) Apply(ctx *core.RunContext) (core.Result, error) {
	outputs := ctx.Outputs()

	if len(outputs) > 0 {
		ctx.UI.Section("Outputs")
		keys := make([]string, 0, len(outputs))
		for k := range outputs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ctx.UI.Printf("  %-18s %s\n", k, outputs[k])
		}
	}

	if s.Store != nil && len(outputs) > 0 {
		if err := s.Store.MergeOutputs(outputs); err != nil {
			return core.Result{}, err
		}
	}

	return core.SuccessNoChange("outputs recorded"), nil
}
