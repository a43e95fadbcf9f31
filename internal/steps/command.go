package steps

import (
	"fmt"
	"strings"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// CommandStep, konfigürasyondan gelen serbest komut adımıdır
// (extra_steps). Kendi başına idempotent değildir; durum kontrolü
// isteniyorsa `unless` kullanılmalıdır.
type CommandStep struct {
	core.BaseStep `mapstructure:"-"`

	Command string `mapstructure:"command"`
	Unless  string `mapstructure:"unless"` // exit 0 dönerse asıl komut çalışmaz
	RunAs   string `mapstructure:"run_as"`

	condition string
}

// NewCommandStep builds a command step programmatically; the registry
// path goes through the factory instead.
func NewCommandStep(name, command, unless string) *CommandStep {
	return &CommandStep{
		BaseStep: core.BaseStep{StepName: name, StepKind: "command"},
		Command:  command,
		Unless:   unless,
	}
}

func (s *CommandStep) When() string { return s.condition }

// SetWhen attaches the config-level when expression.
func (s *CommandStep) SetWhen(expr string) { s.condition = expr }

func (s *CommandStep) Validate() error {
	if strings.TrimSpace(s.Command) == "" {
		return fmt.Errorf("command step %q: command is required", s.Name())
	}
	return nil
}

// Check runs the unless probe. Without one the command always applies.
func (s *CommandStep) Check(ctx *core.RunContext) (bool, error) {
	if s.Unless == "" {
		return false, nil
	}
	probe, err := core.ExecuteTemplate(s.Unless, ctx)
	if err != nil {
		return false, fmt.Errorf("render unless: %w", err)
	}
	if _, err := ctx.Transport.Execute(ctx, probe); err == nil {
		return true, nil
	}
	return false, nil
}

func (s *CommandStep) Apply(ctx *core.RunContext) (core.Result, error) {
	cmd, err := core.ExecuteTemplate(s.Command, ctx)
	if err != nil {
		return core.Result{}, fmt.Errorf("render command: %w", err)
	}
	if s.RunAs != "" {
		cmd = fmt.Sprintf("su - %s -c %q", s.RunAs, cmd)
	}

	out, err := ctx.Transport.Execute(ctx, cmd)
	if err != nil {
		return core.Result{}, fmt.Errorf("command failed: %w, output:\n%s", err, out)
	}
	return core.SuccessChange("command completed").WithOutput(out), nil
}
