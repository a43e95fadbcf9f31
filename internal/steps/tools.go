package steps

import (
	"fmt"
	"strings"

	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/pkgmgr"
)

// ToolsStep, terraform ve vault CLI'larını resmi HashiCorp deposundan
// kurar. İkisi de PATH'te ise hiç dokunulmaz; depo yalnızca bir şey
// kurulacaksa eklenir.
type ToolsStep struct {
	core.BaseStep
	Tools []string

	missing []string
}

func NewToolsStep() *ToolsStep {
	return &ToolsStep{
		BaseStep: core.BaseStep{StepName: "tools", StepKind: "tools"},
		Tools:    []string{"terraform", "vault"},
	}
}

func (s *ToolsStep) Check(ctx *core.RunContext) (bool, error) {
	s.missing = nil
	for _, tool := range s.Tools {
		if _, err := ctx.Transport.Execute(ctx, "command -v "+tool); err != nil {
			s.missing = append(s.missing, tool)
		}
	}
	return len(s.missing) == 0, nil
}

func (s *ToolsStep) Apply(ctx *core.RunContext) (core.Result, error) {
	targets := s.missing
	if targets == nil {
		targets = s.Tools
	}

	// Depo kurulumu için gereken yardımcılar.
	if out, err := pkgmgr.Install(ctx, ctx.Transport, []string{"gnupg", "software-properties-common", "wget", "lsb-release"}); err != nil {
		return core.Result{}, wrapCmdErr("install repo prerequisites", err, out)
	}

	repo := pkgmgr.HashicorpRepo("")
	if !pkgmgr.RepoConfigured(ctx.FS, repo) {
		codename, err := ctx.Transport.Execute(ctx, "lsb_release -cs")
		if err != nil {
			return core.Result{}, wrapCmdErr("detect distribution codename", err, codename)
		}
		repo = pkgmgr.HashicorpRepo(strings.TrimSpace(codename))
		if out, err := pkgmgr.AddRepo(ctx, ctx.Transport, repo); err != nil {
			return core.Result{}, wrapCmdErr("add hashicorp repo", err, out)
		}
	}

	out, err := pkgmgr.Install(ctx, ctx.Transport, targets)
	if err != nil {
		return core.Result{}, wrapCmdErr("install tools", err, out)
	}

	msg := "installed " + strings.Join(targets, ", ")
	return core.SuccessChange(msg).WithOutput(out), nil
}

// Verify asks each tool for its version, proving the binaries run.
func (s *ToolsStep) Verify(ctx *core.RunContext) error {
	for _, tool := range s.Tools {
		out, err := ctx.Transport.Execute(ctx, tool+" version")
		if err != nil {
			return fmt.Errorf("%s is not runnable after install: %w", tool, err)
		}
		ctx.Logger.Debug(fmt.Sprintf("%s: %s", tool, firstLine(out)))
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return strings.TrimSpace(s)
}
