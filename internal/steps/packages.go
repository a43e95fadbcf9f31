package steps

import (
	"fmt"
	"strings"

	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/pkgmgr"
)

// PackagesStep, temel paket setini kurar. Eksik alt küme Check'te
// hesaplanır; Apply yalnızca eksikleri tek apt işlemiyle kurar.
type PackagesStep struct {
	core.BaseStep
	Packages []string

	missing []string // Check doldurur, Apply kullanır
}

func NewPackagesStep(packages []string) *PackagesStep {
	return &PackagesStep{
		BaseStep: core.BaseStep{StepName: "packages", StepKind: "packages"},
		Packages: packages,
	}
}

func (s *PackagesStep) Validate() error {
	if len(s.Packages) == 0 {
		return fmt.Errorf("packages step: package list is empty")
	}
	return nil
}

func (s *PackagesStep) Check(ctx *core.RunContext) (bool, error) {
	missing, err := pkgmgr.Missing(ctx, ctx.Transport, s.Packages)
	if err != nil {
		return false, err
	}
	s.missing = missing
	return len(missing) == 0, nil
}

func (s *PackagesStep) Apply(ctx *core.RunContext) (core.Result, error) {
	targets := s.missing
	if targets == nil {
		// Apply Check'siz çağrıldıysa tam listeyle devam et; apt kurulu
		// olanları atlar.
		targets = s.Packages
	}

	out, err := pkgmgr.Install(ctx, ctx.Transport, targets)
	if err != nil {
		return core.Result{}, wrapCmdErr("install packages", err, out)
	}

	msg := fmt.Sprintf("%d packages installed (%s)", len(targets), strings.Join(targets, ", "))
	return core.SuccessChange(msg).WithOutput(out), nil
}

// Verify confirms dpkg now knows every requested package.
func (s *PackagesStep) Verify(ctx *core.RunContext) error {
	missing, err := pkgmgr.Missing(ctx, ctx.Transport, s.Packages)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("packages still missing after install: %s", strings.Join(missing, ", "))
	}
	return nil
}
