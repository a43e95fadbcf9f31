package steps

import (
	"strings"

	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/pkgmgr"
)

// PkgUpdateStep, paket indeksini tazeler ve istenirse bekleyen
// yükseltmeleri uygular. İndeks tazelemenin "zaten yapılmış" hali
// olmadığından her çalışmada uygulanır; tekrarında zararsızdır.
type PkgUpdateStep struct {
	core.BaseStep
	Upgrade bool
}

func NewPkgUpdateStep(upgrade bool) *PkgUpdateStep {
	return &PkgUpdateStep{
		BaseStep: core.BaseStep{StepName: "pkg-update", StepKind: "pkg-update"},
		Upgrade:  upgrade,
	}
}

func (s *PkgUpdateStep) Check(ctx *core.RunContext) (bool, error) {
	return false, nil
}

func (s *PkgUpdateStep) Apply(ctx *core.RunContext) (core.Result, error) {
	out, err := pkgmgr.Update(ctx, ctx.Transport)
	if err != nil {
		return core.Result{}, wrapCmdErr("refresh package index", err, out)
	}

	msg := "package index refreshed"
	var combined strings.Builder
	combined.WriteString(out)

	if s.Upgrade {
		upOut, err := pkgmgr.Upgrade(ctx, ctx.Transport)
		if err != nil {
			return core.Result{}, wrapCmdErr("upgrade packages", err, upOut)
		}
		combined.WriteString(upOut)
		msg = "package index refreshed, pending upgrades applied"
	}

	return core.SuccessChange(msg).WithOutput(combined.String()), nil
}
