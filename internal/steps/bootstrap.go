package steps

import (
	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/state"
)

// BootstrapSteps, host hazırlama pipeline'ını kurar. Sıra anlamlıdır:
// curl, public-ip adımından önce paket setiyle kurulmuş olmalı; özet en
// sonda koşar ki bütün çıktılar toplanmış olsun. extra_steps özetten
// hemen önce araya girer.
func BootstrapSteps(cfg *config.Config, store *state.Store) ([]core.Step, error) {
	steps := []core.Step{
		NewPkgUpdateStep(cfg.Upgrade),
		NewTimezoneStep(cfg.Timezone),
		NewPackagesStep(cfg.Packages),
		NewSSHKeyStep(cfg.SSHKey),
		NewPublicIPStep(cfg.PublicIP),
	}

	extra, err := BuildExtraSteps(cfg.ExtraSteps)
	if err != nil {
		return nil, err
	}
	steps = append(steps, extra...)

	return append(steps, NewSummaryStep(store)), nil
}
