package steps

import (
	"fmt"
	"strings"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// TimezoneStep, sistem saat dilimini timedatectl ile ayarlar.
type TimezoneStep struct {
	core.BaseStep
	Timezone string
}

func NewTimezoneStep(tz string) *TimezoneStep {
	return &TimezoneStep{
		BaseStep: core.BaseStep{StepName: "timezone", StepKind: "timezone"},
		Timezone: tz,
	}
}

func (s *TimezoneStep) Validate() error {
	if strings.TrimSpace(s.Timezone) == "" {
		return fmt.Errorf("timezone step: timezone is required")
	}
	return nil
}

func (s *TimezoneStep) Check(ctx *core.RunContext) (bool, error) {
	current, err := s.current(ctx)
	if err != nil {
		// Mevcut dilim okunamıyorsa uygula; Apply asıl hatayı gösterir.
		ctx.Logger.Debug(fmt.Sprintf("cannot read current timezone: %v", err))
		return false, nil
	}
	return current == s.Timezone, nil
}

func (s *TimezoneStep) Apply(ctx *core.RunContext) (core.Result, error) {
	out, err := ctx.Transport.Execute(ctx, "timedatectl set-timezone "+s.Timezone)
	if err != nil {
		return core.Result{}, wrapCmdErr("set timezone "+s.Timezone, err, out)
	}
	return core.SuccessChange("timezone set to " + s.Timezone), nil
}

// Verify re-reads the zone after the change.
func (s *TimezoneStep) Verify(ctx *core.RunContext) error {
	current, err := s.current(ctx)
	if err != nil {
		return err
	}
	if current != s.Timezone {
		return fmt.Errorf("timezone is %q after set, expected %q", current, s.Timezone)
	}
	return nil
}

func (s *TimezoneStep) current(ctx *core.RunContext) (string, error) {
	out, err := ctx.Transport.Execute(ctx, "timedatectl show -p Timezone --value")
	if err == nil {
		return strings.TrimSpace(out), nil
	}

	// systemd olmayan (konteyner) hedeflerde /etc/timezone'a düşeriz.
	data, ferr := ctx.FS.ReadFile("/etc/timezone")
	if ferr != nil {
		return "", fmt.Errorf("read timezone: %v (and %v)", err, ferr)
	}
	return strings.TrimSpace(string(data)), nil
}
