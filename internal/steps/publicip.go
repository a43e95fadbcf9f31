package steps

import (
	"fmt"
	"time"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/publicip"
)

// PublicIPStep, makinenin dışarıdan görünen adresini öğrenir ve dosyaya
// yazar. Adres değişmiş olabileceği için her çalışmada yeniden sorulur
// ve dosyanın üzerine yazılır.
type PublicIPStep struct {
	core.BaseStep
	Endpoints []string
	File      string
	Timeout   time.Duration

	fetcher *publicip.Fetcher
}

func NewPublicIPStep(cfg config.PublicIPConfig) *PublicIPStep {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PublicIPStep{
		BaseStep:  core.BaseStep{StepName: "public-ip", StepKind: "public-ip"},
		Endpoints: cfg.Endpoints,
		File:      cfg.File,
		Timeout:   timeout,
		fetcher:   publicip.NewFetcher(timeout),
	}
}

func (s *PublicIPStep) Validate() error {
	if len(s.Endpoints) == 0 {
		return fmt.Errorf("public-ip step: no endpoints configured")
	}
	return nil
}

func (s *PublicIPStep) Check(ctx *core.RunContext) (bool, error) {
	return false, nil
}

func (s *PublicIPStep) Apply(ctx *core.RunContext) (core.Result, error) {
	var (
		ip  string
		err error
	)
	if targetIsLocal(ctx.Transport) {
		ip, err = s.fetcher.Fetch(ctx, s.Endpoints)
	} else {
		// Uzak hedefte adres hedefin bakış açısından alınmalı.
		ip, err = publicip.FetchVia(ctx, ctx.Transport, s.Endpoints, s.Timeout)
	}
	if err != nil {
		return core.Result{}, err
	}

	if s.File != "" {
		path := config.ExpandPath(s.File, ctx.HomeDir)
		if err := core.WriteFileWithDir(ctx.FS, path, []byte(ip+"\n"), 0644); err != nil {
			return core.Result{}, fmt.Errorf("write public ip file: %w", err)
		}
	}

	ctx.SetOutput(OutPublicIP, ip)
	return core.SuccessChange("public ip is " + ip), nil
}
