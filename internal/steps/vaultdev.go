package steps

import (
	"fmt"
	"strconv"
	"time"

	"github.com/juju/clock"
	"golang.org/x/sync/errgroup"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/vault"
)

// VaultDevStep, yerel bir `vault server -dev` başlatır, root token'ı
// sunucu çıktısından kazır, doğrular ve 0600 izinli bir dosyaya yazar.
// Pipeline başarıyla sürerse sunucu Detach ile çalışır bırakılır; adım
// içinde bir şey ters giderse sunucu durdurulur, başıboş süreç kalmaz.
//
// Dev sunucu her zaman kontrolcüde çalışır; token dosyası ve PID kaydı
// yerel diske yazılır, hedef makineye değil.
type VaultDevStep struct {
	core.BaseStep
	ListenAddr    string
	TokenFile     string
	ReadyAttempts int
	ReadyDelay    time.Duration
	Clock         clock.Clock

	LogPath   string
	PIDPath   string
	LocalFS   core.FileSystem
	LocalHome string
}

func NewVaultDevStep(cfg config.VaultConfig, logPath, pidPath, localHome string, clk clock.Clock) *VaultDevStep {
	return &VaultDevStep{
		BaseStep:      core.BaseStep{StepName: "vault-dev", StepKind: "vault-dev"},
		ListenAddr:    cfg.ListenAddr,
		TokenFile:     cfg.TokenFile,
		ReadyAttempts: cfg.ReadyAttempts,
		ReadyDelay:    cfg.ReadyDelay(),
		Clock:         clk,
		LogPath:       logPath,
		PIDPath:       pidPath,
		LocalFS:       &core.RealFS{},
		LocalHome:     localHome,
	}
}

func (s *VaultDevStep) Validate() error {
	if s.ListenAddr == "" {
		return fmt.Errorf("vault-dev step: listen_addr is required")
	}
	if s.TokenFile == "" {
		return fmt.Errorf("vault-dev step: token_file is required")
	}
	if s.ReadyAttempts <= 0 {
		return fmt.Errorf("vault-dev step: ready_attempts must be positive")
	}
	return nil
}

func (s *VaultDevStep) tokenPath() string {
	return config.ExpandPath(s.TokenFile, s.LocalHome)
}

// Check, adreste hazır bir vault ve yerinde bir token dosyası arar.
// Sunucu ayakta ama token dosyası kayıpsa bu bir hatadır: çıktı logu
// çoktan dönmüş olabilir, token'ı yeniden kazıyamayız.
func (s *VaultDevStep) Check(ctx *core.RunContext) (bool, error) {
	apiAddr := vault.APIAddr(s.ListenAddr)
	if err := vault.Ready(ctx, apiAddr); err != nil {
		return false, nil
	}

	tokenPath := s.tokenPath()
	if !core.FileExists(s.LocalFS, tokenPath) {
		return false, fmt.Errorf("vault at %s is already running but token file %s is missing; stop that server or restore the file", apiAddr, tokenPath)
	}

	ctx.SetOutput(OutVaultAddr, apiAddr)
	ctx.SetOutput(OutVaultTokenFile, tokenPath)
	return true, nil
}

func (s *VaultDevStep) Apply(ctx *core.RunContext) (core.Result, error) {
	srv := vault.NewDevServer(s.ListenAddr, s.LogPath)
	if err := srv.Start(); err != nil {
		return core.Result{}, err
	}

	apiAddr := vault.APIAddr(s.ListenAddr)

	// Token kazıma ve sağlık yoklaması bağımsız; ikisini aynı anda
	// bekleriz. Biri ölümcül hata verirse diğeri iptal edilir.
	var token string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := srv.WaitToken(gctx, s.ReadyAttempts, s.ReadyDelay, s.Clock, ctx.Logger)
		if err != nil {
			return err
		}
		token = t
		return nil
	})
	g.Go(func() error {
		return vault.WaitReady(gctx, apiAddr, s.ReadyAttempts, s.ReadyDelay, s.Clock, ctx.Logger)
	})
	if err := g.Wait(); err != nil {
		srv.Stop()
		return core.Result{}, err
	}

	if err := vault.VerifyToken(ctx, apiAddr, token); err != nil {
		srv.Stop()
		return core.Result{}, err
	}

	tokenPath := s.tokenPath()
	if err := core.WriteFileWithDir(s.LocalFS, tokenPath, []byte(token+"\n"), 0600); err != nil {
		srv.Stop()
		return core.Result{}, fmt.Errorf("write token file: %w", err)
	}

	pid, err := srv.Detach()
	if err != nil {
		srv.Stop()
		return core.Result{}, err
	}
	if err := core.WriteFileWithDir(s.LocalFS, s.PIDPath, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		// PID kaydı bilgilendirme amaçlı; sunucu zaten çalışıyor.
		ctx.Logger.Warn(fmt.Sprintf("cannot record vault pid: %v", err))
	}

	ctx.SetOutput(OutVaultAddr, apiAddr)
	ctx.SetOutput(OutVaultTokenFile, tokenPath)
	ctx.SetOutput(OutVaultPID, strconv.Itoa(pid))

	return core.SuccessChange(fmt.Sprintf("vault dev server running at %s (pid %d), token saved to %s", apiAddr, pid, tokenPath)), nil
}
