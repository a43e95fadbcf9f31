package steps

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/juju/clock"

	"github.com/melih-ucgun/bedrock/internal/cloud"
	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/consts"
	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/state"
)

// BackendDeps, backend pipeline'ının dış dünya bağımlılıklarını taşır.
// Üretimde NewBackendDeps doldurur; testler sahte istemciler ve test
// saati enjekte eder.
type BackendDeps struct {
	Buckets   cloud.BucketAPI
	Tables    cloud.TableAPI
	Clock     clock.Clock
	Out       io.Writer
	LocalHome string
}

// NewBackendDeps, AWS istemcilerini konfigürasyona göre kurar. Statik
// kimlik bilgileri boşsa SDK'nın varsayılan zinciri geçerlidir.
func NewBackendDeps(ctx context.Context, cfg *config.Config) (*BackendDeps, error) {
	awsCfg, err := cloud.LoadAWSConfig(ctx, cfg.Backend.Region, cfg.Backend.AccessKeyID, cfg.Backend.SecretAccessKey)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return &BackendDeps{
		Buckets:   cloud.NewS3Client(awsCfg),
		Tables:    cloud.NewDynamoClient(awsCfg),
		Clock:     clock.WallClock,
		Out:       os.Stdout,
		LocalHome: home,
	}, nil
}

// BackendSteps, Terraform remote-state altyapısını hazırlayan pipeline'ı
// kurar: araçlar, S3 bucket, DynamoDB kilit tablosu, vault dev sunucusu
// ve backend bloğunun render'ı. Bulut ve vault adımları her zaman
// kontrolcüden çalışır.
func BackendSteps(cfg *config.Config, store *state.Store, deps *BackendDeps) ([]core.Step, error) {
	if deps == nil {
		return nil, fmt.Errorf("backend deps not initialised")
	}

	vaultStep := NewVaultDevStep(
		cfg.Vault,
		filepath.Join(store.Dir, consts.VaultLogFileName),
		filepath.Join(store.Dir, consts.VaultPIDFileName),
		deps.LocalHome,
		deps.Clock,
	)

	render := NewRenderBackendStep(cfg.Backend, deps.Out, deps.LocalHome)

	return []core.Step{
		NewToolsStep(),
		NewBucketStep(deps.Buckets, cfg.Backend, store),
		NewLockTableStep(deps.Tables, cfg.Backend, deps.Clock),
		vaultStep,
		render,
		NewSummaryStep(store),
	}, nil
}
