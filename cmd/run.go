package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/melih-ucgun/bedrock/internal/adapters/ui"
	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/state"
	"github.com/melih-ucgun/bedrock/internal/system"
	"github.com/melih-ucgun/bedrock/internal/transport"
)

// newTransport, --host verilmişse konfigürasyondaki hedefe SSH açar;
// verilmemişse komutlar bu makinede çalışır.
func newTransport(cfg *config.Config, hostName string) (core.Transport, error) {
	if hostName == "" {
		return transport.NewLocalTransport(), nil
	}
	host, err := cfg.FindHost(hostName)
	if err != nil {
		return nil, err
	}
	return transport.NewSSHTransport(host)
}

// buildRunContext, pipeline bağlamını kurar: logger, UI, konfigürasyon
// değişkenleri ve hedef sistemin tespiti (dağıtım, kullanıcı, $HOME).
func buildRunContext(ctx context.Context, cfg *config.Config, tr core.Transport, dryRun bool) (*core.RunContext, error) {
	rc := core.NewRunContext(ctx, tr, dryRun)
	rc.Logger = newLogger()
	rc.UI = ui.NewPtermUI()
	if cfg.Vars != nil {
		rc.Vars = cfg.Vars
	}

	if err := system.Detect(rc); err != nil {
		return nil, fmt.Errorf("detect target system: %w", err)
	}
	return rc, nil
}

// finishRun raporu kaydeder, özet satırını basar ve sonucu süreç çıkış
// koduna çevirir: iptal 130, adım hatası 1.
func finishRun(rc *core.RunContext, store *state.Store, report *core.Report, runErr error) {
	if err := store.SaveReport(report); err != nil {
		rc.Logger.Warn("cannot save run report", "error", err)
	}

	done, skipped, _ := report.Counts()
	elapsed := report.Finished.Sub(report.Started).Round(time.Millisecond)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			fmt.Println("\n❌ İşlem kullanıcı tarafından iptal edildi.")
			os.Exit(130) // 130 = SIGINT çıkış kodu standardı
		}
		fmt.Printf("\n❌ Hata oluştu: %v\n", runErr)
		os.Exit(1)
	}

	if report.DryRun {
		fmt.Printf("\n✅ Dry-run tamamlandı, değişiklik yapılmadı (%s).\n", elapsed)
		return
	}
	if done == 0 {
		fmt.Printf("\n✅ Sistem zaten istenen durumda (%d adım atlandı, %s).\n", skipped, elapsed)
		return
	}
	fmt.Printf("\n✅ %d değişiklik uygulandı, %d adım atlandı (%s).\n", done, skipped, elapsed)
}
