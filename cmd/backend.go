package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/state"
	"github.com/melih-ucgun/bedrock/internal/steps"
)

// backendCmd represents the backend command
var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Terraform remote-state altyapısını kurar (S3 + DynamoDB + Vault)",
	Long: `Terraform ve Vault araçlarını (eksikse) kurar, versiyonlamalı bir S3
bucket ile DynamoDB kilit tablosu oluşturur, geliştirme modunda bir Vault
sunucusu başlatır ve backend "s3" bloğunu stdout'a render eder.

Bulut ve Vault adımları her zaman bu makineden çalışır; --host yalnızca
araç kurulumunun yapılacağı hedefi değiştirir.`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		hostName, _ := cmd.Flags().GetString("host")
		yes, _ := cmd.Flags().GetBool("yes")
		writeConfig, _ := cmd.Flags().GetString("write-config")

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			fmt.Printf("❌ Konfigürasyon hatası: %v\n", err)
			os.Exit(1)
		}
		if writeConfig != "" {
			cfg.Backend.ConfigPath = writeConfig
		}

		// Bulut kaynakları ücretlendirilir; onaysız oluşturma yok.
		if !dryRun && !yes {
			confirm, _ := pterm.DefaultInteractiveConfirm.
				WithDefaultText(fmt.Sprintf("S3 bucket ve DynamoDB tablosu %q bölgesinde oluşturulacak. Devam edilsin mi?", cfg.Backend.Region)).
				WithDefaultValue(false).
				Show()
			if !confirm {
				fmt.Println("İptal edildi.")
				return
			}
		}

		store, err := state.DefaultStore()
		if err != nil {
			fmt.Printf("❌ State dizini açılamadı: %v\n", err)
			os.Exit(1)
		}

		tr, err := newTransport(cfg, hostName)
		if err != nil {
			fmt.Printf("❌ Hedefe bağlanılamadı: %v\n", err)
			os.Exit(1)
		}
		defer tr.Close()

		rc, err := buildRunContext(ctx, cfg, tr, dryRun)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		deps, err := steps.NewBackendDeps(ctx, cfg)
		if err != nil {
			fmt.Printf("❌ AWS istemcisi kurulamadı: %v\n", err)
			os.Exit(1)
		}

		pipeline, err := steps.BackendSteps(cfg, store, deps)
		if err != nil {
			fmt.Printf("❌ Adımlar kurulamadı: %v\n", err)
			os.Exit(1)
		}

		rc.UI.Title("bedrock backend")
		rc.UI.Info(fmt.Sprintf("region: %s, tools on: %s", cfg.Backend.Region, tr.Describe()))
		if dryRun {
			rc.UI.Warning("dry-run: hiçbir değişiklik yapılmayacak")
		}

		report, err := core.NewRunner("backend").Run(rc, pipeline)
		finishRun(rc, store, report, err)
	},
}

func init() {
	rootCmd.AddCommand(backendCmd)
	backendCmd.Flags().Bool("dry-run", false, "Değişiklik yapmadan ne olacağını göster")
	backendCmd.Flags().String("host", "", "Araçların kurulacağı uzak sunucu (hosts listesindeki name)")
	backendCmd.Flags().BoolP("yes", "y", false, "Onay sorusunu atla")
	backendCmd.Flags().String("write-config", "", "Render edilen backend bloğunu bu dosyaya da yaz")
}
