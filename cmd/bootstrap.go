package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/state"
	"github.com/melih-ucgun/bedrock/internal/steps"
)

// bootstrapCmd represents the bootstrap command
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Sunucuyu geliştirmeye hazırlar (Prepare a fresh host)",
	Long: `Paket listesini günceller, saat dilimini ayarlar, geliştirme paketlerini
kurar, SSH anahtarı üretir ve makinenin public IP adresini kaydeder.
Her adım idempotenttir: zaten yapılmış iş atlanır.`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		hostName, _ := cmd.Flags().GetString("host")

		// Sinyalleri (Ctrl+C) yakala: iptal edilen context tüm adımlara yayılır.
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			fmt.Printf("❌ Konfigürasyon hatası: %v\n", err)
			os.Exit(1)
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

		pipeline, err := steps.BootstrapSteps(cfg, store)
		if err != nil {
			fmt.Printf("❌ Adımlar kurulamadı: %v\n", err)
			os.Exit(1)
		}

		rc.UI.Title("bedrock bootstrap")
		rc.UI.Info(fmt.Sprintf("target: %s (%s %s)", tr.Describe(), rc.Distro, rc.Version))
		if dryRun {
			rc.UI.Warning("dry-run: hiçbir değişiklik yapılmayacak")
		}

		report, err := core.NewRunner("bootstrap").Run(rc, pipeline)
		finishRun(rc, store, report, err)
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
	bootstrapCmd.Flags().Bool("dry-run", false, "Değişiklik yapmadan ne olacağını göster")
	bootstrapCmd.Flags().String("host", "", "Uzak sunucu adı (hosts listesindeki name)")
}
