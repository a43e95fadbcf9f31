package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/state"
	"github.com/melih-ucgun/bedrock/internal/steps"
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Uygulamadan denetler (Show what would change)",
	Long: `Her iki pipeline'ın adımlarını uygulamadan denetler: hangi önkoşullar
zaten sağlanıyor, hangi adımlar çalışacak. Sistemde değişiklik yapmaz.
Denetlenemeyen adımlar (ör. AWS kimlik bilgisi yoksa) "unknown" görünür.`,
	Run: func(cmd *cobra.Command, args []string) {
		hostName, _ := cmd.Flags().GetString("host")

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

		rc, err := buildRunContext(ctx, cfg, tr, true)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		bootstrap, err := steps.BootstrapSteps(cfg, store)
		if err != nil {
			fmt.Printf("❌ Adımlar kurulamadı: %v\n", err)
			os.Exit(1)
		}

		deps, err := steps.NewBackendDeps(ctx, cfg)
		if err != nil {
			fmt.Printf("❌ AWS istemcisi kurulamadı: %v\n", err)
			os.Exit(1)
		}
		backend, err := steps.BackendSteps(cfg, store, deps)
		if err != nil {
			fmt.Printf("❌ Adımlar kurulamadı: %v\n", err)
			os.Exit(1)
		}

		// Tablo formatında çıktı
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "PIPELINE\tSTEP\tKIND\tPLAN\tDETAIL")
		fmt.Fprintln(w, "--------\t----\t----\t----\t------")

		pending := 0
		for _, pl := range []struct {
			name  string
			steps []core.Step
		}{
			{"bootstrap", bootstrap},
			{"backend", backend},
		} {
			results := core.PlanSteps(rc, pl.steps)
			pending += core.PendingCount(results)
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", pl.name, r.Step, r.Kind, r.Status, r.Detail)
			}
		}
		w.Flush()

		if pending == 0 {
			fmt.Println("\n✅ Sistem zaten istenen durumda.")
			return
		}
		fmt.Printf("\n%d adım uygulanmayı bekliyor.\n", pending)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("host", "", "Uzak sunucu adı (hosts listesindeki name)")
}
