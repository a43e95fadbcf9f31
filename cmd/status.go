package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Son çalışmanın raporunu gösterir (Show the last run)",
	Long:  `~/.bedrock altında saklanan son pipeline raporunu ve kalıcı çıktıları gösterir.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := state.DefaultStore()
		if err != nil {
			fmt.Printf("❌ State dizini açılamadı: %v\n", err)
			os.Exit(1)
		}

		report, err := store.LastReport()
		if err != nil {
			fmt.Printf("❌ Rapor okunamadı: %v\n", err)
			os.Exit(1)
		}
		if report == nil {
			fmt.Println("Henüz kayıtlı bir çalışma yok. Önce 'bedrock bootstrap' veya 'bedrock backend' çalıştırın.")
			return
		}

		mode := ""
		if report.DryRun {
			mode = ", dry-run"
		}
		fmt.Printf("📊 Son çalışma: %s → %s (%s%s)\n\n",
			report.Pipeline, report.Target, report.Started.Format(time.RFC822), mode)

		// Tablo formatında çıktı
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "STEP\tKIND\tSTATUS\tDURATION\tMESSAGE")
		fmt.Fprintln(w, "----\t----\t------\t--------\t-------")

		for _, res := range report.Results {
			icon := "✅"
			msg := res.Message
			switch res.Status {
			case core.StatusSkipped:
				icon = "➖"
			case core.StatusFailed:
				icon = "❌"
				msg = res.Error
			}

			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\n",
				res.Step,
				res.Kind,
				icon, res.Status,
				res.Duration.Round(time.Millisecond),
				msg,
			)
		}
		w.Flush()

		outputs, err := store.LoadOutputs()
		if err != nil || len(outputs.Values) == 0 {
			return
		}

		fmt.Printf("\n📦 Kalıcı çıktılar (%s):\n\n", outputs.UpdatedAt.Format(time.RFC822))
		ow := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		keys := make([]string, 0, len(outputs.Values))
		for k := range outputs.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(ow, "%s\t%s\n", k, outputs.Values[k])
		}
		ow.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
