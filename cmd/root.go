package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/bedrock/internal/core"
)

var rootCmd = &cobra.Command{
	Use:   "bedrock",
	Short: "Sunucu ve Terraform backend hazırlığı (Idempotent provisioning)",
	Long: `Bedrock, taze bir Ubuntu/Debian makinesini geliştirmeye hazır hale getirir
ve Terraform remote-state altyapısını (S3 + DynamoDB + Vault dev) kurar.
Her adım önce mevcut durumu kontrol eder; yapılmış iş tekrarlanmaz.`,
}

var (
	cfgFile      string
	logFormat    string
	verboseCount int
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// .env varsa ortam değişkenlerine yüklenir; AWS ve Vault ayarları
	// buradan gelebilir. Dosya yoksa sessizce devam edilir.
	_ = godotenv.Load()

	// PTerm output to Stderr (to keep Stdout clean for piping)
	pterm.SetDefaultOutput(os.Stderr)
	pterm.Success.Writer = os.Stderr
	pterm.Info.Writer = os.Stderr
	pterm.Error.Writer = os.Stderr
	pterm.Warning.Writer = os.Stderr
	pterm.DefaultHeader.Writer = os.Stderr

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Konfigürasyon dosyası (boşsa ./bedrock.yaml aranır)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", core.FormatTint, "Log biçimi: text, json veya tint")
	rootCmd.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "Increase verbosity level (-v, -vv)")
}

// newLogger, -v sayısını ve --log-format seçimini logger'a çevirir.
func newLogger() core.Logger {
	level := core.LevelInfo
	switch {
	case verboseCount >= 2:
		level = core.LevelTrace
	case verboseCount == 1:
		level = core.LevelDebug
	}
	return core.NewDefaultLogger(os.Stderr, level, logFormat)
}
