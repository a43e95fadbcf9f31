package steps

import (
	"fmt"
	"io"
	"strings"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
)

// backendTemplate, terraform'a verilecek backend bloğudur. terraform
// init bu bloğu okuyarak state'i S3'e, kilitleri DynamoDB'ye bağlar.
const backendTemplate = `terraform {
  backend "s3" {
    bucket         = "{{ .Bucket }}"
    key            = "{{ .Key }}"
    region         = "{{ .Region }}"
    dynamodb_table = "{{ .LockTable }}"
    encrypt        = {{ .Encrypt }}
  }
}
`

// BackendData, backend bloğunun şablon girdisidir.
type BackendData struct {
	Bucket    string
	Key       string
	Region    string
	LockTable string
	Encrypt   bool
}

// RenderBackendStep, önceki adımların yayınladığı bucket ve tablo
// adlarından backend bloğunu üretir. Blok her zaman stdout'a basılır
// (boruya alınabilsin diye); config_path verilmişse dosyaya da yazılır
// ve mevcut içerikten sapma diff olarak gösterilir.
type RenderBackendStep struct {
	core.BaseStep
	Region    string
	StateKey  string
	Encrypt   bool
	WritePath string

	Out       io.Writer // stdout; testler buffer verir
	LocalFS   core.FileSystem
	LocalHome string
}

func NewRenderBackendStep(cfg config.BackendConfig, out io.Writer, localHome string) *RenderBackendStep {
	return &RenderBackendStep{
		BaseStep:  core.BaseStep{StepName: "render-backend", StepKind: "render-backend"},
		Region:    cfg.Region,
		StateKey:  cfg.StateKey,
		Encrypt:   cfg.Encrypt,
		WritePath: cfg.ConfigPath,
		Out:       out,
		LocalFS:   &core.RealFS{},
		LocalHome: localHome,
	}
}

func (s *RenderBackendStep) Validate() error {
	if s.StateKey == "" {
		return fmt.Errorf("render-backend step: state_key is required")
	}
	return nil
}

func (s *RenderBackendStep) render(ctx *core.RunContext) (string, error) {
	bucket, ok := ctx.Output(OutBucket)
	if !ok || bucket == "" {
		return "", fmt.Errorf("bucket name not available; did the s3-bucket step run?")
	}
	table, ok := ctx.Output(OutLockTable)
	if !ok || table == "" {
		return "", fmt.Errorf("lock table name not available; did the lock-table step run?")
	}

	return core.ExecuteTemplate(backendTemplate, BackendData{
		Bucket:    bucket,
		Key:       s.StateKey,
		Region:    s.Region,
		LockTable: table,
		Encrypt:   s.Encrypt,
	})
}

// Check only short-circuits when a target file already holds exactly the
// rendered block. Stdout-only renders always run.
func (s *RenderBackendStep) Check(ctx *core.RunContext) (bool, error) {
	if s.WritePath == "" {
		return false, nil
	}

	desired, err := s.render(ctx)
	if err != nil {
		// Girdi yoksa karar Apply'a kalır (plan modunda "pending" görünür).
		return false, nil
	}

	path := config.ExpandPath(s.WritePath, s.LocalHome)
	current, err := s.LocalFS.ReadFile(path)
	if err != nil {
		return false, nil
	}
	if string(current) != desired {
		return false, nil
	}

	// Dosya güncel; bloğu yine de göster ki çıktı boruya alınabilsin.
	fmt.Fprint(s.Out, desired)
	return true, nil
}

func (s *RenderBackendStep) Apply(ctx *core.RunContext) (core.Result, error) {
	desired, err := s.render(ctx)
	if err != nil {
		return core.Result{}, err
	}

	fmt.Fprint(s.Out, desired)

	if s.WritePath == "" {
		return core.SuccessNoChange("backend block rendered").WithOutput(desired), nil
	}

	path := config.ExpandPath(s.WritePath, s.LocalHome)
	if current, err := s.LocalFS.ReadFile(path); err == nil && string(current) != desired {
		diff := core.GenerateDiff(string(current), desired)
		ctx.UI.Warning("replacing " + path + ":")
		for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
			ctx.UI.Println("  " + line)
		}
	}

	if err := core.WriteFileWithDir(s.LocalFS, path, []byte(desired), 0644); err != nil {
		return core.Result{}, fmt.Errorf("write backend config: %w", err)
	}

	return core.SuccessChange("backend block written to " + path).WithOutput(desired), nil
}
