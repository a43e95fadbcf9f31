package steps

import (
	"fmt"
	"path/filepath"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/sshkey"
)

// SSHKeyStep, ed25519 anahtar çifti üretir. Mevcut bir anahtara asla
// dokunulmaz; tekrar çalıştırmada parmak izi değişmez. İstenirse private
// key bir çalışma dizinine de kopyalanır.
type SSHKeyStep struct {
	core.BaseStep
	Path    string // private key, "~" hedefin home'una göre açılır
	Comment string // boşsa user@hostname
	CopyDir string
}

func NewSSHKeyStep(cfg config.SSHKeyConfig) *SSHKeyStep {
	return &SSHKeyStep{
		BaseStep: core.BaseStep{StepName: "ssh-key", StepKind: "ssh-key"},
		Path:     cfg.Path,
		Comment:  cfg.Comment,
		CopyDir:  cfg.CopyDir,
	}
}

func (s *SSHKeyStep) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("ssh-key step: key path is required")
	}
	return nil
}

func (s *SSHKeyStep) keyPath(ctx *core.RunContext) string {
	return config.ExpandPath(s.Path, ctx.HomeDir)
}

func (s *SSHKeyStep) Check(ctx *core.RunContext) (bool, error) {
	path := s.keyPath(ctx)
	if !sshkey.Exists(ctx.FS, path) {
		return false, nil
	}

	// Anahtar zaten var: parmak izini yine de yayınla ki özet ve render
	// adımları atlanan çalışmalarda da dolu olsun.
	fp, err := sshkey.Fingerprint(ctx.FS, path)
	if err != nil {
		return false, fmt.Errorf("existing key at %s is unreadable: %w", path, err)
	}
	ctx.SetOutput(OutSSHKeyPath, path)
	ctx.SetOutput(OutSSHFingerprint, fp)
	return true, nil
}

func (s *SSHKeyStep) Apply(ctx *core.RunContext) (core.Result, error) {
	path := s.keyPath(ctx)

	comment := s.Comment
	if comment == "" {
		comment = ctx.User + "@" + ctx.Hostname
	}

	kp, err := sshkey.Generate(ctx.FS, path, comment)
	if err != nil {
		return core.Result{}, err
	}

	if s.CopyDir != "" {
		if err := s.copyKey(ctx, kp); err != nil {
			return core.Result{}, err
		}
	}

	ctx.SetOutput(OutSSHKeyPath, kp.PrivatePath)
	ctx.SetOutput(OutSSHFingerprint, kp.Fingerprint)

	return core.SuccessChange("ed25519 key generated, fingerprint " + kp.Fingerprint), nil
}

// copyKey duplicates the private key into the working directory. The
// copy keeps 0600; the original stays authoritative.
func (s *SSHKeyStep) copyKey(ctx *core.RunContext, kp *sshkey.Keypair) error {
	dir := config.ExpandPath(s.CopyDir, ctx.HomeDir)
	if err := ctx.FS.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create key copy dir %s: %w", dir, err)
	}

	dst := filepath.Join(dir, filepath.Base(kp.PrivatePath))
	if err := core.CopyFile(ctx.FS, kp.PrivatePath, dst, 0600); err != nil {
		return fmt.Errorf("copy key to %s: %w", dst, err)
	}
	return nil
}

// Verify parses the key back from disk.
func (s *SSHKeyStep) Verify(ctx *core.RunContext) error {
	_, err := sshkey.Fingerprint(ctx.FS, s.keyPath(ctx))
	return err
}
