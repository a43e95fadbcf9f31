package transport

import (
	"context"
	"os/exec"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// LocalTransport, komutları doğrudan bu makinede çalıştırır.
// Bootstrap senaryosunda hedef makine aracın kendisini çalıştıran makinedir.
type LocalTransport struct {
	fs core.FileSystem
}

func NewLocalTransport() *LocalTransport {
	return &LocalTransport{fs: &core.RealFS{}}
}

// Execute runs the command through `sh -c` and returns combined output.
// Callers wrap the error with command context; output is returned as-is
// so failure messages can include what the command printed.
func (t *LocalTransport) Execute(ctx context.Context, cmd string) (string, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", cmd).CombinedOutput()
	return string(out), err
}

func (t *LocalTransport) FileSystem() core.FileSystem { return t.fs }

func (t *LocalTransport) Describe() string { return "local" }

// IsLocal marks this transport as running on the controller itself.
// Steps that can do work in-process (HTTP calls, file IO) check for it.
func (t *LocalTransport) IsLocal() bool { return true }

func (t *LocalTransport) Close() error { return nil }
