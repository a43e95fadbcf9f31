package pkgmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/utils"
)

// Apt komutları transport üzerinden çalışır; lokal ve SSH hedefleri
// aynı yoldan geçer. Yetki gerektiren komutlar sudo'suz yazılır, araç
// root olarak (veya sudo ile) çalıştırılır.

// Installed, dpkg veritabanına göre paketin kurulu olup olmadığını söyler.
// dpkg -s paket kuruluysa 0 döner.
func Installed(ctx context.Context, tr core.Transport, name string) bool {
	_, err := tr.Execute(ctx, "dpkg -s "+name)
	return err == nil
}

// Missing filters the list down to packages dpkg does not know about.
// Names are validated before anything reaches a shell.
func Missing(ctx context.Context, tr core.Transport, names []string) ([]string, error) {
	var missing []string
	for _, name := range names {
		if !utils.IsValidPackageName(name) {
			return nil, fmt.Errorf("invalid package name: %q", name)
		}
		if !Installed(ctx, tr, name) {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// Install requests installation of the given packages in one transaction.
func Install(ctx context.Context, tr core.Transport, names []string) (string, error) {
	if len(names) == 0 {
		return "", nil
	}
	for _, name := range names {
		if !utils.IsValidPackageName(name) {
			return "", fmt.Errorf("invalid package name: %q", name)
		}
	}
	cmd := "DEBIAN_FRONTEND=noninteractive apt-get install -y " + strings.Join(names, " ")
	return tr.Execute(ctx, cmd)
}

// Update refreshes the package index.
func Update(ctx context.Context, tr core.Transport) (string, error) {
	return tr.Execute(ctx, "apt-get update")
}

// Upgrade applies pending upgrades non-interactively.
func Upgrade(ctx context.Context, tr core.Transport) (string, error) {
	return tr.Execute(ctx, "DEBIAN_FRONTEND=noninteractive apt-get upgrade -y")
}
