package pkgmgr

import (
	"context"
	"fmt"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// Repo, apt'ye eklenecek üçüncü parti bir depoyu tanımlar (signed-by
// yöntemi). HashiCorp deposu için kullanılır ama ona özel değildir.
type Repo struct {
	Name        string // sources.list.d altındaki dosya adı (".list" hariç)
	KeyURL      string // armor'lu GPG anahtarının adresi
	KeyringPath string // dearmor edilmiş anahtarın yazılacağı yol
	RepoLine    string // "deb [signed-by=...] https://... $(lsb_release -cs) main"
}

// ListFile returns the sources.list.d path the repo definition lands in.
func (r Repo) ListFile() string {
	return "/etc/apt/sources.list.d/" + r.Name + ".list"
}

// RepoConfigured, deponun sources.list.d altında tanımlı olup olmadığını
// dosya varlığıyla kontrol eder.
func RepoConfigured(fsys core.FileSystem, r Repo) bool {
	return core.FileExists(fsys, r.ListFile())
}

// AddRepo installs the signing key and the repository definition, then
// refreshes the index. Already-configured repos are the caller's skip.
func AddRepo(ctx context.Context, tr core.Transport, r Repo) (string, error) {
	keyCmd := fmt.Sprintf("wget -qO- %s | gpg --dearmor --yes -o %s", r.KeyURL, r.KeyringPath)
	if out, err := tr.Execute(ctx, keyCmd); err != nil {
		return out, fmt.Errorf("install signing key for %s: %w", r.Name, err)
	}

	repoCmd := fmt.Sprintf("echo %q > %s", r.RepoLine, r.ListFile())
	if out, err := tr.Execute(ctx, repoCmd); err != nil {
		return out, fmt.Errorf("write repo definition %s: %w", r.ListFile(), err)
	}

	return Update(ctx, tr)
}

// HashicorpRepo, terraform/vault paketlerinin geldiği resmi depoyu döner.
// codename, hedefin `lsb_release -cs` çıktısıdır (jammy, bookworm...).
func HashicorpRepo(codename string) Repo {
	keyring := "/usr/share/keyrings/hashicorp-archive-keyring.gpg"
	return Repo{
		Name:        "hashicorp",
		KeyURL:      "https://apt.releases.hashicorp.com/gpg",
		KeyringPath: keyring,
		RepoLine: fmt.Sprintf("deb [signed-by=%s] https://apt.releases.hashicorp.com %s main",
			keyring, codename),
	}
}
