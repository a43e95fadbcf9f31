package steps

import (
	"fmt"
	"strings"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// localTarget, komutları kontrolcünün kendisinde çalıştıran transportların
// işaretidir. Bu adımlar bazı işleri süreç içinde (HTTP, dosya IO) yapabilir.
type localTarget interface {
	IsLocal() bool
}

func targetIsLocal(tr core.Transport) bool {
	lt, ok := tr.(localTarget)
	return ok && lt.IsLocal()
}

// wrapCmdErr, komut hatasına yakalanan çıktıyı ekler; apt ve timedatectl
// asıl sebebi stderr'e yazar.
func wrapCmdErr(action string, err error, output string) error {
	output = strings.TrimSpace(output)
	if output == "" {
		return fmt.Errorf("%s: %w", action, err)
	}
	return fmt.Errorf("%s: %w, output:\n%s", action, err, output)
}
