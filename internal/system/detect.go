package system

import (
	"fmt"
	"strings"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// Detect, hedef sistemi transport üzerinden analiz eder ve RunContext'i doldurur.
// Lokal ve SSH hedefleri aynı yoldan geçer; komutlar hedefte çalışır.
func Detect(rc *core.RunContext) error {
	out, err := rc.Transport.Execute(rc, "uname -s")
	if err != nil {
		return fmt.Errorf("detect os: %w", err)
	}
	rc.OS = strings.ToLower(strings.TrimSpace(out))

	// Basit Linux tespiti (/etc/os-release okuyarak)
	// İleride burası macOS (Darwin) desteği ile genişletilebilir.
	if data, err := rc.FS.ReadFile("/etc/os-release"); err == nil {
		info := parseOSRelease(string(data))
		rc.Distro = info["ID"]
		rc.Version = info["VERSION_ID"]
	}

	if out, err := rc.Transport.Execute(rc, "hostname"); err == nil {
		rc.Hostname = strings.TrimSpace(out)
	}

	out, err = rc.Transport.Execute(rc, "id -un")
	if err != nil {
		return fmt.Errorf("detect user: %w", err)
	}
	rc.User = strings.TrimSpace(out)

	out, err = rc.Transport.Execute(rc, "echo $HOME")
	if err != nil {
		return fmt.Errorf("detect home dir: %w", err)
	}
	rc.HomeDir = strings.TrimSpace(out)
	if rc.HomeDir == "" {
		return fmt.Errorf("target reported empty $HOME")
	}

	rc.InitSystem = detectInitSystem(rc)
	return nil
}

func parseOSRelease(content string) map[string]string {
	info := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		if parts := strings.SplitN(line, "=", 2); len(parts) == 2 {
			key := parts[0]
			// Tırnak işaretlerini temizle
			val := strings.Trim(parts[1], "\"")
			info[key] = val
		}
	}
	return info
}
