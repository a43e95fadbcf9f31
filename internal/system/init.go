package system

import (
	"strings"

	"github.com/melih-ucgun/bedrock/internal/core"
)

func detectInitSystem(rc *core.RunContext) string {
	// 1. Check PID 1 (most reliable)
	// /proc/1/comm usually contains "systemd" or "init"
	if comm, err := rc.FS.ReadFile("/proc/1/comm"); err == nil {
		if strings.TrimSpace(string(comm)) == "systemd" {
			return "systemd"
		}
	}

	// 2. Check /run/systemd/system (Standard way to check if booted with systemd)
	if core.FileExists(rc.FS, "/run/systemd/system") {
		return "systemd"
	}

	// 3. OpenRC checks
	if core.FileExists(rc.FS, "/run/openrc") {
		return "openrc"
	}
	if _, err := rc.Transport.Execute(rc, "command -v rc-service"); err == nil {
		return "openrc"
	}

	// 4. SysVinit checks (if /etc/init.d exists and no systemd/openrc detected)
	if core.FileExists(rc.FS, "/etc/init.d") {
		return "sysvinit"
	}

	return "unknown"
}
