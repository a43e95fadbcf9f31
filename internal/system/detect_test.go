package system

import (
	"context"
	"testing"

	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/transport"
)

func TestDetect(t *testing.T) {
	tr := transport.NewMockTransport()
	tr.AddResponse("uname -s", "Linux\n")
	tr.AddResponse("hostname", "build-01\n")
	tr.AddResponse("id -un", "deploy\n")
	tr.AddResponse("echo $HOME", "/home/deploy\n")
	tr.FileContent["/etc/os-release"] = "ID=ubuntu\nVERSION_ID=\"22.04\"\n"
	tr.FileContent["/proc/1/comm"] = "systemd\n"

	rc := core.NewRunContext(context.Background(), tr, false)
	if err := Detect(rc); err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}

	if rc.OS != "linux" {
		t.Errorf("OS = %q, want linux", rc.OS)
	}
	if rc.Distro != "ubuntu" {
		t.Errorf("Distro = %q, want ubuntu", rc.Distro)
	}
	if rc.Version != "22.04" {
		t.Errorf("Version = %q, want 22.04", rc.Version)
	}
	if rc.Hostname != "build-01" {
		t.Errorf("Hostname = %q, want build-01", rc.Hostname)
	}
	if rc.User != "deploy" {
		t.Errorf("User = %q, want deploy", rc.User)
	}
	if rc.HomeDir != "/home/deploy" {
		t.Errorf("HomeDir = %q, want /home/deploy", rc.HomeDir)
	}
	if rc.InitSystem != "systemd" {
		t.Errorf("InitSystem = %q, want systemd", rc.InitSystem)
	}
}

func TestDetect_EmptyHome(t *testing.T) {
	tr := transport.NewMockTransport()
	tr.AddResponse("uname -s", "Linux\n")
	tr.AddResponse("hostname", "x\n")
	tr.AddResponse("id -un", "deploy\n")
	tr.AddResponse("echo $HOME", "\n")

	rc := core.NewRunContext(context.Background(), tr, false)
	if err := Detect(rc); err == nil {
		t.Fatal("expected error for empty $HOME")
	}
}

func TestParseOSRelease(t *testing.T) {
	content := `NAME="Ubuntu"
VERSION="22.04.3 LTS (Jammy Jellyfish)"
ID=ubuntu
ID_LIKE=debian
VERSION_ID="22.04"
`
	info := parseOSRelease(content)

	if info["ID"] != "ubuntu" {
		t.Errorf("ID = %q, want ubuntu", info["ID"])
	}
	if info["VERSION_ID"] != "22.04" {
		t.Errorf("VERSION_ID = %q, want 22.04", info["VERSION_ID"])
	}
	if info["ID_LIKE"] != "debian" {
		t.Errorf("ID_LIKE = %q, want debian", info["ID_LIKE"])
	}
}
