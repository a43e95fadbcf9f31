package tests

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// TestBootstrapDryRun builds the binary and runs the bootstrap pipeline
// in dry-run mode against this machine. Dry-run only executes read-only
// probes, so the test is safe on a developer laptop; it still covers the
// whole path from flag parsing to the persisted run report.
func TestBootstrapDryRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e in short mode")
	}
	if runtime.GOOS != "linux" {
		t.Skip("bootstrap targets linux hosts")
	}
	if _, err := exec.LookPath("apt-get"); err != nil {
		t.Skip("apt-get not available on this machine")
	}

	// 1. Setup Paths
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	projectRoot := wd
	if strings.HasSuffix(wd, "tests") {
		projectRoot = filepath.Dir(wd)
	}
	configFile := filepath.Join(projectRoot, "tests", "dryrun.yaml")

	// 2. Build once with the normal environment so the build cache is reused.
	exe := filepath.Join(t.TempDir(), "bedrock")
	build := exec.Command("go", "build", "-o", exe, ".")
	build.Dir = projectRoot
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("go build failed: %v\nOutput:\n%s", err, out)
	}

	// The state dir resolves under $HOME; pointing HOME at a temp dir
	// keeps the run away from the real ~/.bedrock.
	home := t.TempDir()

	// 3. Run bootstrap --dry-run
	run := exec.Command(exe, "bootstrap", "--dry-run", "-c", configFile)
	run.Dir = projectRoot
	run.Env = append(os.Environ(), "HOME="+home)

	output, err := run.CombinedOutput()
	if err != nil {
		t.Fatalf("bedrock bootstrap --dry-run failed: %v\nOutput:\n%s", err, output)
	}
	if !strings.Contains(string(output), "Dry-run tamamlandı") {
		t.Errorf("missing dry-run summary line in output:\n%s", output)
	}

	// 4. The run report must be persisted, marked dry-run, with every
	// step skipped and nothing applied.
	reportPath := filepath.Join(home, ".bedrock", "last-run.json")
	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("run report not written: %v", err)
	}

	var report core.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("parse %s: %v", reportPath, err)
	}
	if !report.DryRun {
		t.Error("report.DryRun = false, want true")
	}
	if report.Pipeline != "bootstrap" {
		t.Errorf("report.Pipeline = %q, want %q", report.Pipeline, "bootstrap")
	}
	if len(report.Results) == 0 {
		t.Fatal("report has no step results")
	}
	for _, res := range report.Results {
		if res.Status != core.StatusSkipped {
			t.Errorf("step %s: status = %s, want skipped", res.Step, res.Status)
		}
	}

	// Dry-run publishes nothing, so the summary step must not have
	// created outputs.json.
	if _, err := os.Stat(filepath.Join(home, ".bedrock", "outputs.json")); !os.IsNotExist(err) {
		t.Errorf("outputs.json should not exist after a dry-run (stat err: %v)", err)
	}

	// 5. status renders the saved report
	status := exec.Command(exe, "status")
	status.Dir = projectRoot
	status.Env = append(os.Environ(), "HOME="+home)

	output, err = status.CombinedOutput()
	if err != nil {
		t.Fatalf("bedrock status failed: %v\nOutput:\n%s", err, output)
	}
	for _, want := range []string{"bootstrap", "dry-run", "ssh-key"} {
		if !strings.Contains(string(output), want) {
			t.Errorf("status output missing %q:\n%s", want, output)
		}
	}
}
