package state

import (
	"testing"
	"time"

	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/transport"
)

func newTestStore() (*Store, *transport.MockTransport) {
	tr := transport.NewMockTransport()
	return NewStore("/home/deploy/.bedrock", tr.FileSystem()), tr
}

func TestStore_OutputsRoundTrip(t *testing.T) {
	store, _ := newTestStore()

	// İlk çalışma: dosya yok, boş doküman döner.
	out, err := store.LoadOutputs()
	if err != nil {
		t.Fatalf("LoadOutputs returned error: %v", err)
	}
	if len(out.Values) != 0 {
		t.Errorf("fresh outputs should be empty, got %v", out.Values)
	}

	if err := store.MergeOutputs(map[string]string{
		"bucket_name": "tfstate-ab12cd34",
		"lock_table":  "terraform-locks",
	}); err != nil {
		t.Fatalf("MergeOutputs returned error: %v", err)
	}

	// Merge korur, ezmez.
	if err := store.MergeOutputs(map[string]string{"public_ip": "203.0.113.42"}); err != nil {
		t.Fatalf("MergeOutputs returned error: %v", err)
	}

	out, err = store.LoadOutputs()
	if err != nil {
		t.Fatalf("LoadOutputs returned error: %v", err)
	}
	if out.Get("bucket_name") != "tfstate-ab12cd34" {
		t.Errorf("bucket_name = %q", out.Get("bucket_name"))
	}
	if out.Get("public_ip") != "203.0.113.42" {
		t.Errorf("public_ip = %q", out.Get("public_ip"))
	}
	if out.Get("missing") != "" {
		t.Errorf("missing key should be empty, got %q", out.Get("missing"))
	}
	if out.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set after merge")
	}
}

func TestStore_ReportRoundTrip(t *testing.T) {
	store, _ := newTestStore()

	// Rapor yokken nil döner, hata değil.
	report, err := store.LastReport()
	if err != nil {
		t.Fatalf("LastReport returned error: %v", err)
	}
	if report != nil {
		t.Errorf("expected nil report, got %+v", report)
	}

	saved := &core.Report{
		RunID:    "run-1",
		Pipeline: "bootstrap",
		Target:   "local",
		Started:  time.Now(),
		Results: []core.StepResult{
			{Step: "packages", Kind: "packages", Status: core.StatusDone, Message: "4 installed"},
			{Step: "ssh-key", Kind: "ssh-key", Status: core.StatusSkipped, Message: "already satisfied"},
		},
	}
	if err := store.SaveReport(saved); err != nil {
		t.Fatalf("SaveReport returned error: %v", err)
	}

	report, err = store.LastReport()
	if err != nil {
		t.Fatalf("LastReport returned error: %v", err)
	}
	if report == nil {
		t.Fatal("expected a report")
	}
	if report.Pipeline != "bootstrap" || len(report.Results) != 2 {
		t.Errorf("unexpected report: %+v", report)
	}
	if report.Results[1].Status != core.StatusSkipped {
		t.Errorf("status = %q", report.Results[1].Status)
	}
}

func TestStore_CorruptOutputs(t *testing.T) {
	store, tr := newTestStore()
	tr.FileContent["/home/deploy/.bedrock/outputs.json"] = "{not json"

	if _, err := store.LoadOutputs(); err == nil {
		t.Fatal("expected error for corrupt outputs file")
	}
}
