package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApplyConfigYAMLOverlaysNonEmptyFields(t *testing.T) {
	cfg := DefaultConfig()
	data := []byte("listen: \":5555\"\nlog_level: debug\nhistory_db: chat.db\n")

	if err := ApplyConfigYAML(data, &cfg); err != nil {
		t.Fatalf("ApplyConfigYAML: %v", err)
	}

	want := DefaultConfig()
	want.ListenAddr = ":5555"
	want.LogLevel = "debug"
	want.HistoryDB = "chat.db"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyConfigYAMLRejectsGarbage(t *testing.T) {
	cfg := DefaultConfig()
	if err := ApplyConfigYAML([]byte("listen: [not, a, string"), &cfg); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("metrics: \":9700\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := LoadConfigFile(path, &cfg); err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.MetricsAddr != ":9700" {
		t.Errorf("MetricsAddr = %q, want :9700", cfg.MetricsAddr)
	}
	if cfg.ListenAddr != DefaultConfig().ListenAddr {
		t.Errorf("ListenAddr changed to %q", cfg.ListenAddr)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExportConfigYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ListenAddr = ":4321"

	data, err := ExportConfigYAML(cfg)
	if err != nil {
		t.Fatalf("ExportConfigYAML: %v", err)
	}

	loaded := DefaultConfig()
	if err := ApplyConfigYAML(data, &loaded); err != nil {
		t.Fatalf("ApplyConfigYAML: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
