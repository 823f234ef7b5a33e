package podspacecfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Domain == "" || cfg.Registry.Endpoint == "" {
		t.Fatalf("defaults not populated: %+v", cfg)
	}
	if cfg.Teardown.PollAttempts != 30 || cfg.Teardown.PollIntervalSeconds != 1 {
		t.Fatalf("unexpected teardown defaults: %+v", cfg.Teardown)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "podspace.yml")
	doc := []byte("domain: dev.example.com\nstorage:\n  className: gp3\n  workspaceSize: 20Gi\n  registrySize: 5Gi\n")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Domain != "dev.example.com" {
		t.Fatalf("domain = %q", cfg.Domain)
	}
	if cfg.Storage.ClassName != "gp3" || cfg.Storage.WorkspaceSize != "20Gi" {
		t.Fatalf("storage override not applied: %+v", cfg.Storage)
	}
	// Untouched sections keep their defaults.
	if cfg.Registry.Repository != "workspace-images" {
		t.Fatalf("registry default lost: %+v", cfg.Registry)
	}
}

func TestLoadRejectsBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "podspace.yml")
	if err := os.WriteFile(path, []byte("domain: \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for empty domain")
	}
}
