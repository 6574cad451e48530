// =============================================================================
// fac2csv - Configuration Tests
// =============================================================================

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	def := Default()
	if cfg.MaxFileSizeMB != def.MaxFileSizeMB || cfg.MaxFiles != def.MaxFiles {
		t.Errorf("limits differ from defaults: %+v", cfg)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadOverridesFieldByField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
output_dir: /tmp/out
max_file_size_mb: 25
export_xlsx: true
server:
  port: 9000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("output_dir = %q", cfg.OutputDir)
	}
	if cfg.MaxFileSizeMB != 25 {
		t.Errorf("max_file_size_mb = %d, want 25", cfg.MaxFileSizeMB)
	}
	if !cfg.ExportXLSX {
		t.Error("export_xlsx not overridden")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}

	// Untouched fields keep their defaults.
	if cfg.MaxFiles != Default().MaxFiles {
		t.Errorf("max_files = %d, want default %d", cfg.MaxFiles, Default().MaxFiles)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []string{
		"max_file_size_mb: 0",
		"max_files: -1",
		"max_concurrency: 0",
		"server:\n  port: 70000",
	}
	for _, content := range cases {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("Load accepted invalid config %q", content)
		}
	}
}

func TestDerivedValues(t *testing.T) {
	cfg := Default()
	if cfg.MaxFileSizeBytes() != 10*1024*1024 {
		t.Errorf("MaxFileSizeBytes = %d", cfg.MaxFileSizeBytes())
	}
	if cfg.ServerAddr() != "0.0.0.0:8080" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr())
	}
}
