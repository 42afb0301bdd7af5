package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Matoxx01/JobCounter/internal/config"
)

func TestConfigService_Get(t *testing.T) {
	cfg := config.DefaultConfig()
	svc := NewConfigService("/tmp/config.toml", cfg)

	if svc.Get() != cfg {
		t.Errorf("expected %+v, got %+v", cfg, svc.Get())
	}
}

func TestConfigService_GetPath(t *testing.T) {
	svc := NewConfigService("/tmp/test/config.toml", config.DefaultConfig())

	if path := svc.GetPath(); path != "/tmp/test/config.toml" {
		t.Errorf("expected path '/tmp/test/config.toml', got %q", path)
	}
}

func TestConfigService_Exists(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	if svc.Exists() {
		t.Error("expected Exists() to return false")
	}
	if err := os.WriteFile(configPath, []byte("test"), 0644); err != nil {
		t.Fatal(err)
	}
	if !svc.Exists() {
		t.Error("expected Exists() to return true")
	}
}

func TestConfigService_Update(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	newCfg := config.DefaultConfig()
	newCfg.Backend = "FILE"
	newCfg.Quota = "45"

	if err := svc.Update(newCfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := svc.Get()
	if result.Backend != "file" || result.Quota != "00:45:00" {
		t.Errorf("expected normalized config, got %+v", result)
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if loaded != result {
		t.Errorf("file holds %+v, memory holds %+v", loaded, result)
	}
}

func TestConfigService_Update_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	invalidCfg := config.DefaultConfig()
	invalidCfg.Backend = "cloud"

	if err := svc.Update(invalidCfg); err == nil {
		t.Error("expected error for invalid config")
	}
	if svc.Exists() {
		t.Error("invalid config should not be written")
	}
	if svc.Get().Backend != config.BackendMirror {
		t.Error("invalid config should not replace the current one")
	}
}

func TestConfigService_SetQuota(t *testing.T) {
	t.Run("without config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		svc := NewConfigService(configPath, config.DefaultConfig())

		if err := svc.SetQuota(2 * 3600); err != nil {
			t.Fatal(err)
		}
		if svc.Get().Quota != "02:00:00" {
			t.Errorf("Quota = %q, expected 02:00:00", svc.Get().Quota)
		}
		if svc.Exists() {
			t.Error("SetQuota should not create a config file")
		}
	})

	t.Run("with config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		svc := NewConfigService(configPath, config.DefaultConfig())
		if err := svc.Init(); err != nil {
			t.Fatal(err)
		}

		if err := svc.SetQuota(90 * 60); err != nil {
			t.Fatal(err)
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			t.Fatal(err)
		}
		if loaded.Quota != "01:30:00" {
			t.Errorf("file quota = %q, expected 01:30:00", loaded.Quota)
		}
	})
}

func TestConfigService_Init(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	if err := svc.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "quota =") {
		t.Error("expected sample config content")
	}

	if err := svc.Init(); err == nil {
		t.Error("expected error when config file already exists")
	}
}

func TestConfigService_Reload(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	if err := os.WriteFile(configPath, []byte(`theme = "nord"`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Get().Theme != "nord" {
		t.Errorf("Theme = %q, expected nord", svc.Get().Theme)
	}

	if err := os.WriteFile(configPath, []byte(`backend = 42`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reload(); err == nil {
		t.Error("expected error for invalid config")
	}
}
