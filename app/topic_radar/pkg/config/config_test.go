package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
search:
  source: remote
  dajiala:
    api_key: from-file
db:
  driver: postgres
  source: "host=localhost dbname=topics"
history:
  retain: 100
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Search.Source != "remote" || cfg.Search.Dajiala.APIKey != "from-file" {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.DB.Driver != "postgres" || cfg.History.Retain != 100 {
		t.Errorf("db/history = %+v/%+v", cfg.DB, cfg.History)
	}
	// 未配置的字段保留默认值
	if cfg.History.Limit != 30 || cfg.Log.Level != "info" || cfg.Export.Format != "json" {
		t.Errorf("defaults lost: %+v %+v %+v", cfg.History, cfg.Log, cfg.Export)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() expected error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvAPIKey: " env-key ", EnvUseMock: "false"}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.Search.Dajiala.APIKey != "env-key" || cfg.Search.Source != "remote" {
		t.Errorf("ApplyEnv() = %+v", cfg.Search)
	}

	env[EnvUseMock] = "true"
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.Search.Source != "mock" {
		t.Errorf("source = %q, want mock", cfg.Search.Source)
	}
}
