package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ceylinesp/quizlet/internal/model"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Drill.Size != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[drill]
dataset = "/tmp/words.csv"
size = 3
direction = "translation-to-term"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Drill.Dataset == nil || *cfg.Drill.Dataset != "/tmp/words.csv" {
		t.Fatalf("unexpected dataset: %v", cfg.Drill.Dataset)
	}
	if cfg.Drill.Size == nil || *cfg.Drill.Size != 3 {
		t.Fatalf("unexpected size: %v", cfg.Drill.Size)
	}
	if cfg.Drill.Threshold != nil {
		t.Fatalf("expected threshold unset")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[drill]\nwords = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestDefaultTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(DefaultTemplate(DefaultConfig())), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("QUIZLET_SIZE=4\nQUIZLET_DIRECTION=reverse\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(EnvDirection, "term-to-translation")
	t.Setenv(EnvSize, "")
	t.Setenv(EnvDataset, "/data/words.csv")

	cfg, err := LoadEnv(envFile, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.Drill.Direction == nil || *cfg.Drill.Direction != "term-to-translation" {
		t.Fatalf("existing env must win over .env, got %v", cfg.Drill.Direction)
	}
	if cfg.Drill.Dataset == nil || *cfg.Drill.Dataset != "/data/words.csv" {
		t.Fatalf("unexpected dataset: %v", cfg.Drill.Dataset)
	}
}

func TestLoadEnvInvalidInt(t *testing.T) {
	t.Setenv(EnvSize, "many")
	t.Setenv(EnvThreshold, "x")
	_, err := LoadEnv()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{EnvSize, EnvThreshold} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %v", want, err)
		}
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	cfg := model.Config{
		DatasetPath: "words.csv",
		Delimiter:   "|",
		Size:        0,
		Direction:   "sideways",
		Modality:    "mixed",
		Threshold:   2,
		LogLevel:    "info",
	}
	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"--delimiter", "--size", "--direction"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "quizlet", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultDatasetPath(); got != filepath.Join("/cfg", "quizlet", "words.csv") {
		t.Fatalf("unexpected dataset path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "quizlet", "quizlet.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "quizlet", "quizlet.log") {
		t.Fatalf("unexpected log path %s", got)
	}
}
