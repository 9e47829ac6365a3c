package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

func (s *sample) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("TRINVENTORY_TEST_NAME", "reports")
	p := writeFile(t, "name: ${TRINVENTORY_TEST_NAME}\n")

	cfg := sample{Level: 3}
	if err := Load(p, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "reports" {
		t.Errorf("name = %q, want %q", cfg.Name, "reports")
	}
	if cfg.Level != 3 {
		t.Errorf("level = %d, default should survive", cfg.Level)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	p := writeFile(t, "level: 1\n")
	var cfg sample
	err := Load(p, &cfg)
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	p := writeFile(t, "name: [unclosed\n")
	var cfg sample
	if err := Load(p, &cfg); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadOptional_MissingFileUsesDefaults(t *testing.T) {
	cfg := sample{Name: "default"}
	if err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.Name != "default" {
		t.Errorf("name = %q", cfg.Name)
	}
}

func TestLoadOptional_StillValidates(t *testing.T) {
	var cfg sample
	if err := LoadOptional("", &cfg); err == nil {
		t.Fatal("defaults should still be validated")
	}
}
