package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadAppliesComponentDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
paths:
  source: /tmp/source
  json_file: definitions.yaml
  stored_contents: /tmp/contents
  destination: /tmp/out
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Components.Harvester != "FileHarvester" {
		t.Errorf("Components.Harvester = %q, want FileHarvester", cfg.Components.Harvester)
	}
	if cfg.Components.Sampler != "DiskImageSampler" {
		t.Errorf("Components.Sampler = %q, want DiskImageSampler", cfg.Components.Sampler)
	}
}

func TestLoadRejectsMissingSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
paths:
  json_file: definitions.yaml
  destination: /tmp/out
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for missing paths.source")
	}
}

func TestDefinitionsPathResolvesRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
paths:
  source: /tmp/source
  json_file: definitions.yaml
  stored_contents: /tmp/contents
  destination: /tmp/out
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Join(dir, "definitions.yaml")
	if cfg.DefinitionsPath() != want {
		t.Errorf("DefinitionsPath() = %q, want %q", cfg.DefinitionsPath(), want)
	}
}

func TestDefinitionsPathKeepsAbsolute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
paths:
  source: /tmp/source
  json_file: /elsewhere/definitions.yaml
  stored_contents: /tmp/contents
  destination: /tmp/out
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefinitionsPath() != "/elsewhere/definitions.yaml" {
		t.Errorf("DefinitionsPath() = %q, want /elsewhere/definitions.yaml", cfg.DefinitionsPath())
	}
}
