package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	Reset()
	defer Reset()
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Clustering.Eps != 0.3 || cfg.Clustering.MinSamples != 2 || cfg.Clustering.WindowDays != 3 {
		t.Errorf("Unexpected clustering defaults: %+v", cfg.Clustering)
	}
	if cfg.Clustering.Metric != "euclidean" || !cfg.Clustering.Normalize || cfg.Clustering.ContentPrefix != 200 {
		t.Errorf("Unexpected embedding input defaults: %+v", cfg.Clustering)
	}
	if cfg.Issues.SimilarityThreshold != 0.3 || cfg.Issues.NIssues != 10 {
		t.Errorf("Unexpected issue defaults: %+v", cfg.Issues)
	}
	if cfg.Issues.MinDF != 2 || cfg.Issues.MaxDF != 0.9 || cfg.Issues.Transitive {
		t.Errorf("Unexpected vectorizer defaults: %+v", cfg.Issues)
	}
	if cfg.Database.BatchSize != 1000 {
		t.Errorf("Expected batch size 1000, got %d", cfg.Database.BatchSize)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	Reset()
	defer Reset()
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "custom.yaml")
	content := []byte("clustering:\n  eps: 0.5\n  window_days: 7\nissues:\n  transitive: true\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Clustering.Eps != 0.5 || cfg.Clustering.WindowDays != 7 {
		t.Errorf("Config file values not applied: %+v", cfg.Clustering)
	}
	if !cfg.Issues.Transitive {
		t.Error("Expected transitive grouping from config file")
	}
	if cfg.Clustering.MinSamples != 2 {
		t.Errorf("Expected default min samples to survive, got %d", cfg.Clustering.MinSamples)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	Reset()
	defer Reset()
	chdir(t, t.TempDir())
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/news")
	t.Setenv("NEWSLENS_ISSUES_N_ISSUES", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Embedding.APIKey != "test-key" {
		t.Errorf("Expected API key from GEMINI_API_KEY, got %q", cfg.Embedding.APIKey)
	}
	if cfg.Database.URL != "postgres://localhost/news" {
		t.Errorf("Expected database URL from DATABASE_URL, got %q", cfg.Database.URL)
	}
	if cfg.Issues.NIssues != 3 {
		t.Errorf("Expected n_issues=3 from environment, got %d", cfg.Issues.NIssues)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	Reset()
	defer Reset()
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "bad.yaml")
	content := []byte("clustering:\n  metric: manhattan\nissues:\n  max_df: 2\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected validation error")
	}
}

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("5s", time.Minute); got != 5*time.Second {
		t.Errorf("Expected 5s, got %v", got)
	}
	if got := ParseDuration("", time.Minute); got != time.Minute {
		t.Errorf("Expected fallback, got %v", got)
	}
}

func TestIsValidAPIKey(t *testing.T) {
	if isValidAPIKey("") || isValidAPIKey("YOUR_API_KEY") {
		t.Error("Placeholder keys should be rejected")
	}
	if !isValidAPIKey("AIza-real") {
		t.Error("Real-looking key should be accepted")
	}
}
