package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
content:
  path: data/questions.json
  ttl: 5m
storage:
  path: /tmp/quiz.db
quiz:
  count: 8
  secondsPerQuestion: 15
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.QuestionsPath() != "data/questions.json" {
		t.Fatalf("unexpected content path %q", cfg.QuestionsPath())
	}
	if got, _ := cfg.DatabasePath(); got != "/tmp/quiz.db" {
		t.Fatalf("unexpected storage path %q", got)
	}
	if cfg.QuizCount() != 8 || cfg.QuizSeconds() != 15 {
		t.Fatalf("unexpected quiz defaults %d/%d", cfg.QuizCount(), cfg.QuizSeconds())
	}
}

func TestMissingConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.QuestionsPath() != "questions.json" {
		t.Fatalf("unexpected default content path %q", cfg.QuestionsPath())
	}
	if cfg.QuizCount() != 5 || cfg.QuizSeconds() != 20 {
		t.Fatalf("unexpected quiz defaults %d/%d", cfg.QuizCount(), cfg.QuizSeconds())
	}
}

func TestTTLDuration(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback, got %v", d)
	}
	if d := TTLDuration("30s", time.Minute); d != 30*time.Second {
		t.Fatalf("expected 30s, got %v", d)
	}
	if d := TTLDuration("bogus", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback on parse error, got %v", d)
	}
}
