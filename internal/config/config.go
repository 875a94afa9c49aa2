package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Content struct {
		Path string `yaml:"path"`
		TTL  string `yaml:"ttl"`
	} `yaml:"content"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Quiz struct {
		Count              int `yaml:"count"`
		SecondsPerQuestion int `yaml:"secondsPerQuestion"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path. A missing file yields the zero config so
// every setting falls back to its default.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// QuestionsPath returns the configured content file or "questions.json".
func (c Config) QuestionsPath() string {
	if c.Content.Path != "" {
		return c.Content.Path
	}
	return "questions.json"
}

// DatabasePath returns the configured SQLite file, defaulting to
// ~/.flashquiz/quiz.db (created on demand).
func (c Config) DatabasePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".flashquiz")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "quiz.db"), nil
}

// QuizCount returns the configured default question count.
func (c Config) QuizCount() int {
	if c.Quiz.Count > 0 {
		return c.Quiz.Count
	}
	return 5
}

// QuizSeconds returns the configured default seconds per question.
func (c Config) QuizSeconds() int {
	if c.Quiz.SecondsPerQuestion > 0 {
		return c.Quiz.SecondsPerQuestion
	}
	return 20
}
