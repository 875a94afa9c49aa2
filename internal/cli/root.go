package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"flashquiz/internal/app"
	"flashquiz/internal/config"
	"flashquiz/internal/content"
	"flashquiz/internal/infra/memory"
	redissource "flashquiz/internal/infra/redis"
	"flashquiz/internal/infra/sqlite"
	goredis "github.com/redis/go-redis/v9"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	if envPort == "" {
		envPort = "8080"
	}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "flashquiz",
		Short: "Flashcard quiz with timed questions and local attempt history",
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on (serve)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewPlayCmd(&configPath))
	cmd.AddCommand(NewServeCmd(&configPath, &port))
	cmd.AddCommand(NewHistoryCmd(&configPath))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}

// newQuestionSource wires the content file behind the configured cache layer.
func newQuestionSource(cfg config.Config) app.QuestionSource {
	file := content.NewFileSource(cfg.QuestionsPath())
	ttl := config.TTLDuration(cfg.Content.TTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redissource.NewCachedSource(client, file, config.TTLDuration(cfg.Redis.TTL, ttl))
	}
	return memory.NewCachedSource(file, ttl)
}

// newRecorder opens the attempt store and applies its schema.
func newRecorder(ctx context.Context, cfg config.Config) (*sqlite.Recorder, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	recorder, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	if err := recorder.Migrate(ctx); err != nil {
		recorder.Close()
		return nil, err
	}
	return recorder, nil
}
