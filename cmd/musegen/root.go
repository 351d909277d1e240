package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/klangwerk/musegen/pkg/generator"
	"github.com/klangwerk/musegen/pkg/logging"
	"github.com/klangwerk/musegen/pkg/preset"
	"github.com/klangwerk/musegen/pkg/quota"
)

// Flags shared across subcommands. Each falls back to an environment
// variable so the daemon can be configured without flags.
var (
	flagMode       string
	flagAPIKey     string
	flagProjectID  string
	flagLocation   string
	flagEndpoint   string
	flagModel      string
	flagPresetsDir string
	flagStore      string
	flagRedisURL   string
	flagLogLevel   string
	flagPretty     bool
)

var rootCmd = &cobra.Command{
	Use:   "musegen",
	Short: "Thin wrapper around a cloud music generation backend",
	Long: `musegen wraps a cloud music generation API with cached backend
clients, persisted generation presets and quota-aware request gating.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logging.Config{
			Level:  logging.LogLevel(flagLogLevel),
			Pretty: flagPretty,
			Output: os.Stderr,
		})
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagMode, "mode", getEnv("MUSEGEN_MODE", "apikey"), "Backend mode (apikey or project)")
	pf.StringVar(&flagAPIKey, "api-key", os.Getenv("MUSEGEN_API_KEY"), "Backend API key (apikey mode)")
	pf.StringVar(&flagProjectID, "project", os.Getenv("MUSEGEN_PROJECT"), "Cloud project id (project mode)")
	pf.StringVar(&flagLocation, "location", os.Getenv("MUSEGEN_LOCATION"), "Backend region")
	pf.StringVar(&flagEndpoint, "endpoint", os.Getenv("MUSEGEN_ENDPOINT"), "Backend base URL")
	pf.StringVar(&flagModel, "model", os.Getenv("MUSEGEN_MODEL"), "Generation model identifier")
	pf.StringVar(&flagPresetsDir, "presets-dir", getEnv("MUSEGEN_PRESETS_DIR", "presets"), "Preset directory (file store)")
	pf.StringVar(&flagStore, "store", getEnv("MUSEGEN_STORE", "file"), "Preset store backend (file or redis)")
	pf.StringVar(&flagRedisURL, "redis-url", os.Getenv("REDIS_URL"), "Redis address for quota sharing and the redis preset store")
	pf.StringVar(&flagLogLevel, "log-level", getEnv("MUSEGEN_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	pf.BoolVar(&flagPretty, "pretty", false, "Human-readable console logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(presetCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// redisClient connects to Redis and verifies the connection.
func redisClient(ctx context.Context) (*redis.Client, error) {
	if flagRedisURL == "" {
		return nil, fmt.Errorf("redis address is required (--redis-url or REDIS_URL)")
	}
	client := redis.NewClient(&redis.Options{Addr: flagRedisURL})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", flagRedisURL, err)
	}
	return client, nil
}

// generatorConfig assembles the backend configuration from flags. The
// quota tracker is attached when a Redis client is provided.
func generatorConfig(redisCli *redis.Client) generator.Config {
	cfg := generator.Config{
		Mode:      generator.Mode(flagMode),
		APIKey:    flagAPIKey,
		ProjectID: flagProjectID,
		Location:  flagLocation,
		Endpoint:  flagEndpoint,
		Model:     flagModel,
	}
	if redisCli != nil {
		cfg.Quota = quota.NewTracker(redisCli, logging.NewLogger("quota"))
	}
	return cfg
}

// openPresetStore builds the selected preset store, connecting to
// Redis when the redis backend is requested. The returned cleanup
// closes that connection.
func openPresetStore(ctx context.Context) (preset.Store, func(), error) {
	if flagStore == "redis" {
		redisCli, err := redisClient(ctx)
		if err != nil {
			return nil, nil, err
		}
		return preset.NewRedisStore(redisCli), func() { redisCli.Close() }, nil
	}
	store, err := presetStore(nil)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

// presetStore builds the preset store selected by --store.
func presetStore(redisCli *redis.Client) (preset.Store, error) {
	switch flagStore {
	case "file":
		return preset.NewFileStore(flagPresetsDir)
	case "redis":
		if redisCli == nil {
			return nil, fmt.Errorf("redis preset store requires --redis-url")
		}
		return preset.NewRedisStore(redisCli), nil
	default:
		return nil, fmt.Errorf("unknown preset store %q (use file or redis)", flagStore)
	}
}
