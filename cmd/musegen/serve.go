package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/klangwerk/musegen/pkg/api"
	"github.com/klangwerk/musegen/pkg/logging"
	"github.com/klangwerk/musegen/pkg/preset"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the musegen HTTP API daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", getEnv("MUSEGEN_ADDR", ":8080"), "Listen address")
}

func runServe(cmd *cobra.Command) error {
	logger := logging.NewLogger("serve")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis is optional for the daemon: without it quota state is not
	// shared and the redis preset store is unavailable.
	redisCli, err := redisClient(ctx)
	if err != nil {
		if flagStore == "redis" || flagRedisURL != "" {
			return err
		}
		logger.Warn().Msg("Running without Redis, quota state will not be shared")
	} else {
		defer redisCli.Close()
		logger.Info().Str("addr", flagRedisURL).Msg("Connected to Redis")
	}

	store, err := presetStore(redisCli)
	if err != nil {
		return err
	}

	srv, err := api.New(api.Config{
		Addr:      flagAddr,
		Generator: generatorConfig(redisCli),
		Presets:   preset.NewManager(store),
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
