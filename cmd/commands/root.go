package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-MarketplaceService/internal/config"
	"github.com/m04kA/SMC-MarketplaceService/pkg/logger"
)

var (
	configPath string

	cfg *config.Config
	log *logger.Logger
)

// Execute запускает CLI сервиса: serve, migrate, seed
func Execute() error {
	root := &cobra.Command{
		Use:          "marketplace",
		Short:        "Service booking marketplace API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, err = logger.New(cfg.Logs.File, cfg.Logs.Level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			log.Info("Configuration loaded from %s", configPath)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Close()
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to config file")

	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())
	return root.Execute()
}
