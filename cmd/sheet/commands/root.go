package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/init-pkg/trade-disclosure/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Work with disclosure spreadsheets from the command line",
	Long: `sheet inspects and builds xlsx files, submits trade documents to the
recognition service and pushes edited sheets to the portfolio store.

Configuration comes from the same environment and CONFIG_PATH file as the API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// setup loads configuration and a logger that writes to stderr, keeping
// stdout for command output.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.NewWithWriter(cfg, os.Stderr), nil
}
