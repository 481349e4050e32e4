// Package cmd implements the gschat CLI.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/growthsuite/gschat/internal/app"
	"github.com/growthsuite/gschat/internal/config"
	"github.com/growthsuite/gschat/internal/log"
	"github.com/growthsuite/gschat/internal/retrieval"
)

var (
	flagMode    string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gschat",
	Short: "Knowledge retrieval for the GrowthSuite assistant",
	Long: `gschat assembles a knowledge corpus from documentation, database schema,
source code, configuration, and past conversations, and retrieves the
fragments most relevant to a query for prompt context injection.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "",
		"force retrieval mode (vector|keyword), overriding config and resource probe")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
}

// setupApp loads configuration and wires the application for one command
// invocation. Callers must Close the returned app.
func setupApp(cmd *cobra.Command) (*app.App, error) {
	override, err := parseModeFlag()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level})

	return app.Setup(cmd.Context(), cfg, logger, override)
}

func parseModeFlag() (retrieval.Mode, error) {
	switch flagMode {
	case "":
		return "", nil
	case string(retrieval.ModeVector):
		return retrieval.ModeVector, nil
	case string(retrieval.ModeKeyword):
		return retrieval.ModeKeyword, nil
	default:
		return "", fmt.Errorf("invalid --mode %q (expected vector or keyword)", flagMode)
	}
}
