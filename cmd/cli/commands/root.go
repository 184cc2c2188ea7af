// Package commands implements the minibank command line tool.
package commands

import (
	"io"
	"log/slog"

	infraprovider "github.com/amirasaad/minibank/infra/provider"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/spf13/cobra"
)

var (
	envFile string
	verbose bool
	cfg     *config.App
	logger  *slog.Logger
)

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Configuration is loaded once before any
// subcommand runs.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "minibank",
		Short:         "MiniBank administration CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			if verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			}
			slog.SetDefault(logger)
			loaded, err := config.Load(envFile)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env", ".env", "environment file to load")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(migrateCmd(), tokenCmd(), ratesCmd(), convertCmd())
	return root
}

// newRateSource returns the configured upstream without a cache; every CLI
// invocation is a single lookup.
func newRateSource() (infraprovider.RateProvider, error) {
	if cfg.Exchange.Provider == "static" {
		static, err := infraprovider.NewStaticProvider(cfg.Exchange.Static)
		if err != nil {
			return nil, err
		}
		return static, nil
	}
	return infraprovider.NewCBRProvider(cfg.Exchange, logger), nil
}
