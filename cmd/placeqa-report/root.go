package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placeqa/internal/config"
	logpkg "github.com/kailas-cloud/placeqa/internal/logger"
)

type options struct {
	configPath string
	jsonOut    bool
	preview    int
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "placeqa-report",
		Short:         "Score business listing data quality",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Configuration file path (default: config/$ENV.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Print the raw result as JSON")
	rootCmd.PersistentFlags().IntVar(&opts.preview, "preview", 10, "Number of issues to list (0 lists all)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log provider calls to stderr")

	rootCmd.AddCommand(newAnalyzeCommand(opts))
	rootCmd.AddCommand(newAssessCommand(opts))

	return rootCmd
}

// commandContext returns a context canceled on SIGINT/SIGTERM carrying the CLI logger.
func (o *options) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc, error) {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)

	l := zap.NewNop()
	if o.verbose {
		var err error
		l, err = logpkg.NewLogger("local", "debug")
		if err != nil {
			cancel()
			return nil, nil, err //nolint:wrapcheck // surfaced as-is
		}
	}
	return logpkg.ContextWithLogger(ctx, l), cancel, nil
}

func (o *options) loadConfig() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath) //nolint:wrapcheck // already descriptive
	}
	return config.Load(config.GetEnv()) //nolint:wrapcheck // already descriptive
}
