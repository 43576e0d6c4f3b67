package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/luzene"
	"github.com/gnoswap-labs/luzene/internal"
	"github.com/gnoswap-labs/luzene/lint"
)

const defaultTimeout = 5 * time.Minute

var (
	// ErrIssuesFound is returned by lint when at least one issue was
	// reported.
	ErrIssuesFound = errors.New("issues found")
	// ErrInvalidQuery is returned by parse when a query failed validation.
	ErrInvalidQuery = errors.New("invalid query")
)

type rootOptions struct {
	configPath string
	timeout    time.Duration
	verbose    bool
	color      string

	logger *zap.Logger
}

// NewRootCmd builds the luzene command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:               "luzene [paths...]",
		Short:             "luzene - normalize and lint Lucene query strings",
		Args:              cobra.ArbitraryArgs,
		TraverseChildren:  true, // Prioritize subcommands
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			// luzene [path1 path2 ...] behaves like the lint subcommand
			return runLint(cmd, o, args, lintOptions{})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", lint.DefaultConfigPath, "configuration file")
	flags.DurationVar(&o.timeout, "timeout", defaultTimeout, "timeout for linting")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&o.color, "color", "auto", "colorize output (auto|on|off)")

	rootCmd.AddCommand(
		newInitCmd(o),
		newParseCmd(o),
		newTokensCmd(o),
		newLintCmd(o),
		newFixCmd(o),
		newWatchCmd(o),
		newServeCmd(o),
	)
	return rootCmd
}

func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) setup(*cobra.Command, []string) error {
	switch o.color {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
	default:
		return fmt.Errorf("invalid --color value %q (auto|on|off)", o.color)
	}

	if o.logger != nil {
		return nil
	}
	var err error
	if o.verbose {
		o.logger, err = zap.NewDevelopment()
	} else {
		o.logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	return nil
}

// config loads the configuration file. A missing file means the defaults.
func (o *rootOptions) config() (lint.Config, error) {
	config, err := lint.LoadConfig(o.configPath)
	if errors.Is(err, lint.ErrNoConfig) {
		o.logger.Debug("using default configuration", zap.Error(err))
		return config, nil
	}
	return config, err
}

func (o *rootOptions) engine() (*internal.Engine, lint.Config, error) {
	config, err := o.config()
	if err != nil {
		return nil, config, err
	}
	engine, err := lint.NewWithConfig(config, o.logger)
	if err != nil {
		return nil, config, fmt.Errorf("failed to initialize lint engine: %w", err)
	}
	return engine, config, nil
}

// queryOptions returns the query options of the configuration, with the
// command's logger.
func (o *rootOptions) queryOptions(config lint.Config) []luzene.Option {
	return append([]luzene.Option{luzene.WithLogger(o.logger)}, config.QueryOptions()...)
}
