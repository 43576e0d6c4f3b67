package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/luzene/internal/fixer"
	"github.com/gnoswap-labs/luzene/lint"
)

func newFixCmd(o *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Rewrite queries in canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()

			engine, config, err := o.engine()
			if err != nil {
				return err
			}

			fix := fixer.New(dryRun, o.queryOptions(config)...)
			fix.Out = cmd.OutOrStdout()
			return runAutoFix(ctx, o.logger, engine, fix, args)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run in dry-run mode (show fixes without applying them)")
	return cmd
}

func runAutoFix(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, fix *fixer.Fixer, paths []string) error {
	var failed int
	for _, path := range paths {
		issues, err := lint.ProcessPath(ctx, logger, engine, path, lint.ProcessFile)
		if err != nil {
			return fmt.Errorf("error processing path %s: %w", path, err)
		}

		issuesByFile, sortedFiles := groupByFile(issues)
		for _, filename := range sortedFiles {
			if _, err := fix.Fix(filename, issuesByFile[filename]); err != nil {
				logger.Error("error fixing issues", zap.String("file", filename), zap.Error(err))
				failed++
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to fix %d files", failed)
	}
	return nil
}
