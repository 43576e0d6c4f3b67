package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/luzene/formatter"
	"github.com/gnoswap-labs/luzene/internal"
	tt "github.com/gnoswap-labs/luzene/internal/types"
	"github.com/gnoswap-labs/luzene/lint"
)

type lintOptions struct {
	ignoreRules []string
	ignorePaths []string
	json        bool
	outPath     string
}

func newLintCmd(o *rootOptions) *cobra.Command {
	lo := lintOptions{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint query files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, o, args, lo)
		},
	}

	cmd.Flags().StringSliceVar(&lo.ignoreRules, "ignore", nil, "Comma-separated list of lint rules to ignore")
	cmd.Flags().StringSliceVar(&lo.ignorePaths, "ignore-paths", nil, "Comma-separated list of paths to ignore")
	cmd.Flags().BoolVar(&lo.json, "json", false, "Output issues in JSON format")
	cmd.Flags().StringVarP(&lo.outPath, "output", "o", "", "Output path (when using JSON)")
	return cmd
}

func runLint(cmd *cobra.Command, o *rootOptions, paths []string, lo lintOptions) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	engine, _, err := o.engine()
	if err != nil {
		return err
	}
	for _, rule := range lo.ignoreRules {
		engine.IgnoreRule(rule)
	}
	for _, path := range lo.ignorePaths {
		engine.IgnorePath(path)
	}

	issues, err := lint.ProcessFiles(ctx, o.logger, engine, paths, lint.ProcessFile)
	if err != nil {
		return fmt.Errorf("error processing files: %w", err)
	}

	if err := printIssues(cmd.OutOrStdout(), o.logger, issues, lo.json, lo.outPath); err != nil {
		return err
	}
	if len(issues) > 0 {
		return fmt.Errorf("%w: %d", ErrIssuesFound, len(issues))
	}
	return nil
}

func groupByFile(issues []tt.Issue) (map[string][]tt.Issue, []string) {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)
	return issuesByFile, sortedFiles
}

func printIssues(w io.Writer, logger *zap.Logger, issues []tt.Issue, isJSON bool, jsonOutput string) error {
	issuesByFile, sortedFiles := groupByFile(issues)

	if !isJSON {
		for _, filename := range sortedFiles {
			sourceCode, err := internal.ReadSourceCode(filename)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
				continue
			}
			fmt.Fprint(w, formatter.GenerateFormattedIssue(issuesByFile[filename], sourceCode))
		}
		return nil
	}

	d, err := json.Marshal(issuesByFile)
	if err != nil {
		return fmt.Errorf("error marshalling issues to JSON: %w", err)
	}
	if jsonOutput == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
