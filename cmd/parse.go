package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gnoswap-labs/luzene"
)

func newParseCmd(o *rootOptions) *cobra.Command {
	var preserveBrackets bool

	cmd := &cobra.Command{
		Use:   "parse [queries...]",
		Short: "Print the canonical form of queries",
		Long: `Parse validates every query given as an argument, or every line read
from standard input when no argument is given, and prints its canonical
form. Invalid queries are reported on standard error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := o.config()
			if err != nil {
				return err
			}
			opts := o.queryOptions(config)
			if cmd.Flags().Changed("preserve-brackets") {
				opts = append(opts, luzene.WithPreserveRangeBrackets(preserveBrackets))
			}

			queries := args
			if len(queries) == 0 {
				if f, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(f) {
					return errNoQueries
				}
				if queries, err = readQueries(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return runParse(cmd.OutOrStdout(), cmd.ErrOrStderr(), o.logger, queries, opts)
		},
	}

	cmd.Flags().BoolVar(&preserveBrackets, "preserve-brackets", false, "keep {} range delimiters instead of rewriting them to []")
	return cmd
}

var errNoQueries = errors.New("no queries given: pass them as arguments or on standard input")

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func runParse(out, errOut io.Writer, logger *zap.Logger, queries []string, opts []luzene.Option) error {
	invalid := 0
	for _, text := range queries {
		q := luzene.New(text, opts...)
		canonical, ok := q.Parse()
		if !ok {
			invalid++
			logger.Debug("invalid query", zap.String("query", text), zap.Strings("errors", q.Errors()))
			fmt.Fprintf(errOut, "%s: %s\n", text, strings.Join(q.Errors(), ", "))
			continue
		}
		fmt.Fprintln(out, canonical)
	}
	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInvalidQuery, invalid, len(queries))
	}
	return nil
}

// readQueries returns the non-blank lines of r.
func readQueries(r io.Reader) ([]string, error) {
	var queries []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			queries = append(queries, line)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("error reading queries: %w", err)
	}
	return queries, nil
}
