package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/luzene"
)

func newTokensCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [flags] query",
		Short: "Show the tokens of a query",
		Long:  `Tokens lexes a query and prints its token tree, or its kind structure as JSON.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			config, err := o.config()
			if err != nil {
				return err
			}

			q := luzene.New(args[0], o.queryOptions(config)...)
			if err := printTokens(cmd.OutOrStdout(), q, format); err != nil {
				return err
			}
			switch at := q.TruncatedAt(); {
			case at >= 0:
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: lexing stopped at byte %d\n", at)
			case q.Truncated():
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: lexing stopped inside a group or range")
			}
			return nil
		},
	}

	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func printTokens(w io.Writer, q *luzene.Query, format string) error {
	switch format {
	case "pretty":
		for i, t := range q.Tokens() {
			fmt.Fprintf(w, "%d: %s\n", i, t)
		}
		return nil
	case "json":
		d, err := json.MarshalIndent(q.Syntax(), "", "  ")
		if err != nil {
			return fmt.Errorf("error marshalling syntax: %w", err)
		}
		_, err = fmt.Fprintln(w, string(d))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
