package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gnoswap-labs/luzene/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// issues and invalid queries were already printed
		if !errors.Is(err, cmd.ErrIssuesFound) && !errors.Is(err, cmd.ErrInvalidQuery) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
