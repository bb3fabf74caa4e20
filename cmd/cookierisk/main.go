package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cookierisk/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "cookierisk:", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode separates usage problems the user can fix (bad batch, missing
// endpoint, bad settings) from runtime failures.
func exitCode(err error) int {
	switch services.Kind(err) {
	case services.ErrInputFormat, services.ErrNoEndpoint, services.ErrConfiguration:
		return 2
	default:
		return 1
	}
}
