package main

import (
	"errors"
	"os"

	"secretsanta/internal/cli"
	"secretsanta/internal/services"
)

func main() {
	if err := cli.Execute(); err != nil {
		if errors.Is(err, services.ErrInvariantViolation) {
			// A broken assignment is a bug, not bad input.
			os.Exit(70)
		}
		os.Exit(1)
	}
}
