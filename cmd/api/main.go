package main

import (
	"fmt"
	"os"

	"github.com/eshaffer321/concilia/internal/cli"
	"github.com/eshaffer321/concilia/internal/infrastructure/config"
)

func main() {
	flags := cli.ParseServeFlags()

	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
