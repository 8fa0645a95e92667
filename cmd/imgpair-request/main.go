// Command imgpair-request implements the pull-receiver pairing: it
// connects, sends the "can get" wake-up frame, then receives the image.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/imgpair/imgpair/internal/config"
	"github.com/imgpair/imgpair/internal/logging"
	"github.com/imgpair/imgpair/internal/roles"
)

func main() {
	logging.ConfigureRuntime()

	configPath := flag.String("config", "imgpair-request.toml", "path to role config")
	out := flag.String("out", "received.raw", "output path for the received pixel buffer")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgpair-request: %v\n", err)
		os.Exit(1)
	}

	if err := roles.RunRequest(context.Background(), cfg, *out); err != nil {
		fmt.Fprintf(os.Stderr, "imgpair-request: %v\n", err)
		os.Exit(1)
	}
}
