// Command imgpair-receive implements the push-receiver pairing: it binds
// and waits for a sender to connect, then receives one image (or a
// stream of images in multi-image mode) and writes each raw payload to
// disk alongside its metadata in the log.
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

	configPath := flag.String("config", "imgpair-receive.toml", "path to role config")
	out := flag.String("out", "received.raw", "output path for the received pixel buffer")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgpair-receive: %v\n", err)
		os.Exit(1)
	}

	if err := roles.RunReceive(context.Background(), cfg, *out); err != nil {
		fmt.Fprintf(os.Stderr, "imgpair-receive: %v\n", err)
		os.Exit(1)
	}
}
