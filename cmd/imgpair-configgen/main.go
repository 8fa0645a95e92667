// Command imgpair-configgen writes a starter TOML config for one of the
// four roles (send, receive, serve, request).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/imgpair/imgpair/internal/config"
)

func main() {
	role := flag.String("role", "send", "role: send|receive|serve|request")
	output := flag.String("output", "", "output path (defaults to imgpair-<role>.toml)")
	force := flag.Bool("force", false, "overwrite an existing config file")
	flag.Parse()

	out := *output
	if out == "" {
		out = fmt.Sprintf("imgpair-%s.toml", *role)
	}

	if err := config.WriteTemplate(out, *role, *force); err != nil {
		fmt.Fprintf(os.Stderr, "imgpair-configgen: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", out)
}
