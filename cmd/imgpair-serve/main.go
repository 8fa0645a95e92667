// Command imgpair-serve implements the pull-sender pairing: it binds and
// waits for a requester's "can get" wake-up frame before sending the
// configured image.
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

	configPath := flag.String("config", "imgpair-serve.toml", "path to role config")
	payload := flag.String("payload", "", "path to the raw, host-order-irrelevant pixel buffer")
	dim := flag.Int("dim", 0, "number of axes")
	sizes := flag.String("sizes", "", "comma-separated axis sizes, axis 0 fastest-varying")
	voxelType := flag.String("voxel-type", "", "voxel type, e.g. UnsignedShort")
	backend := flag.String("backend", "Array", "layout backend: Array or Planar")
	name := flag.String("name", "", "human-readable image name (defaults to the config's image_name)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgpair-serve: %v\n", err)
		os.Exit(1)
	}

	spec, err := roles.BuildImageSpec(roles.ImageSpecFlags{
		Payload:   *payload,
		Dim:       *dim,
		Sizes:     *sizes,
		VoxelType: *voxelType,
		Backend:   *backend,
		Name:      *name,
	}, cfg.ImageName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgpair-serve: %v\n", err)
		os.Exit(1)
	}

	if err := roles.RunServe(context.Background(), cfg, spec); err != nil {
		fmt.Fprintf(os.Stderr, "imgpair-serve: %v\n", err)
		os.Exit(1)
	}
}
