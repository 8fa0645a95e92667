// Command imgpair-send implements the push-sender pairing: it connects
// to a waiting receiver, then sends one image (or a stream of images in
// multi-image mode).
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

	configPath := flag.String("config", "imgpair-send.toml", "path to role config")
	payload := flag.String("payload", "", "path to the raw, host-order-irrelevant pixel buffer (comma-separated list in multi-image mode)")
	dim := flag.Int("dim", 0, "number of axes")
	sizes := flag.String("sizes", "", "comma-separated axis sizes, axis 0 fastest-varying")
	voxelType := flag.String("voxel-type", "", "voxel type, e.g. UnsignedShort")
	backend := flag.String("backend", "Array", "layout backend: Array or Planar")
	name := flag.String("name", "", "human-readable image name (defaults to the config's image_name)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imgpair-send: %v\n", err)
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
		fmt.Fprintf(os.Stderr, "imgpair-send: %v\n", err)
		os.Exit(1)
	}

	if err := roles.RunSend(context.Background(), cfg, spec); err != nil {
		fmt.Fprintf(os.Stderr, "imgpair-send: %v\n", err)
		os.Exit(1)
	}
}
