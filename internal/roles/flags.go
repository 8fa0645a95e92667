package roles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/imgpair/imgpair/internal/image"
	"github.com/imgpair/imgpair/internal/voxel"
)

// ParseSizes parses a comma-separated list of positive integers, e.g.
// "64,64,2,2", as used by the cmd/ flags that describe an image's axes.
func ParseSizes(raw string) ([]int, error) {
	fields := strings.Split(raw, ",")
	sizes := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("roles: invalid size %q: %w", f, err)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("roles: sizes list is empty")
	}
	return sizes, nil
}

// ParseVoxelType parses a bare voxel type name (e.g. "UnsignedShort") or
// a full wire token (e.g. "UnsignedShortType") into a voxel.Type.
func ParseVoxelType(raw string) (voxel.Type, error) {
	if !strings.Contains(raw, "Type") {
		raw += "Type"
	}
	return voxel.ParseToken(raw)
}

// ParseBackend parses a bare backend name ("Array"/"Planar") or a full
// wire token ("ArrayImg"/"PlanarImg") into an image.Backend.
func ParseBackend(raw string) (image.Backend, error) {
	if !strings.Contains(raw, "Img") {
		raw += "Img"
	}
	return image.ParseBackendToken(raw)
}

// ParsePayloadPaths splits the -payload flag's value on commas, so a
// multi-image sender can be given a sequence of payload files while a
// single-image sender just gets one.
func ParsePayloadPaths(raw string) []string {
	fields := strings.Split(raw, ",")
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		paths = append(paths, f)
	}
	return paths
}

// ImageSpecFlags holds the command-line values shared by imgpair-send
// and imgpair-serve's flag sets, before they're parsed into an ImageSpec.
type ImageSpecFlags struct {
	Payload   string
	Dim       int
	Sizes     string
	VoxelType string
	Backend   string
	Name      string
}

// BuildImageSpec parses a command's raw flag values into an ImageSpec,
// falling back to cfg.ImageName when -name was left empty.
func BuildImageSpec(f ImageSpecFlags, cfgImageName string) (ImageSpec, error) {
	imageName := f.Name
	if imageName == "" {
		imageName = cfgImageName
	}

	sizeList, err := ParseSizes(f.Sizes)
	if err != nil {
		return ImageSpec{}, err
	}
	vt, err := ParseVoxelType(f.VoxelType)
	if err != nil {
		return ImageSpec{}, err
	}
	be, err := ParseBackend(f.Backend)
	if err != nil {
		return ImageSpec{}, err
	}
	paths := ParsePayloadPaths(f.Payload)
	if len(paths) == 0 {
		return ImageSpec{}, fmt.Errorf("roles: -payload is required")
	}

	return ImageSpec{
		Dim:          f.Dim,
		Sizes:        sizeList,
		VoxelType:    vt,
		Backend:      be,
		PayloadPaths: paths,
		Name:         imageName,
	}, nil
}
