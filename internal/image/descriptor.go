// Package image owns the wire-level image descriptor: dimensionality,
// axis sizes, voxel type, and backend layout, plus the derived counts the
// rest of the protocol needs (voxel count, byte count).
package image

import (
	"errors"
	"fmt"

	"github.com/imgpair/imgpair/internal/voxel"
)

var (
	ErrDimTooSmall     = errors.New("image: dim must be >= 1")
	ErrSizeMismatch    = errors.New("image: sizes length must equal dim")
	ErrSizeNotPositive = errors.New("image: every size must be > 0")
	ErrBufferLength    = errors.New("image: buffer length does not match descriptor byte count")
)

// Descriptor is the wire-level image shape agreed on during the header
// handshake.
type Descriptor struct {
	Dim       int
	Sizes     []int
	VoxelType voxel.Type
	Backend   Backend
}

// NewDescriptor validates and constructs a Descriptor.
func NewDescriptor(dim int, sizes []int, vt voxel.Type, backend Backend) (Descriptor, error) {
	d := Descriptor{Dim: dim, Sizes: append([]int(nil), sizes...), VoxelType: vt, Backend: backend}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// Validate checks the descriptor's structural invariants: sizes.length ==
// dim, every size positive, dim >= 1.
func (d Descriptor) Validate() error {
	if d.Dim < 1 {
		return ErrDimTooSmall
	}
	if len(d.Sizes) != d.Dim {
		return fmt.Errorf("%w: got %d want %d", ErrSizeMismatch, len(d.Sizes), d.Dim)
	}
	for i, s := range d.Sizes {
		if s <= 0 {
			return fmt.Errorf("%w: sizes[%d]=%d", ErrSizeNotPositive, i, s)
		}
	}
	return nil
}

// VoxelCount returns the product of all axis sizes.
func (d Descriptor) VoxelCount() int {
	count := 1
	for _, s := range d.Sizes {
		count *= s
	}
	return count
}

// ElementSize returns the byte width of one voxel.
func (d Descriptor) ElementSize() int {
	return d.VoxelType.ElementSize()
}

// ByteCount returns VoxelCount * ElementSize.
func (d Descriptor) ByteCount() int {
	return d.VoxelCount() * d.ElementSize()
}

// ValidateBuffer checks that buf has exactly ByteCount bytes.
func (d Descriptor) ValidateBuffer(buf []byte) error {
	want := d.ByteCount()
	if len(buf) != want {
		return fmt.Errorf("%w: got %d want %d", ErrBufferLength, len(buf), want)
	}
	return nil
}

// PlaneAxes returns the axis sizes beyond the first two, which the
// n-dimensional iterator walks to drive planar-mode framing.
func (d Descriptor) PlaneAxes() []int {
	if d.Dim <= 2 {
		return nil
	}
	return d.Sizes[2:]
}

// PlaneVoxelCount returns sizes[0]*sizes[1], the voxel count of one plane.
// For dim == 1 it is sizes[0] (a plane degenerates to the whole buffer).
func (d Descriptor) PlaneVoxelCount() int {
	count := 1
	if d.Dim >= 1 {
		count *= d.Sizes[0]
	}
	if d.Dim >= 2 {
		count *= d.Sizes[1]
	}
	return count
}

// IsPlanar reports whether framing should use planar mode: backend token
// says Planar and dim >= 3. dim < 3 always collapses to array mode, per
// the wire contract, regardless of the declared backend.
func (d Descriptor) IsPlanar() bool {
	return d.Backend == PlanarBackend && d.Dim >= 3
}
