package image

import (
	"testing"

	"github.com/imgpair/imgpair/internal/voxel"
)

func TestNewDescriptorDerivedCounts(t *testing.T) {
	d, err := NewDescriptor(3, []int{4, 3, 2}, voxel.UnsignedShort, ArrayBackend)
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}
	if d.VoxelCount() != 24 {
		t.Fatalf("VoxelCount() = %d, want 24", d.VoxelCount())
	}
	if d.ElementSize() != 2 {
		t.Fatalf("ElementSize() = %d, want 2", d.ElementSize())
	}
	if d.ByteCount() != 48 {
		t.Fatalf("ByteCount() = %d, want 48", d.ByteCount())
	}
}

func TestNewDescriptorRejectsSizeMismatch(t *testing.T) {
	if _, err := NewDescriptor(3, []int{4, 3}, voxel.Byte, ArrayBackend); err == nil {
		t.Fatal("expected error for sizes length != dim")
	}
}

func TestNewDescriptorRejectsNonPositiveSize(t *testing.T) {
	if _, err := NewDescriptor(2, []int{4, 0}, voxel.Byte, ArrayBackend); err == nil {
		t.Fatal("expected error for a zero size")
	}
}

func TestNewDescriptorRejectsDimTooSmall(t *testing.T) {
	if _, err := NewDescriptor(0, nil, voxel.Byte, ArrayBackend); err == nil {
		t.Fatal("expected error for dim < 1")
	}
}

func TestValidateBuffer(t *testing.T) {
	d, err := NewDescriptor(2, []int{2, 2}, voxel.Byte, ArrayBackend)
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}
	if err := d.ValidateBuffer(make([]byte, 4)); err != nil {
		t.Fatalf("ValidateBuffer: %v", err)
	}
	if err := d.ValidateBuffer(make([]byte, 3)); err == nil {
		t.Fatal("expected error for wrong buffer length")
	}
}

func TestIsPlanarRequiresDimAtLeast3AndPlanarBackend(t *testing.T) {
	planar3D, _ := NewDescriptor(3, []int{4, 4, 2}, voxel.Float, PlanarBackend)
	if !planar3D.IsPlanar() {
		t.Fatal("expected IsPlanar() true for dim=3 PlanarImg")
	}
	planar2D, _ := NewDescriptor(2, []int{4, 4}, voxel.Float, PlanarBackend)
	if planar2D.IsPlanar() {
		t.Fatal("expected IsPlanar() false for dim=2 even with PlanarImg backend")
	}
	array3D, _ := NewDescriptor(3, []int{4, 4, 2}, voxel.Float, ArrayBackend)
	if array3D.IsPlanar() {
		t.Fatal("expected IsPlanar() false for ArrayImg backend")
	}
}

func TestPlaneAxesAndPlaneVoxelCount(t *testing.T) {
	d, _ := NewDescriptor(4, []int{64, 64, 2, 2}, voxel.Float, PlanarBackend)
	if got := d.PlaneAxes(); len(got) != 2 || got[0] != 2 || got[1] != 2 {
		t.Fatalf("PlaneAxes() = %v, want [2 2]", got)
	}
	if d.PlaneVoxelCount() != 4096 {
		t.Fatalf("PlaneVoxelCount() = %d, want 4096", d.PlaneVoxelCount())
	}
}
