package protocol

import (
	"net"
	"testing"
	"time"

	"github.com/imgpair/imgpair/internal/image"
	"github.com/imgpair/imgpair/internal/testutil/testlog"
	"github.com/imgpair/imgpair/internal/transport"
	"github.com/imgpair/imgpair/internal/voxel"
)

func TestChunkVoxelLengthsShortPath(t *testing.T) {
	lens := ChunkVoxelLengths(24, 2)
	if len(lens) != 1 || lens[0] != 24 {
		t.Fatalf("ChunkVoxelLengths(24,2) = %v, want [24]", lens)
	}
}

func TestChunkVoxelLengthsByteWidePathAlwaysOneFrame(t *testing.T) {
	lens := ChunkVoxelLengths(5000, 1)
	if len(lens) != 1 || lens[0] != 5000 {
		t.Fatalf("ChunkVoxelLengths(5000,1) = %v, want [5000]", lens)
	}
}

func TestChunkVoxelLengthsSplitPath(t *testing.T) {
	// L=4096, E=4: firstLen=ceil(4096/4)=1024, lastLen=4096-3*1024=1024>0
	// => 4 frames of 1024 each, summing to 4096.
	lens := ChunkVoxelLengths(4096, 4)
	if len(lens) != 4 {
		t.Fatalf("len(lens) = %d, want 4", len(lens))
	}
	sum := 0
	for _, l := range lens {
		sum += l
	}
	if sum != 4096 {
		t.Fatalf("sum(lens) = %d, want 4096", sum)
	}
}

func TestChunkVoxelLengthsSplitPathTwoByteWide(t *testing.T) {
	// L=2000, E=2: firstLen=ceil(2000/2)=1000, lastLen=2000-1*1000=1000>0
	// => 2 frames summing to 2000. With L >= 1024 and E <= 8, lastLen is
	// always positive, so the split path always yields exactly E frames.
	lens := ChunkVoxelLengths(2000, 2)
	if len(lens) != 2 {
		t.Fatalf("len(lens) = %d, want 2 (E=%d)", len(lens), 2)
	}
	if lens[0]+lens[1] != 2000 {
		t.Fatalf("sum(lens) = %d, want 2000", lens[0]+lens[1])
	}
}

func TestSendRecvPayloadArrayModeRoundTrip(t *testing.T) {
	d, err := image.NewDescriptor(3, []int{4, 3, 2}, voxel.UnsignedShort, image.ArrayBackend)
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}
	buf := make([]byte, d.ByteCount())
	for i := 0; i < d.VoxelCount(); i++ {
		buf[2*i] = 0
		buf[2*i+1] = byte(i)
	}
	orig := append([]byte(nil), buf...)

	h1, h2 := pipeHandles(t)
	errCh := make(chan error, 1)
	go func() {
		errCh <- SendPayload(h1, d, buf, false)
	}()
	got, err := RecvPayload(h2, d)
	if err != nil {
		t.Fatalf("RecvPayload: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("SendPayload: %v", err)
	}
	if string(got) != string(orig) {
		t.Fatal("round-tripped buffer does not match original")
	}
	if string(buf) != string(orig) {
		t.Fatal("sender's buffer was mutated by the temporary endian flip")
	}
}

func TestSendRecvPayloadPlanarVsArrayProduceIdenticalReconstruction(t *testing.T) {
	sizes := []int{4, 4, 2}
	array, _ := image.NewDescriptor(3, sizes, voxel.Float, image.ArrayBackend)
	planar, _ := image.NewDescriptor(3, sizes, voxel.Float, image.PlanarBackend)

	buf := make([]byte, array.ByteCount())
	for i := range buf {
		buf[i] = byte(i * 7 % 251)
	}

	gotArray := roundTripPayload(t, array, buf)
	gotPlanar := roundTripPayload(t, planar, buf)
	if string(gotArray) != string(gotPlanar) {
		t.Fatal("array-mode and planar-mode reconstructions differ")
	}
	if string(gotArray) != string(buf) {
		t.Fatal("reconstruction does not match original buffer")
	}
}

func roundTripPayload(t *testing.T, d image.Descriptor, buf []byte) []byte {
	t.Helper()
	h1, h2 := pipeHandles(t)
	errCh := make(chan error, 1)
	go func() {
		errCh <- SendPayload(h1, d, buf, false)
	}()
	got, err := RecvPayload(h2, d)
	if err != nil {
		t.Fatalf("RecvPayload: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("SendPayload: %v", err)
	}
	return got
}

func pipeHandles(t *testing.T) (*transport.Handle, *transport.Handle) {
	t.Helper()
	testlog.Start(t)
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	cfg := transport.DefaultConfig()
	cfg.FrameTimeout = 3 * time.Second
	cfg.HandshakeTimeout = 3 * time.Second
	return transport.WrapConn(client, true, cfg), transport.WrapConn(server, false, cfg)
}
