package protocol

import (
	"fmt"

	"github.com/imgpair/imgpair/internal/image"
	"github.com/imgpair/imgpair/internal/transport"
	"github.com/imgpair/imgpair/internal/wire"
)

// shortPathVoxelThreshold is the voxel-count cutoff below which a payload
// is always sent as a single frame, regardless of element size.
const shortPathVoxelThreshold = 1024

// ChunkVoxelLengths returns, in send order, the voxel length of each
// frame a buffer of voxelLen voxels with the given element size is split
// into. A single-element result means the short/byte-wide path applies.
func ChunkVoxelLengths(voxelLen, elemSize int) []int {
	if voxelLen < shortPathVoxelThreshold || elemSize == 1 {
		return []int{voxelLen}
	}
	firstLen := ceilDiv(voxelLen, elemSize)
	lastLen := voxelLen - (elemSize-1)*firstLen
	lens := make([]int, 0, elemSize)
	for i := 0; i < elemSize-1; i++ {
		lens = append(lens, firstLen)
	}
	if lastLen > 0 {
		lens = append(lens, lastLen)
	}
	return lens
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// SendPayload frames and transmits buf (which must already satisfy
// d.ByteCount()) according to d's layout: array mode sends the whole
// buffer as one logical chunk; planar mode sends each plane as an
// independent chunk, with the n-dimensional iterator's remaining-step
// count deciding every plane boundary's more-flag. tailMore is the
// "more frames follow after this payload" flag for the very last frame
// of the very last chunk.
func SendPayload(h *transport.Handle, d image.Descriptor, buf []byte, tailMore bool) error {
	if err := d.ValidateBuffer(buf); err != nil {
		return &ConfigurationError{Reason: err.Error()}
	}
	elemSize := d.ElementSize()

	if !d.IsPlanar() {
		return transportErr(sendChunkedBuffer(h, buf, elemSize, d.VoxelCount(), tailMore))
	}

	planeVoxels := d.PlaneVoxelCount()
	planeBytes := planeVoxels * elemSize
	idx := wire.NewNDIndex(d.PlaneAxes())
	offset := 0
	for {
		remaining := idx.RemainingSteps()
		planeTailMore := tailMore
		if remaining > 0 {
			planeTailMore = true
		}
		planeBuf := buf[offset : offset+planeBytes]
		if err := sendChunkedBuffer(h, planeBuf, elemSize, planeVoxels, planeTailMore); err != nil {
			return transportErr(err)
		}
		offset += planeBytes
		if !idx.Advance() {
			break
		}
	}
	return nil
}

func sendChunkedBuffer(h *transport.Handle, buf []byte, elemSize, voxelLen int, tailMore bool) error {
	lens := ChunkVoxelLengths(voxelLen, elemSize)
	offset := 0
	for i, ln := range lens {
		chunkBytes := ln * elemSize
		chunk := buf[offset : offset+chunkBytes]
		more := true
		if i == len(lens)-1 {
			more = tailMore
		}
		if err := sendChunk(h, chunk, elemSize, more); err != nil {
			return err
		}
		offset += chunkBytes
	}
	return nil
}

// sendChunk flips buf's endianness in place before emitting it and flips
// it back after, so the caller's buffer is byte-identical on return.
func sendChunk(h *transport.Handle, buf []byte, elemSize int, more bool) error {
	wire.FlipBuffer(buf, elemSize)
	err := h.SendFrame(buf, more)
	wire.FlipBuffer(buf, elemSize)
	return err
}

// RecvPayload allocates a buffer of d.ByteCount() bytes and fills it by
// receiving frames until the transport's more-flag goes false. It does
// not need to know array vs planar mode: the sender's more-flag chain
// already encodes exactly where the logical payload ends, across plane
// boundaries and split-frame boundaries alike.
func RecvPayload(h *transport.Handle, d image.Descriptor) ([]byte, error) {
	elemSize := d.ElementSize()
	total := d.ByteCount()
	buf := make([]byte, total)
	offset := 0
	for {
		chunk, more, err := h.RecvFrame()
		if err != nil {
			return nil, transportErr(err)
		}
		if offset+len(chunk) > total {
			return nil, violation(fmt.Sprintf("payload frame overruns descriptor byte count: offset=%d len=%d total=%d", offset, len(chunk), total), nil)
		}
		wire.FlipBuffer(chunk, elemSize)
		copy(buf[offset:], chunk)
		offset += len(chunk)
		if !more {
			break
		}
	}
	if offset != total {
		return nil, violation(fmt.Sprintf("payload incomplete: got %d bytes want %d", offset, total), nil)
	}
	return buf, nil
}
