package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/imgpair/imgpair/internal/image"
	"github.com/imgpair/imgpair/internal/voxel"
)

// maxHeaderBytes bounds the header frame per the reference protocol's
// fixed receive buffer: a header that would exceed this is truncated and
// must fail rather than be silently accepted.
const maxHeaderBytes = 1024

const readyToken = "ready"
const doneToken = "done"
const canGetToken = "can get"

// EncodeHeader formats the v1 header frame for d: "v1 dimNumber <D> <s0>
// ... <s{D-1}> <voxelType> <backendType> " with exactly one trailing
// space.
func EncodeHeader(d image.Descriptor) []byte {
	var b strings.Builder
	b.WriteString("v1 dimNumber ")
	b.WriteString(strconv.Itoa(d.Dim))
	b.WriteByte(' ')
	for _, s := range d.Sizes {
		b.WriteString(strconv.Itoa(s))
		b.WriteByte(' ')
	}
	b.WriteString(d.VoxelType.Token())
	b.WriteByte(' ')
	b.WriteString(d.Backend.Token())
	b.WriteByte(' ')
	return []byte(b.String())
}

// DecodeHeader parses a v1 header frame into a Descriptor. Every
// deviation from the wire contract — wrong leading tokens, a size count
// that doesn't match the declared dim, an unrecognized voxel-type or
// backend token, or a frame that filled the 1024-byte receive buffer
// without a parseable end — is a ProtocolViolationError.
func DecodeHeader(raw []byte) (image.Descriptor, error) {
	if len(raw) >= maxHeaderBytes {
		return image.Descriptor{}, violation("header frame exceeds receive buffer", nil)
	}
	fields := strings.Fields(string(raw))
	if len(fields) < 4 {
		return image.Descriptor{}, violation("header frame too short", nil)
	}
	if fields[0] != "v1" {
		return image.Descriptor{}, violation(fmt.Sprintf("unexpected header version token %q", fields[0]), nil)
	}
	if fields[1] != "dimNumber" {
		return image.Descriptor{}, violation(fmt.Sprintf("unexpected header token %q", fields[1]), nil)
	}
	dim, err := strconv.Atoi(fields[2])
	if err != nil || dim < 1 {
		return image.Descriptor{}, violation(fmt.Sprintf("invalid dim token %q", fields[2]), err)
	}
	// fields layout: v1 dimNumber <D> <s0>..<s{D-1}> <voxelType> <backendType>
	wantLen := 3 + dim + 2
	if len(fields) != wantLen {
		return image.Descriptor{}, violation(
			fmt.Sprintf("expected %d size tokens for dim=%d, got %d fields", dim, dim, len(fields)), nil)
	}
	sizes := make([]int, dim)
	for i := 0; i < dim; i++ {
		sizes[i], err = strconv.Atoi(fields[3+i])
		if err != nil || sizes[i] <= 0 {
			return image.Descriptor{}, violation(fmt.Sprintf("invalid size token %q", fields[3+i]), err)
		}
	}
	voxelToken := fields[3+dim]
	if !strings.Contains(voxelToken, "Type") {
		return image.Descriptor{}, violation(fmt.Sprintf("voxel type token %q missing Type substring", voxelToken), nil)
	}
	vt, err := voxel.ParseToken(voxelToken)
	if err != nil {
		return image.Descriptor{}, violation(fmt.Sprintf("unrecognized voxel type token %q", voxelToken), err)
	}
	backendToken := fields[3+dim+1]
	backend, err := image.ParseBackendToken(backendToken)
	if err != nil {
		return image.Descriptor{}, violation(fmt.Sprintf("unrecognized backend token %q", backendToken), err)
	}

	d, err := image.NewDescriptor(dim, sizes, vt, backend)
	if err != nil {
		return image.Descriptor{}, violation("descriptor validation failed", err)
	}
	return d, nil
}
