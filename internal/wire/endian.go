// Package wire owns byte-order primitives shared by the protocol layer.
package wire

// Flip16 reverses the byte order of a 16-bit word in place.
func Flip16(b []byte) {
	b[0], b[1] = b[1], b[0]
}

// Flip32 reverses the byte order of a 32-bit word in place.
func Flip32(b []byte) {
	b[0], b[3] = b[3], b[0]
	b[1], b[2] = b[2], b[1]
}

// Flip64 reverses the byte order of a 64-bit word in place.
func Flip64(b []byte) {
	b[0], b[7] = b[7], b[0]
	b[1], b[6] = b[6], b[1]
	b[2], b[5] = b[5], b[2]
	b[3], b[4] = b[4], b[3]
}

// FlipWidth reverses byte order for a word of the given width (1, 2, 4, or
// 8 bytes). Width 1 is a no-op. Unsupported widths are a no-op too; callers
// validate width against a voxel.Type's ElementSize before calling this.
func FlipWidth(b []byte, width int) {
	switch width {
	case 2:
		Flip16(b)
	case 4:
		Flip32(b)
	case 8:
		Flip64(b)
	}
}

// FlipBuffer flips every word of the given width in buf, in place.
func FlipBuffer(buf []byte, width int) {
	if width <= 1 {
		return
	}
	for off := 0; off+width <= len(buf); off += width {
		FlipWidth(buf[off:off+width], width)
	}
}
