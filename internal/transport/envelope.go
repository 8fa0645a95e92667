// Package transport owns the PAIR-socket emulation this protocol runs
// over: connect/bind constructors around a net.Conn, and the multipart
// frame envelope (length + more-flag) that lets one logical payload span
// several wire frames.
//
// The envelope defined here is purely an implementation detail of running
// PAIR-socket semantics over TCP. It is not part of the image-transfer
// wire contract: the protocol package's frame *contents* (header text,
// metadata text, payload bytes, "done" text) are exactly what a real
// ZeroMQ PAIR socket would carry, envelope or not.
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	flagMore byte = 0x01

	envelopeHeaderLen = 1 + 8 // flags byte + 8-byte big-endian length
)

// ErrFrameTooLarge bounds a single frame's declared length so a corrupt or
// hostile peer cannot force an unbounded allocation.
var ErrFrameTooLarge = errors.New("transport: frame length exceeds limit")

// MaxFrameBytes is the largest single frame this transport will allocate
// for; it exists as a backstop against a malformed or adversarial peer.
// Payload framing does not size frames against it: a byte-wide payload is
// always one frame, so one larger than this limit is rejected on receive.
const MaxFrameBytes = 256 * 1024 * 1024

func writeEnvelope(w io.Writer, payload []byte, more bool) error {
	var head [envelopeHeaderLen]byte
	if more {
		head[0] = flagMore
	}
	binary.BigEndian.PutUint64(head[1:9], uint64(len(payload)))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}

func readEnvelope(r io.Reader) (payload []byte, more bool, err error) {
	var head [envelopeHeaderLen]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, false, err
	}
	length := binary.BigEndian.Uint64(head[1:9])
	if length > MaxFrameBytes {
		return nil, false, fmt.Errorf("%w: %d", ErrFrameTooLarge, length)
	}
	more = head[0]&flagMore != 0
	if length == 0 {
		return nil, more, nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, false, err
	}
	return buf, more, nil
}
