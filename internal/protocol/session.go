package protocol

import (
	"errors"
	"fmt"
	"net"

	"github.com/imgpair/imgpair/internal/image"
	"github.com/imgpair/imgpair/internal/observability"
	"github.com/imgpair/imgpair/internal/transport"
	logs "github.com/danmuck/smplog"
)

// SendImage runs the sender's half of the four-phase single-image
// session over an already-established handle: header handshake, ready
// gate, metadata, payload, completion. It is shared by the push-sender
// pairing (after Connect) and the pull-sender pairing (after a prior
// "can get" wake-up on a bound handle).
func SendImage(h *transport.Handle, d image.Descriptor, buf []byte, metadata []string) error {
	state := Opened
	fail := func(err error) error {
		logs.Debugf("protocol.SendImage state=%s -> %s", state, Failed)
		return err
	}

	if err := d.Validate(); err != nil {
		return fail(&ConfigurationError{Reason: err.Error()})
	}
	if err := d.ValidateBuffer(buf); err != nil {
		return fail(&ConfigurationError{Reason: err.Error()})
	}

	logs.Debugf("protocol.SendImage state=%s dim=%d voxels=%d", state, d.Dim, d.VoxelCount())
	header := EncodeHeader(d)
	if err := transportErr(h.SendFrame(header, false)); err != nil {
		return fail(err)
	}
	observability.RecordFrame("sender", "sent", len(header))
	state = HeaderExchanged

	if err := recvExpectedText(h, readyToken, "ready", "sender"); err != nil {
		return fail(err)
	}

	logs.Debugf("protocol.SendImage state=%s entries=%d", state, len(metadata))
	meta := EncodeMetadata(metadata)
	if err := transportErr(h.SendFrame(meta, true)); err != nil {
		return fail(err)
	}
	observability.RecordFrame("sender", "sent", len(meta))
	state = MetadataExchanged

	logs.Debugf("protocol.SendImage state=%s bytes=%d", state, d.ByteCount())
	state = PayloadInFlight
	if err := SendPayload(h, d, buf, false); err != nil {
		return fail(err)
	}
	observability.RecordFrame("sender", "sent", d.ByteCount())

	if err := recvExpectedText(h, doneToken, "done", "sender"); err != nil {
		return fail(err)
	}
	state = Acknowledged
	logs.Infof("protocol.SendImage state=%s dim=%d bytes=%d", state, d.Dim, d.ByteCount())
	return nil
}

// ReceiveImage runs the receiver's half of the four-phase single-image
// session over an already-established handle. It is shared by the
// push-receiver pairing (after Bind) and the pull-receiver pairing
// (after sending "can get" on a connected handle).
func ReceiveImage(h *transport.Handle) (image.Descriptor, []string, []byte, error) {
	headerRaw, _, err := h.RecvFrame()
	if err != nil {
		return image.Descriptor{}, nil, nil, classifyRecvErr(err, "header")
	}
	return receiveImageAfterHeader(h, headerRaw)
}

// receiveImageAfterHeader runs the receiver's phases 2-5 given a header
// frame already read off the wire. It is split out of ReceiveImage so
// that the multi-image wrapper can consume leading v0 sentinel frames
// before the real header frame arrives, without duplicating the rest of
// the single-image protocol.
func receiveImageAfterHeader(h *transport.Handle, headerRaw []byte) (image.Descriptor, []string, []byte, error) {
	state := Opened
	observability.RecordFrame("receiver", "received", len(headerRaw))
	d, err := DecodeHeader(headerRaw)
	if err != nil {
		logs.Debugf("protocol.ReceiveImage state=%s -> %s", state, Failed)
		return image.Descriptor{}, nil, nil, err
	}
	state = HeaderExchanged
	logs.Debugf("protocol.ReceiveImage state=%s dim=%d voxels=%d", state, d.Dim, d.VoxelCount())

	if err := transportErr(h.SendFrame([]byte(readyToken), false)); err != nil {
		logs.Debugf("protocol.ReceiveImage state=%s -> %s", state, Failed)
		return image.Descriptor{}, nil, nil, err
	}
	observability.RecordFrame("receiver", "sent", len(readyToken))

	metaRaw, _, err := h.RecvFrame()
	if err != nil {
		logs.Debugf("protocol.ReceiveImage state=%s -> %s", state, Failed)
		return image.Descriptor{}, nil, nil, classifyRecvErr(err, "metadata")
	}
	observability.RecordFrame("receiver", "received", len(metaRaw))
	metadata, err := DecodeMetadata(metaRaw)
	if err != nil {
		logs.Debugf("protocol.ReceiveImage state=%s -> %s", state, Failed)
		return image.Descriptor{}, nil, nil, err
	}
	state = MetadataExchanged
	logs.Debugf("protocol.ReceiveImage state=%s entries=%d", state, len(metadata))

	state = PayloadInFlight
	buf, err := RecvPayload(h, d)
	if err != nil {
		logs.Debugf("protocol.ReceiveImage state=%s -> %s", state, Failed)
		return image.Descriptor{}, nil, nil, err
	}
	observability.RecordFrame("receiver", "received", d.ByteCount())

	if err := transportErr(h.SendFrame([]byte(doneToken), false)); err != nil {
		logs.Debugf("protocol.ReceiveImage state=%s -> %s", state, Failed)
		return image.Descriptor{}, nil, nil, err
	}
	observability.RecordFrame("receiver", "sent", len(doneToken))
	state = Acknowledged
	logs.Infof("protocol.ReceiveImage state=%s dim=%d bytes=%d", state, d.Dim, d.ByteCount())
	return d, metadata, buf, nil
}

// ServeRequestedImage implements the pull pairing's server side: it waits
// for the receiver's "can get" wake-up frame before running the ordinary
// sender phases.
func ServeRequestedImage(h *transport.Handle, d image.Descriptor, buf []byte, metadata []string) error {
	if err := recvExpectedText(h, canGetToken, "can get", "sender"); err != nil {
		return err
	}
	return SendImage(h, d, buf, metadata)
}

// RequestImage implements the pull pairing's client side: it sends the
// "can get" wake-up frame, then runs the ordinary receiver phases.
func RequestImage(h *transport.Handle) (image.Descriptor, []string, []byte, error) {
	if err := transportErr(h.SendFrame([]byte(canGetToken), false)); err != nil {
		return image.Descriptor{}, nil, nil, err
	}
	observability.RecordFrame("receiver", "sent", len(canGetToken))
	return ReceiveImage(h)
}

// recvExpectedText waits for a fixed-token frame (ready/done/can-get) and
// records it under role for frame-level observability.
func recvExpectedText(h *transport.Handle, expected, phase, role string) error {
	raw, _, err := h.RecvFrame()
	if err != nil {
		return classifyRecvErr(err, phase)
	}
	observability.RecordFrame(role, "received", len(raw))
	if string(raw) != expected {
		return violation(fmt.Sprintf("expected %q frame in phase %q, got %q", expected, phase, string(raw)), nil)
	}
	return nil
}

// classifyRecvErr distinguishes a deadline-exceeded receive (Timeout)
// from any other transport failure. The pull pairing's "can get" wait is
// special-cased to a ProtocolViolationError rather than a TimeoutError:
// the server side has no session to time out of yet, only an
// unfulfilled expectation that the peer open with the wake-up frame, so
// its absence is a protocol-level failure rather than an in-session
// stall.
func classifyRecvErr(err error, phase string) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		if phase == "can get" {
			return violation(fmt.Sprintf("timed out waiting for %q frame", canGetToken), err)
		}
		return &TimeoutError{Phase: phase, Cause: err}
	}
	return transportErr(err)
}
