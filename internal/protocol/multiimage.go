package protocol

import (
	"fmt"
	"strings"

	"github.com/imgpair/imgpair/internal/image"
	"github.com/imgpair/imgpair/internal/observability"
	"github.com/imgpair/imgpair/internal/transport"
	logs "github.com/danmuck/smplog"
)

// MultiImageMode selects which of the two v0-sentinel policies a
// persistent sender follows between images. Both modes are strictly
// sequential: there is never more than one image in flight on a handle.
type MultiImageMode int

const (
	// EventsMode emits the "expect" sentinel once before the first image,
	// then after every image emits either "don't hangup!" (more images
	// follow) or "hangup" (end of stream).
	EventsMode MultiImageMode = iota
	// FixedSequenceMode emits no preamble on connect; every image is
	// preceded by its own "expect" sentinel, and "hangup" is emitted only
	// once, after the image the caller marks as last.
	FixedSequenceMode
)

func (m MultiImageMode) String() string {
	switch m {
	case EventsMode:
		return "events"
	case FixedSequenceMode:
		return "fixed-sequence"
	default:
		return fmt.Sprintf("MultiImageMode(%d)", int(m))
	}
}

const (
	sentinelExpect   = "v0 expect 99999999"
	sentinelContinue = "v0 don't hangup!"
	sentinelHangup   = "v0 hangup"
)

func isSentinelFrame(raw []byte) bool {
	return strings.HasPrefix(string(raw), "v0 ")
}

// parseSentinel validates raw against the three known v0 sentinel
// literals and reports whether it is the end-of-stream marker.
func parseSentinel(raw []byte) (hangup bool, err error) {
	switch string(raw) {
	case sentinelHangup:
		return true, nil
	case sentinelExpect, sentinelContinue:
		return false, nil
	default:
		return false, violation(fmt.Sprintf("unrecognized v0 sentinel frame %q", string(raw)), nil)
	}
}

// MultiImageSender wraps an already-open handle to stream a sequence of
// images, keeping the connection open across images and emitting the v0
// sentinel headers between them per the configured mode.
type MultiImageSender struct {
	h       *transport.Handle
	mode    MultiImageMode
	started bool
	closed  bool
}

// NewMultiImageSender builds a sender for the given mode. The handle must
// already be connected or bound; the caller is responsible for Close.
func NewMultiImageSender(h *transport.Handle, mode MultiImageMode) *MultiImageSender {
	return &MultiImageSender{h: h, mode: mode}
}

// SendImage transmits one image in the stream. last marks the final
// image of the stream: in EventsMode it chooses between the "don't
// hangup!" and "hangup" trailing sentinels; in FixedSequenceMode it
// chooses whether a "hangup" sentinel is sent at all after this image.
//
// Calling SendImage again after a call with last=true is a caller error:
// the stream's sentinel contract has already promised end-of-stream.
func (m *MultiImageSender) SendImage(d image.Descriptor, buf []byte, metadata []string, last bool) error {
	if m.closed {
		return &ConfigurationError{Reason: "multi-image sender: stream already closed by a prior hangup"}
	}

	switch m.mode {
	case EventsMode:
		if !m.started {
			if err := m.sendSentinel(sentinelExpect); err != nil {
				return err
			}
			m.started = true
		}
		if err := SendImage(m.h, d, buf, metadata); err != nil {
			return err
		}
		if last {
			m.closed = true
			return m.sendSentinel(sentinelHangup)
		}
		return m.sendSentinel(sentinelContinue)

	case FixedSequenceMode:
		if err := m.sendSentinel(sentinelExpect); err != nil {
			return err
		}
		if err := SendImage(m.h, d, buf, metadata); err != nil {
			return err
		}
		if last {
			m.closed = true
			return m.sendSentinel(sentinelHangup)
		}
		return nil

	default:
		return &ConfigurationError{Reason: fmt.Sprintf("unknown multi-image mode %v", m.mode)}
	}
}

func (m *MultiImageSender) sendSentinel(tok string) error {
	logs.Debugf("protocol.MultiImageSender sentinel=%q mode=%v", tok, m.mode)
	if err := transportErr(m.h.SendFrame([]byte(tok), false)); err != nil {
		return err
	}
	observability.RecordFrame("sender", "sent", len(tok))
	return nil
}

// MultiImageReceiver wraps an already-open handle to consume a sequence
// of images, treating a "v0 hangup" sentinel as end-of-stream and any
// other "v0 ..." sentinel as a promise that another image follows.
type MultiImageReceiver struct {
	h *transport.Handle
}

// NewMultiImageReceiver builds a receiver over an already-connected or
// bound handle.
func NewMultiImageReceiver(h *transport.Handle) *MultiImageReceiver {
	return &MultiImageReceiver{h: h}
}

// Next receives the next image in the stream. When done is true, no
// image was delivered: the stream has ended on a "v0 hangup" sentinel,
// and the caller must not call Next again.
func (m *MultiImageReceiver) Next() (d image.Descriptor, metadata []string, buf []byte, done bool, err error) {
	for {
		raw, _, rerr := m.h.RecvFrame()
		if rerr != nil {
			return image.Descriptor{}, nil, nil, false, classifyRecvErr(rerr, "multi-image sentinel")
		}
		if !isSentinelFrame(raw) {
			d, metadata, buf, err = receiveImageAfterHeader(m.h, raw)
			return d, metadata, buf, false, err
		}
		observability.RecordFrame("receiver", "received", len(raw))
		hangup, verr := parseSentinel(raw)
		if verr != nil {
			return image.Descriptor{}, nil, nil, false, verr
		}
		logs.Debugf("protocol.MultiImageReceiver sentinel=%q hangup=%v", string(raw), hangup)
		if hangup {
			return image.Descriptor{}, nil, nil, true, nil
		}
		// "expect" or "don't hangup!": loop around for the real header.
	}
}
