package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	logs "github.com/danmuck/smplog"
)

// ErrHandleClosed is returned by any Send/Recv call on a torn-down handle.
var ErrHandleClosed = errors.New("transport: handle closed")

// Config controls dial/bind behavior and the per-frame timeout applied to
// every wait for a subsequent frame once a connection is established.
type Config struct {
	ConnectTimeout   time.Duration
	HandshakeTimeout time.Duration
	FrameTimeout     time.Duration
	Security         Security
}

// DefaultConfig mirrors the conservative defaults used elsewhere in this
// codebase's session transports: short connect/handshake windows, a
// one-minute steady-state frame timeout.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout:   5 * time.Second,
		HandshakeTimeout: 5 * time.Second,
		FrameTimeout:     60 * time.Second,
	}
}

// Handle owns one net.Conn spanning a full session (single-image or
// multi-image). It is not safe for concurrent use: all operations run on
// the goroutine that created it, matching the PAIR socket's single-thread
// ownership contract.
type Handle struct {
	conn       net.Conn
	cfg        Config
	isSender   bool
	remoteAddr string
	boundPort  string
	firstFrame bool
	closed     bool
}

// IsSender reports the handle's declared direction.
func (h *Handle) IsSender() bool { return h.isSender }

// RemoteAddr returns the peer address this handle connected to, meaningful
// only when the handle dialed out (the connect side of a pairing).
func (h *Handle) RemoteAddr() string { return h.remoteAddr }

// BoundPort returns the local port this handle accepted on, meaningful
// only when the handle bound a listener (the bind side of a pairing).
func (h *Handle) BoundPort() string { return h.boundPort }

// WrapConn builds a Handle around an already-established net.Conn, with
// no dial or accept step of its own. It exists for callers that set up
// their own connection (an in-memory net.Pipe in tests, or a connection
// handed off by some other listener) but still want the envelope and
// timeout semantics this package provides.
func WrapConn(conn net.Conn, isSender bool, cfg Config) *Handle {
	return &Handle{conn: conn, cfg: cfg, isSender: isSender, firstFrame: true}
}

// Connect dials addr and returns a handle whose direction is isSender.
// Used by the push-sender (isSender=true) and the pull-receiver
// (isSender=false) pairings.
func Connect(ctx context.Context, addr string, isSender bool, cfg Config) (*Handle, error) {
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %q: %w", addr, err)
	}

	conn := net.Conn(rawConn)
	if cfg.Security.Enabled {
		tlsCfg, err := cfg.Security.clientTLSConfig(addr)
		if err != nil {
			_ = rawConn.Close()
			return nil, err
		}
		tlsConn := tls.Client(rawConn, tlsCfg)
		hsCtx, cancel := context.WithTimeout(ctx, cfg.HandshakeTimeout)
		defer cancel()
		if err := tlsConn.HandshakeContext(hsCtx); err != nil {
			_ = rawConn.Close()
			return nil, fmt.Errorf("transport: tls handshake: %w", err)
		}
		conn = tlsConn
	}

	logs.Infof("transport.Connect addr=%q is_sender=%v", addr, isSender)
	return &Handle{
		conn:       conn,
		cfg:        cfg,
		isSender:   isSender,
		remoteAddr: addr,
		firstFrame: true,
	}, nil
}

// Bind listens on addr, accepts exactly one peer connection, then closes
// the listener — a PAIR socket is exclusive, so there is never a second
// accepted peer on this handle. Used by the push-receiver (isSender=false)
// and the pull-sender (isSender=true) pairings.
func Bind(ctx context.Context, addr string, isSender bool, cfg Config) (*Handle, error) {
	var ln net.Listener
	var err error
	if cfg.Security.Enabled {
		tlsCfg, tlsErr := cfg.Security.serverTLSConfig()
		if tlsErr != nil {
			return nil, tlsErr
		}
		ln, err = tls.Listen("tcp", addr, tlsCfg)
	} else {
		ln, err = net.Listen("tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("transport: listen %q: %w", addr, err)
	}
	defer ln.Close()

	acceptDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-acceptDone:
		}
	}()

	conn, err := ln.Accept()
	close(acceptDone)
	if err != nil {
		return nil, fmt.Errorf("transport: accept on %q: %w", addr, err)
	}

	_, port, _ := net.SplitHostPort(ln.Addr().String())
	logs.Infof("transport.Bind addr=%q peer=%q is_sender=%v", addr, conn.RemoteAddr(), isSender)
	return &Handle{
		conn:       conn,
		cfg:        cfg,
		isSender:   isSender,
		boundPort:  port,
		firstFrame: true,
	}, nil
}

// SendFrame writes one transport frame. more signals that another frame
// belongs to the same logical payload.
func (h *Handle) SendFrame(payload []byte, more bool) error {
	if h.closed {
		return ErrHandleClosed
	}
	if err := h.conn.SetWriteDeadline(time.Now().Add(h.cfg.FrameTimeout)); err != nil {
		return fmt.Errorf("transport: set write deadline: %w", err)
	}
	if err := writeEnvelope(h.conn, payload, more); err != nil {
		return fmt.Errorf("transport: write frame: %w", err)
	}
	return nil
}

// RecvFrame waits for the next transport frame, applying the handshake
// timeout to the very first frame of the connection and the steady-state
// frame timeout to every frame after that.
func (h *Handle) RecvFrame() ([]byte, bool, error) {
	if h.closed {
		return nil, false, ErrHandleClosed
	}
	timeout := h.cfg.FrameTimeout
	if h.firstFrame {
		timeout = h.cfg.HandshakeTimeout
	}
	if err := h.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, false, fmt.Errorf("transport: set read deadline: %w", err)
	}
	payload, more, err := readEnvelope(h.conn)
	if err != nil {
		return nil, false, fmt.Errorf("transport: read frame: %w", err)
	}
	h.firstFrame = false
	return payload, more, nil
}

// Close tears down the handle. Idempotent: a second Close is a no-op.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if h.conn == nil {
		return nil
	}
	return h.conn.Close()
}
