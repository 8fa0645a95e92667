// Package roles wires the four single-image (and multi-image) role
// pairings onto a transport.Handle, for use by the cmd/ entry points. It
// owns no wire-format knowledge of its own — that lives in
// internal/protocol — only connection setup, payload I/O against the
// filesystem, and admin-surface/metrics glue.
package roles

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/imgpair/imgpair/internal/adminapi"
	"github.com/imgpair/imgpair/internal/config"
	"github.com/imgpair/imgpair/internal/image"
	"github.com/imgpair/imgpair/internal/observability"
	"github.com/imgpair/imgpair/internal/protocol"
	"github.com/imgpair/imgpair/internal/transport"
	"github.com/imgpair/imgpair/internal/voxel"
	logs "github.com/danmuck/smplog"
)

// ImageSpec describes the image a send/serve role reads from disk, in the
// shape the header handshake needs. The on-disk image format and the
// per-voxel-type dispatch table are both external collaborators this
// package does not implement; every path in PayloadPaths is expected to
// already be a raw, host-order-irrelevant byte dump of exactly
// Descriptor.ByteCount() bytes, sharing this one Dim/Sizes/VoxelType/
// Backend shape. In single-image mode only PayloadPaths[0] is used; in
// multi-image mode (cfg.MultiImage) sendLoop streams every path in order
// over the one connection, marking the last as the final image.
type ImageSpec struct {
	Dim          int
	Sizes        []int
	VoxelType    voxel.Type
	Backend      image.Backend
	PayloadPaths []string
	Name         string
	Extras       []string
}

func (s ImageSpec) descriptor() (image.Descriptor, error) {
	return image.NewDescriptor(s.Dim, s.Sizes, s.VoxelType, s.Backend)
}

func transportConfig(cfg config.Config) transport.Config {
	tcfg := transport.DefaultConfig()
	tcfg.FrameTimeout = cfg.Timeout()
	tcfg.Security = transport.Security{
		Enabled:            cfg.Security.Enabled,
		Mutual:             cfg.Security.Mutual,
		InsecureSkipVerify: cfg.Security.InsecureSkipVerify,
		ServerName:         cfg.Security.ServerName,
		CertFile:           cfg.Security.CertFile,
		KeyFile:            cfg.Security.KeyFile,
		CAFile:             cfg.Security.CAFile,
	}
	return tcfg
}

// startAdmin launches the admin/status HTTP surface in the background
// and returns its History, to which the caller records session outcomes.
func startAdmin(node, addr string, corsOrigins []string) *adminapi.History {
	srv := adminapi.NewWithOrigins(node, 100, corsOrigins)
	go func() {
		if err := srv.Run(addr); err != nil {
			logs.Warnf("roles: admin surface on %s stopped: %v", addr, err)
		}
	}()
	return srv.History()
}

func recordOutcome(hist *adminapi.History, role string, d image.Descriptor, started time.Time, err error) {
	outcome := protocol.ClassifyOutcome(err)
	observability.RecordSessionOutcome(role, string(outcome), time.Since(started))
	rec := adminapi.SessionRecord{
		StartedAt: started,
		EndedAt:   time.Now(),
		Outcome:   string(outcome),
		Role:      role,
		Bytes:     d.ByteCount(),
		Duration:  time.Since(started),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	hist.Record(rec)
}

// RunSend implements the push-sender pairing: connect, then run the
// single-image (or multi-image) session as the sender.
func RunSend(ctx context.Context, cfg config.Config, spec ImageSpec) error {
	hist := startAdmin("send", cfg.AdminAddr, cfg.CORSOrigins)
	h, err := transport.Connect(ctx, cfg.Addr, true, transportConfig(cfg))
	if err != nil {
		return fmt.Errorf("roles: connect: %w", err)
	}
	defer h.Close()
	return sendLoop(h, cfg, spec, hist)
}

// RunReceive implements the push-receiver pairing: bind, accept one
// peer, then run the single-image (or multi-image) session as receiver.
func RunReceive(ctx context.Context, cfg config.Config, outPath string) error {
	hist := startAdmin("receive", cfg.AdminAddr, cfg.CORSOrigins)
	h, err := transport.Bind(ctx, cfg.Addr, false, transportConfig(cfg))
	if err != nil {
		return fmt.Errorf("roles: bind: %w", err)
	}
	defer h.Close()
	return receiveLoop(h, cfg, outPath, hist)
}

// RunServe implements the pull-sender pairing: bind, accept one peer,
// wait for "can get", then run the sender phases.
func RunServe(ctx context.Context, cfg config.Config, spec ImageSpec) error {
	hist := startAdmin("serve", cfg.AdminAddr, cfg.CORSOrigins)
	h, err := transport.Bind(ctx, cfg.Addr, true, transportConfig(cfg))
	if err != nil {
		return fmt.Errorf("roles: bind: %w", err)
	}
	defer h.Close()

	started := time.Now()
	d, err := spec.descriptor()
	if err != nil {
		return fmt.Errorf("roles: descriptor: %w", err)
	}
	buf, err := readPayload(spec.PayloadPaths[0], d)
	if err != nil {
		return err
	}
	err = protocol.ServeRequestedImage(h, d, buf, protocol.NewMetadataList(spec.Name, spec.Extras...))
	recordOutcome(hist, "serve", d, started, err)
	return err
}

// RunRequest implements the pull-receiver pairing: connect, send "can
// get", then run the receiver phases.
func RunRequest(ctx context.Context, cfg config.Config, outPath string) error {
	hist := startAdmin("request", cfg.AdminAddr, cfg.CORSOrigins)
	h, err := transport.Connect(ctx, cfg.Addr, false, transportConfig(cfg))
	if err != nil {
		return fmt.Errorf("roles: connect: %w", err)
	}
	defer h.Close()

	started := time.Now()
	d, metadata, buf, err := protocol.RequestImage(h)
	recordOutcome(hist, "request", d, started, err)
	if err != nil {
		return err
	}
	return writeResult(outPath, d, metadata, buf)
}

func sendLoop(h *transport.Handle, cfg config.Config, spec ImageSpec, hist *adminapi.History) error {
	d, err := spec.descriptor()
	if err != nil {
		return fmt.Errorf("roles: descriptor: %w", err)
	}
	metadata := protocol.NewMetadataList(spec.Name, spec.Extras...)

	if !cfg.MultiImage {
		buf, err := readPayload(spec.PayloadPaths[0], d)
		if err != nil {
			return err
		}
		started := time.Now()
		err = protocol.SendImage(h, d, buf, metadata)
		recordOutcome(hist, "sender", d, started, err)
		return err
	}

	mode := protocol.FixedSequenceMode
	if cfg.EventsMode {
		mode = protocol.EventsMode
	}
	sender := protocol.NewMultiImageSender(h, mode)
	started := time.Now()
	for i, path := range spec.PayloadPaths {
		buf, err := readPayload(path, d)
		if err != nil {
			recordOutcome(hist, "sender", d, started, err)
			return err
		}
		last := i == len(spec.PayloadPaths)-1
		if err := sender.SendImage(d, buf, metadata, last); err != nil {
			recordOutcome(hist, "sender", d, started, err)
			return err
		}
	}
	recordOutcome(hist, "sender", d, started, nil)
	return nil
}

func receiveLoop(h *transport.Handle, cfg config.Config, outPath string, hist *adminapi.History) error {
	if !cfg.MultiImage {
		started := time.Now()
		d, metadata, buf, err := protocol.ReceiveImage(h)
		recordOutcome(hist, "receiver", d, started, err)
		if err != nil {
			return err
		}
		return writeResult(outPath, d, metadata, buf)
	}

	receiver := protocol.NewMultiImageReceiver(h)
	seq := 0
	for {
		started := time.Now()
		d, metadata, buf, done, err := receiver.Next()
		if err != nil {
			recordOutcome(hist, "receiver", d, started, err)
			return err
		}
		if done {
			return nil
		}
		recordOutcome(hist, "receiver", d, started, nil)
		if err := writeResult(fmt.Sprintf("%s.%d", outPath, seq), d, metadata, buf); err != nil {
			return err
		}
		seq++
	}
}

func readPayload(path string, d image.Descriptor) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roles: read payload %q: %w", path, err)
	}
	if err := d.ValidateBuffer(buf); err != nil {
		return nil, fmt.Errorf("roles: payload %q: %w", path, err)
	}
	return buf, nil
}

func writeResult(outPath string, d image.Descriptor, metadata []string, buf []byte) error {
	if err := os.WriteFile(outPath, buf, 0o644); err != nil {
		return fmt.Errorf("roles: write payload %q: %w", outPath, err)
	}
	logs.Infof("roles: received image dim=%d sizes=%v voxelType=%s backend=%s metadata=%v -> %s",
		d.Dim, d.Sizes, d.VoxelType, d.Backend, metadata, outPath)
	return nil
}
