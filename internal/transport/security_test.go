package transport

import (
	"context"
	"testing"
	"time"

	"github.com/imgpair/imgpair/internal/testutil/tlstest"
)

func TestConnectBindWithTLS(t *testing.T) {
	dir := t.TempDir()
	ca := tlstest.NewAuthority(t, dir, "imgpair-test-ca")
	certPath, keyPath := ca.IssueServerCert(t, dir, "localhost", []string{"localhost"}, nil)

	cfg := Config{
		ConnectTimeout:   2 * time.Second,
		HandshakeTimeout: 2 * time.Second,
		FrameTimeout:     2 * time.Second,
	}
	serverCfg := cfg
	serverCfg.Security = Security{Enabled: true, CertFile: certPath, KeyFile: keyPath}
	clientCfg := cfg
	clientCfg.Security = Security{Enabled: true, CAFile: ca.CAFile(), ServerName: "localhost"}

	addr := "127.0.0.1:19443"
	ctx := context.Background()

	type bindResult struct {
		h   *Handle
		err error
	}
	done := make(chan bindResult, 1)
	go func() {
		h, err := Bind(ctx, addr, false, serverCfg)
		done <- bindResult{h, err}
	}()

	// Give the listener a moment to come up before dialing.
	time.Sleep(50 * time.Millisecond)

	client, err := Connect(ctx, addr, true, clientCfg)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	res := <-done
	if res.err != nil {
		t.Fatalf("Bind: %v", res.err)
	}
	defer res.h.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.SendFrame([]byte("hello-tls"), false)
	}()

	payload, _, err := res.h.RecvFrame()
	if err != nil {
		t.Fatalf("RecvFrame: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("SendFrame: %v", err)
	}
	if string(payload) != "hello-tls" {
		t.Fatalf("payload = %q, want %q", payload, "hello-tls")
	}
}

func TestConnectBindWithMutualTLS(t *testing.T) {
	dir := t.TempDir()
	ca := tlstest.NewAuthority(t, dir, "imgpair-test-ca")
	serverCert, serverKey := ca.IssueServerCert(t, dir, "localhost", []string{"localhost"}, nil)
	clientCert, clientKey := ca.IssueClientCert(t, dir, "imgpair-client")

	cfg := Config{
		ConnectTimeout:   2 * time.Second,
		HandshakeTimeout: 2 * time.Second,
		FrameTimeout:     2 * time.Second,
	}
	serverCfg := cfg
	serverCfg.Security = Security{
		Enabled: true, Mutual: true,
		CertFile: serverCert, KeyFile: serverKey, CAFile: ca.CAFile(),
	}
	clientCfg := cfg
	clientCfg.Security = Security{
		Enabled: true, Mutual: true,
		CertFile: clientCert, KeyFile: clientKey, CAFile: ca.CAFile(), ServerName: "localhost",
	}

	addr := "127.0.0.1:19444"
	ctx := context.Background()

	type bindResult struct {
		h   *Handle
		err error
	}
	done := make(chan bindResult, 1)
	go func() {
		h, err := Bind(ctx, addr, false, serverCfg)
		done <- bindResult{h, err}
	}()
	time.Sleep(50 * time.Millisecond)

	client, err := Connect(ctx, addr, true, clientCfg)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	res := <-done
	if res.err != nil {
		t.Fatalf("Bind: %v", res.err)
	}
	res.h.Close()
}
