package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

var (
	ErrTLSCertFileRequired = errors.New("transport: tls cert file required")
	ErrTLSKeyFileRequired  = errors.New("transport: tls key file required")
	ErrTLSCAFileRequired   = errors.New("transport: tls ca file required")
)

// Security configures the optional TLS layer beneath the PAIR-socket
// emulation. Disabled by default (plain TCP), matching a development-
// first posture while leaving a hardened mode available to callers.
type Security struct {
	Enabled            bool
	Mutual             bool
	InsecureSkipVerify bool
	ServerName         string
	CertFile           string
	KeyFile            string
	CAFile             string
}

func (s Security) clientTLSConfig(addr string) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: s.InsecureSkipVerify,
	}

	serverName := strings.TrimSpace(s.ServerName)
	if serverName == "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		serverName = host
	}
	cfg.ServerName = serverName

	if caPath := strings.TrimSpace(s.CAFile); caPath != "" {
		pem, err := os.ReadFile(caPath)
		if err != nil {
			return nil, fmt.Errorf("transport: read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("transport: parse ca bundle: %s", caPath)
		}
		cfg.RootCAs = pool
	}

	if s.Mutual {
		cert, err := s.keyPair()
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

func (s Security) serverTLSConfig() (*tls.Config, error) {
	if strings.TrimSpace(s.CertFile) == "" {
		return nil, ErrTLSCertFileRequired
	}
	if strings.TrimSpace(s.KeyFile) == "" {
		return nil, ErrTLSKeyFileRequired
	}
	cert, err := s.keyPair()
	if err != nil {
		return nil, err
	}
	cfg := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
	}
	if s.Mutual {
		if strings.TrimSpace(s.CAFile) == "" {
			return nil, ErrTLSCAFileRequired
		}
		pem, err := os.ReadFile(s.CAFile)
		if err != nil {
			return nil, fmt.Errorf("transport: read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("transport: parse ca bundle: %s", s.CAFile)
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return cfg, nil
}

func (s Security) keyPair() (tls.Certificate, error) {
	if strings.TrimSpace(s.CertFile) == "" {
		return tls.Certificate{}, ErrTLSCertFileRequired
	}
	if strings.TrimSpace(s.KeyFile) == "" {
		return tls.Certificate{}, ErrTLSKeyFileRequired
	}
	return tls.LoadX509KeyPair(s.CertFile, s.KeyFile)
}
