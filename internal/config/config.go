// Package config loads the TOML configuration consumed by the cmd/
// entry points: which role to run, where to dial or bind, per-frame
// timeout, multi-image policy, and optional transport TLS.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Role selects which of the four single-image pairings (or their
// multi-image counterparts) a cmd/ binary runs.
type Role string

const (
	RoleSend    Role = "send"    // push-sender: connects, sends one or more images
	RoleReceive Role = "receive" // push-receiver: binds, receives one or more images
	RoleServe   Role = "serve"   // pull-sender: binds, waits for "can get", then sends
	RoleRequest Role = "request" // pull-receiver: connects, sends "can get", then receives
)

// Config is the on-disk shape loaded from TOML by every cmd/ entry
// point in this repository.
type Config struct {
	Role           Role   `toml:"role"`
	Addr           string `toml:"addr"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	MultiImage bool   `toml:"multi_image"`
	EventsMode bool   `toml:"events_mode"`
	ImageName  string `toml:"image_name"`

	AdminAddr   string   `toml:"admin_addr"`
	CORSOrigins []string `toml:"cors_origins"`

	Security SecurityConfig `toml:"security"`
}

// SecurityConfig mirrors transport.Security's fields in TOML form.
type SecurityConfig struct {
	Enabled            bool   `toml:"enabled"`
	Mutual             bool   `toml:"mutual"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
	ServerName         string `toml:"server_name"`
	CertFile           string `toml:"cert_file"`
	KeyFile            string `toml:"key_file"`
	CAFile             string `toml:"ca_file"`
}

// DefaultTimeout matches the protocol spec's default per-frame timeout.
const DefaultTimeout = 60 * time.Second

// Load reads and validates a Config from path.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = int(DefaultTimeout / time.Second)
	}
	if cfg.ImageName == "" {
		cfg.ImageName = "image"
	}
	if cfg.AdminAddr == "" {
		cfg.AdminAddr = ":9400"
	}
}

// Validate checks the structural invariants Load doesn't already enforce
// by way of defaulting.
func Validate(cfg Config) error {
	switch cfg.Role {
	case RoleSend, RoleReceive, RoleServe, RoleRequest:
	default:
		return fmt.Errorf("config: unknown role %q", cfg.Role)
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("config: addr is required")
	}
	if cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: timeout_seconds must be > 0")
	}
	if cfg.Security.Enabled && cfg.Security.Mutual && cfg.Security.CAFile == "" {
		return fmt.Errorf("config: security.ca_file required when security.mutual is set")
	}
	return nil
}

// Timeout converts TimeoutSeconds to a time.Duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
