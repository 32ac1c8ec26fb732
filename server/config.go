package server

import (
	"fmt"
	"net"
	"strconv"

	"github.com/lduchosal/asyncsocket/errors"
)

// Protocol identifies the transport a Server listens on. TCP is the only
// supported value (spec §6); the field exists so the data model matches the
// configuration table even though nothing else can be selected today.
type Protocol string

const ProtocolTCP Protocol = "tcp"

const (
	defaultMaxConnections = 1
	defaultBufferSize     = 4096
)

// Config is the immutable configuration record a Server is built from (spec
// §3's ServerConfig). Construct it with NewConfig; the zero value is not
// valid.
type Config struct {
	IPAddress      string
	Port           int
	Protocol       Protocol
	MaxConnections int
	BufferSize     int
}

// ConfigOption overrides one Config field away from its default.
type ConfigOption func(*Config)

// WithMaxConnections sets the admission capacity. Default is 1.
func WithMaxConnections(n int) ConfigOption {
	return func(c *Config) { c.MaxConnections = n }
}

// WithBufferSize sets the per-session receive buffer size in bytes. Default
// is 4096.
func WithBufferSize(n int) ConfigOption {
	return func(c *Config) { c.BufferSize = n }
}

// NewConfig validates and constructs a Config. ipAddress and port are
// required; every other field defaults per spec §6's configuration table and
// can be overridden with options.
func NewConfig(ipAddress string, port int, opts ...ConfigOption) (*Config, error) {
	cfg := &Config{
		IPAddress:      ipAddress,
		Port:           port,
		Protocol:       ProtocolTCP,
		MaxConnections: defaultMaxConnections,
		BufferSize:     defaultBufferSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.IPAddress == "" {
		return nil, errors.ErrConfig{Context: errors.ConfigContext{Field: "ip_address", Reason: "required"}}
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, errors.ErrConfig{Context: errors.ConfigContext{
			Field: "port", Reason: fmt.Sprintf("must be in 0..65535, got %d", cfg.Port),
		}}
	}
	if cfg.Protocol != ProtocolTCP {
		return nil, errors.ErrConfig{Context: errors.ConfigContext{Field: "protocol", Reason: "only tcp is supported"}}
	}
	if cfg.MaxConnections < 1 {
		return nil, errors.ErrConfig{Context: errors.ConfigContext{
			Field: "max_connections", Reason: fmt.Sprintf("must be >= 1, got %d", cfg.MaxConnections),
		}}
	}
	if cfg.BufferSize <= 0 {
		return nil, errors.ErrConfig{Context: errors.ConfigContext{
			Field: "buffer_size", Reason: fmt.Sprintf("must be positive, got %d", cfg.BufferSize),
		}}
	}
	return cfg, nil
}

// Address returns the bind address in host:port form, suitable for
// net.Listen.
func (c *Config) Address() string {
	return net.JoinHostPort(c.IPAddress, strconv.Itoa(c.Port))
}
