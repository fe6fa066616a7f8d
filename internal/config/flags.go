package config

import (
	"flag"
)

// parses CLI flags for the server binary
func ParseServerFlags(args []string) (Flags, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	port := fs.String("port", "", "HTTP listen port (overrides PORT)")
	rate := fs.String("handshake-rate", "", "per-IP websocket handshake rate, e.g. 30-M (overrides HANDSHAKE_RATE_LIMIT)")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	return Flags{Port: *port, HandshakeRateLimit: *rate}, nil
}

// applies non-empty flag values over the environment configuration
func (f Flags) Apply(cfg *Config) {
	if f.Port != "" {
		cfg.Port = f.Port
	}

	if f.HandshakeRateLimit != "" {
		cfg.HandshakeRateLimit = f.HandshakeRateLimit
	}
}
