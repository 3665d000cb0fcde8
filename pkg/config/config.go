// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package config loads runtime settings for the creator-data proxy from
// environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/go-core-stack/creator-data-proxy/pkg/apierr"
)

const (
	// TransportStdio serves MCP tool calls over stdin/stdout.
	TransportStdio = "stdio"
	// TransportHTTP serves the REST routes over an HTTP listener.
	TransportHTTP = "http"
)

// Config captures runtime settings for the proxy.
type Config struct {
	// APIKey authenticates every upstream call. Required.
	APIKey string `envconfig:"CREATOR_API_KEY"`
	// BaseURL is the upstream creator-data API root.
	BaseURL string `envconfig:"CREATOR_API_BASE_URL" default:"https://api.creatordata.io/v1"`
	// Transport selects the serving shell: stdio (MCP) or http (REST).
	Transport string `envconfig:"CREATOR_TRANSPORT" default:"stdio"`

	ListenAddr              string        `envconfig:"CREATOR_LISTEN_ADDR" default:"127.0.0.1:8080"`
	RequestTimeout          time.Duration `envconfig:"CREATOR_REQUEST_TIMEOUT" default:"30s"`
	ServerReadTimeout       time.Duration `envconfig:"CREATOR_SERVER_READ_TIMEOUT" default:"30s"`
	ServerWriteTimeout      time.Duration `envconfig:"CREATOR_SERVER_WRITE_TIMEOUT" default:"60s"`
	ServerIdleTimeout       time.Duration `envconfig:"CREATOR_SERVER_IDLE_TIMEOUT" default:"120s"`
	GracefulShutdownTimeout time.Duration `envconfig:"CREATOR_GRACEFUL_SHUTDOWN" default:"10s"`
	LogLevel                string        `envconfig:"CREATOR_LOG_LEVEL" default:"info"`
}

// Load reads configuration from environment variables and validates required
// values. A missing API key is a fatal configuration error: the process must
// refuse to serve rather than issue unauthenticated upstream calls.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, &apierr.Error{Kind: apierr.KindConfiguration, Message: err.Error(), Err: err}
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants that envconfig tags cannot express.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return &apierr.Error{Kind: apierr.KindConfiguration, Message: "CREATOR_API_KEY is required"}
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return &apierr.Error{Kind: apierr.KindConfiguration, Message: fmt.Sprintf("invalid CREATOR_API_BASE_URL: %v", err), Err: err}
	}
	if !parsed.IsAbs() {
		return &apierr.Error{Kind: apierr.KindConfiguration, Message: "CREATOR_API_BASE_URL must be absolute (scheme://host)"}
	}

	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return &apierr.Error{Kind: apierr.KindConfiguration, Message: fmt.Sprintf("CREATOR_TRANSPORT must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport)}
	}

	return nil
}
