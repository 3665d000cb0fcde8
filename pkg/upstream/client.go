// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package upstream issues authenticated HTTP calls against the creator-data
// API and classifies the responses into the proxy's normalized envelope.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-core-stack/creator-data-proxy/pkg/auth"
	"github.com/go-core-stack/creator-data-proxy/pkg/config"
)

// Client performs outbound HTTP requests against the upstream base URL with
// the API-key header attached. It holds no mutable state after construction
// and is safe for concurrent use.
type Client struct {
	baseURL string
	creds   auth.Credentials
	client  *http.Client
}

// New constructs a Client backed by an http.Client with tuned connection
// pooling and the provided runtime configuration.
func New(cfg config.Config) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		creds:   auth.NewCredentials(cfg.APIKey),
		client: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
	}
}

// Do issues exactly one request against the upstream: no retries, no redirect
// tampering. path must start with "/" and may already carry a query string.
// body is sent verbatim and should be nil for GET. The caller's context
// governs cancellation; an abandoned caller abandons the in-flight call.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build upstream request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if err := c.creds.Attach(req); err != nil {
		return 0, nil, fmt.Errorf("attach credentials: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("perform upstream request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read upstream response: %w", err)
	}

	return resp.StatusCode, payload, nil
}
