// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package upstream

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-core-stack/creator-data-proxy/pkg/auth"
	"github.com/go-core-stack/creator-data-proxy/pkg/config"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testConfig() config.Config {
	return config.Config{
		APIKey:         "key-123",
		BaseURL:        "https://upstream.example.com/v1",
		RequestTimeout: time.Second,
	}
}

func TestClientDoSetsHeadersAndURL(t *testing.T) {
	var (
		gotURL    string
		gotMethod string
		gotHeader http.Header
		gotBody   []byte
		calls     int
	)

	c := New(testConfig())
	c.client.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		gotURL = req.URL.String()
		gotMethod = req.Method
		gotHeader = req.Header.Clone()
		if req.Body != nil {
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}
			gotBody = body
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(`{"success":true}`)),
		}, nil
	})

	status, payload, err := c.Do(context.Background(), http.MethodPost, "/instagram/search", []byte(`{"filters":[]}`))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected exactly one outbound call, got %d", calls)
	}
	if status != http.StatusOK {
		t.Errorf("unexpected status %d", status)
	}
	if string(payload) != `{"success":true}` {
		t.Errorf("unexpected payload %s", payload)
	}
	if gotURL != "https://upstream.example.com/v1/instagram/search" {
		t.Errorf("unexpected url %q", gotURL)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("unexpected method %q", gotMethod)
	}
	if got := gotHeader.Get(auth.HeaderAPIKey); got != "key-123" {
		t.Errorf("api-key header mismatch: %q", got)
	}
	if got := gotHeader.Get("Content-Type"); got != "application/json" {
		t.Errorf("content-type mismatch: %q", got)
	}
	if string(gotBody) != `{"filters":[]}` {
		t.Errorf("unexpected body %s", gotBody)
	}
}

func TestClientDoTrimsBaseSlash(t *testing.T) {
	cfg := testConfig()
	cfg.BaseURL = "https://upstream.example.com/v1/"

	var gotURL string
	c := New(cfg)
	c.client.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader("{}")),
		}, nil
	})

	if _, _, err := c.Do(context.Background(), http.MethodGet, "/usage", nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotURL != "https://upstream.example.com/v1/usage" {
		t.Errorf("unexpected url %q", gotURL)
	}
}

func TestClientDoPropagatesCancellation(t *testing.T) {
	c := New(testConfig())
	c.client.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := c.Do(ctx, http.MethodGet, "/usage", nil); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestClientDoNetworkError(t *testing.T) {
	c := New(testConfig())
	c.client.Transport = roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})

	_, _, err := c.Do(context.Background(), http.MethodGet, "/usage", nil)
	if err == nil {
		t.Fatal("expected network error")
	}
}
