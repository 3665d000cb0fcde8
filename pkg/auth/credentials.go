// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package auth attaches the credentials the upstream creator-data API expects
// on every request.
package auth

import (
	"fmt"
	"net/http"
)

// HeaderAPIKey is the header the upstream reads its API key from.
const HeaderAPIKey = "api-key"

// Credentials holds the upstream API key, loaded once at startup.
type Credentials struct {
	Key string
}

// NewCredentials constructs credentials for the provided key.
func NewCredentials(key string) Credentials {
	return Credentials{Key: key}
}

// Attach mutates the request by injecting the API-key header.
func (c Credentials) Attach(req *http.Request) error {
	if c.Key == "" {
		return fmt.Errorf("api key must be set")
	}
	req.Header.Set(HeaderAPIKey, c.Key)
	return nil
}
