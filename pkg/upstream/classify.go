// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package upstream

import (
	"encoding/json"
	"fmt"

	"github.com/go-core-stack/creator-data-proxy/pkg/apierr"
)

// envelope is the subset of the upstream response the classifier inspects.
// Success uses a pointer so "explicitly false" and "absent" stay distinct.
type envelope struct {
	Success          *bool  `json:"success"`
	ErrorDescription string `json:"errorDescription"`
	Message          string `json:"message"`
}

// Classify decides success vs. failure for one upstream response. The rule is
// ordered:
//
//  1. an undecodable body is a transport failure, regardless of status;
//  2. a status outside 200-299, or a body with success explicitly false, is an
//     upstream failure whose message degrades through errorDescription, then
//     message, then a generic "API Error: <status>";
//  3. otherwise the raw body is returned untouched, so the payload reaches the
//     caller byte-for-byte.
func Classify(status int, body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apierr.Transport(fmt.Errorf("decode upstream response: %w", err))
	}

	flaggedFailure := env.Success != nil && !*env.Success
	if status < 200 || status > 299 || flaggedFailure {
		msg := env.ErrorDescription
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("API Error: %d", status)
		}
		return nil, apierr.Upstream(status, msg)
	}

	return json.RawMessage(body), nil
}
