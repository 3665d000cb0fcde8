// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/go-core-stack/creator-data-proxy/pkg/apierr"
	"github.com/go-core-stack/creator-data-proxy/pkg/upstream"
)

// Executor issues one HTTP call against the upstream API.
type Executor interface {
	Do(ctx context.Context, method, path string, body []byte) (status int, payload []byte, err error)
}

// Dispatcher translates logical operation calls into upstream requests. It is
// stateless beyond the injected executor and safe for concurrent use.
type Dispatcher struct {
	exec Executor
}

// NewDispatcher constructs a Dispatcher around the provided executor.
func NewDispatcher(exec Executor) *Dispatcher {
	return &Dispatcher{exec: exec}
}

// Dispatch looks up the named operation, validates and encodes the arguments,
// performs exactly one upstream call, and classifies the response. Caller
// errors (unknown name, missing or malformed arguments) return before any
// network traffic. On success the returned payload is the upstream body,
// untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	op, ok := Lookup(name)
	if !ok {
		return nil, apierr.UnknownOperation(name)
	}

	for _, p := range op.Params {
		if !p.Required {
			continue
		}
		if _, present := args[p.Name]; !present {
			return nil, apierr.MissingParameter(op.Name, p.Name)
		}
	}

	var (
		body []byte
		path string
		err  error
	)
	switch op.Body {
	case BodySearch:
		path = op.Path
		body, err = encodeSearchBody(op.Name, args)
	case BodyNaturalLanguage:
		path = op.Path
		body, err = encodeNLSBody(op.Name, args)
	default:
		path, err = buildPath(op, args)
	}
	if err != nil {
		return nil, err
	}

	status, payload, err := d.exec.Do(ctx, op.Method, path, body)
	if err != nil {
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, apierr.Transport(err)
	}

	return upstream.Classify(status, payload)
}

// buildPath substitutes path placeholders and appends the query string built
// from the operation's declared query parameters, in declaration order.
// Creator identifiers go through SanitizeID; every other value is
// percent-encoded as-is.
func buildPath(op Operation, args map[string]any) (string, error) {
	path := op.Path
	var pairs []queryPair

	for _, p := range op.Params {
		raw, present := args[p.Name]
		if !present {
			continue
		}

		value, err := formatScalar(op.Name, p.Name, raw)
		if err != nil {
			return "", err
		}

		switch p.Kind {
		case KindPath:
			path = strings.ReplaceAll(path, "{"+p.Name+"}", url.PathEscape(value))
		default:
			if p.Identifier {
				value = SanitizeID(value)
			} else {
				value = url.QueryEscape(value)
			}
			pairs = append(pairs, queryPair{key: p.Name, value: value})
		}
	}

	if query := encodeQuery(pairs); query != "" {
		path += "?" + query
	}
	return path, nil
}
