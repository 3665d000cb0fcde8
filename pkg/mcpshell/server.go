// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package mcpshell exposes every registered operation as an MCP tool over a
// stdio transport. Failures are returned as success:false payloads rather
// than protocol errors, so agent callers always receive them as data.
package mcpshell

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/go-core-stack/creator-data-proxy/pkg/apierr"
	"github.com/go-core-stack/creator-data-proxy/pkg/ops"
)

// Dispatcher is the translation core the shell delegates every call to.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) (json.RawMessage, error)
}

// Server wraps an MCP server whose tool set is generated from the operation
// registry.
type Server struct {
	dispatcher Dispatcher
	logger     zerolog.Logger
	mcp        *mcp.Server
}

// New builds the MCP server and registers one tool per operation.
func New(dispatcher Dispatcher, logger zerolog.Logger, version string) *Server {
	s := &Server{
		dispatcher: dispatcher,
		logger:     logger,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "creator-data-proxy",
			Version: version,
		}, nil),
	}

	for _, op := range ops.All() {
		s.mcp.AddTool(&mcp.Tool{
			Name:        op.Name,
			Description: op.Description,
			InputSchema: inputSchema(op),
		}, s.handler(op.Name))
	}

	return s
}

// Run serves MCP over stdin/stdout until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// handler adapts one operation to the MCP tool-call contract.
func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		args := map[string]any{}
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return textResult(apierr.FailureBody(apierr.Invalid("arguments must be a JSON object: %v", err))), nil
			}
		}

		payload, err := s.dispatcher.Dispatch(ctx, name, args)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("tool", name).
				Dur("duration", time.Since(start)).
				Msg("tool call failed")
			return textResult(apierr.FailureBody(err)), nil
		}

		s.logger.Info().
			Str("tool", name).
			Dur("duration", time.Since(start)).
			Msg("tool call served")
		return textResult(payload), nil
	}
}

func textResult(payload []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}
}

// inputSchema derives the tool's JSON schema from the registry entry.
func inputSchema(op ops.Operation) *jsonschema.Schema {
	switch op.Body {
	case ops.BodySearch:
		return searchSchema()
	case ops.BodyNaturalLanguage:
		return nlsSchema()
	default:
		return getSchema(op)
	}
}

func getSchema(op ops.Operation) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
	for _, p := range op.Params {
		schema.Properties[p.Name] = paramSchema(p)
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

func paramSchema(p ops.Param) *jsonschema.Schema {
	switch p.Type {
	case ops.TypeNumber:
		return &jsonschema.Schema{Type: "number", Description: p.Description}
	case ops.TypeBoolean:
		return &jsonschema.Schema{Type: "boolean", Description: p.Description}
	case ops.TypeStringArray:
		return &jsonschema.Schema{
			Type:        "array",
			Items:       &jsonschema.Schema{Type: "string"},
			Description: p.Description,
		}
	default:
		return &jsonschema.Schema{Type: "string", Description: p.Description}
	}
}

func searchSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"filters": {
				Type:        "array",
				Description: "Structured filter constraints, at most 10",
				Items: &jsonschema.Schema{
					Type:     "object",
					Required: []string{"filterName", "op", "value"},
					Properties: map[string]*jsonschema.Schema{
						"filterName": {Type: "string", Description: "Upstream-defined field to filter on"},
						"op":         {Type: "string", Enum: []any{"in", "=", "<", ">"}},
						"value":      {Description: "Scalar for =, <, >; array of strings for in"},
						"isFuzzySearch": {
							Type:        "boolean",
							Description: "Fuzzy match for string-valued = filters",
						},
					},
				},
			},
			"pageSize": {Type: "integer", Description: "Results per page, 1-100 (default 20)"},
			"offset":   {Type: "integer", Description: "Result offset (default 0)"},
			"sortBy":   {Type: "string", Description: "Field to sort by"},
			"desc":     {Type: "boolean", Description: "Sort descending (default true)"},
		},
		Required: []string{"filters"},
	}
}

func nlsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"query":    {Type: "string", Description: "Free-text description of the creators to find"},
			"pageSize": {Type: "integer", Description: "Results per page, 1-100 (default 20)"},
			"offset":   {Type: "integer", Description: "Result offset (default 0)"},
		},
		Required: []string{"query"},
	}
}
