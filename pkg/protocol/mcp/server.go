package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/docforge/docforge/pkg/render/templates"
)

const protocolVersion = "2024-11-05"

// ServerInfo identifies this server in the initialize response.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities advertises which protocol surfaces this server implements.
type Capabilities struct {
	Tools     map[string]any `json:"tools"`
	Resources map[string]any `json:"resources"`
	Prompts   map[string]any `json:"prompts"`
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// Server dispatches JSON-RPC 2.0 requests from either transport through one
// method table, so route definitions live in exactly one place.
type Server struct {
	catalog   Catalog
	tools     *ToolSet
	templates *templates.Registry
	log       *zap.Logger
	version   string
}

func NewServer(tools *ToolSet, reg *templates.Registry, log *zap.Logger, version string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		catalog:   defaultCatalog(),
		tools:     tools,
		templates: reg,
		log:       log,
		version:   version,
	}
}

// Handle dispatches one JSON-RPC request and returns the response to write,
// or nil for a notification (no ID). The stdio transport writes no frame for
// a nil response; the HTTP transport answers it with an empty result.
func (s *Server) Handle(ctx context.Context, req Request) *Response {
	if isNotification(req.ID) {
		return nil
	}

	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: Capabilities{
				Tools:     map[string]any{"listChanged": false},
				Resources: map[string]any{"listChanged": false},
				Prompts:   map[string]any{"listChanged": false},
			},
			ServerInfo: ServerInfo{Name: "docforge", Version: s.version},
		})
	case "initialized":
		return nil
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	case "tools/list":
		return s.handleToolsList(ctx, req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return s.handleResourcesList(req)
	case "resources/read":
		return s.handleResourcesRead(req)
	case "prompts/list":
		return resultResponse(req.ID, map[string]any{"prompts": []any{}})
	case "prompts/get":
		return errorResponse(req.ID, CodeInvalidParams, "no prompts are registered")
	default:
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("unknown method %q", req.Method))
	}
}

func (s *Server) handleToolsList(ctx context.Context, req Request) *Response {
	tools, err := s.catalog.Search(ctx, "")
	if err != nil {
		return errorResponse(req.ID, CodeInternalError, err.Error())
	}
	return resultResponse(req.ID, map[string]any{"tools": tools})
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) handleToolsCall(ctx context.Context, req Request) *Response {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "malformed tools/call params")
	}

	handler, ok := s.tools.Handlers()[params.Name]
	if !ok {
		return errorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("unknown tool %q", params.Name))
	}

	result, err := s.auditedCall(ctx, params.Name, handler, params.Arguments)
	if err != nil {
		return errorResponse(req.ID, CodeInternalError, err.Error())
	}
	return resultResponse(req.ID, result)
}

// auditedCall wraps a tool handler with pre/post logging: an info line on
// entry, an error line when the handler fails, and a warn line when it
// returns an error result (such as arguments that fail to decode).
func (s *Server) auditedCall(ctx context.Context, name string, handler ToolHandler, args json.RawMessage) (ToolCallResult, error) {
	s.log.Info("mcp tool call", zap.String("tool", name))
	result, err := handler(ctx, args)
	if err != nil {
		s.log.Error("mcp tool call failed", zap.String("tool", name), zap.Error(err))
		return result, err
	}
	if result.IsError {
		s.log.Warn("mcp tool call returned an error result", zap.String("tool", name))
	}
	return result, nil
}

func (s *Server) handleResourcesList(req Request) *Response {
	metas := s.templates.List()
	resources := make([]map[string]any, 0, len(metas))
	for _, m := range metas {
		resources = append(resources, map[string]any{
			"uri":         m.URI,
			"name":        m.Name,
			"description": m.Description,
		})
	}
	return resultResponse(req.ID, map[string]any{"resources": resources})
}

type resourcesReadParams struct {
	URI string `json:"uri"`
}

func (s *Server) handleResourcesRead(req Request) *Response {
	var params resourcesReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "malformed resources/read params")
	}

	for _, m := range s.templates.List() {
		if m.URI != params.URI {
			continue
		}
		source, err := s.templates.GetSource(m.Name)
		if err != nil {
			return errorResponse(req.ID, CodeInternalError, err.Error())
		}
		return resultResponse(req.ID, map[string]any{
			"contents": []map[string]any{
				{"uri": m.URI, "mimeType": "text/plain", "text": source},
			},
		})
	}
	return errorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("unknown resource %q", params.URI))
}
