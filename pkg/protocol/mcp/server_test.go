package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docforge/docforge/pkg/render"
	"github.com/docforge/docforge/pkg/render/fonts"
	"github.com/docforge/docforge/pkg/render/markup"
	"github.com/docforge/docforge/pkg/render/pdfwrite"
	"github.com/docforge/docforge/pkg/render/templates"
	"github.com/docforge/docforge/pkg/verify"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg := templates.New([]templates.Definition{
		{Name: "lease/fl", Description: "Florida lease", Source: "Lease for {{tenant}}."},
	})
	fontCache := fonts.Build(nil)
	engine := render.NewEngine(reg, fontCache, nil)
	verifier, err := verify.New()
	require.NoError(t, err)

	tools := NewToolSet(engine, fontCache, reg, verifier, 5000)
	return NewServer(tools, reg, nil, "test")
}

func rawID(n int) json.RawMessage {
	b, _ := json.Marshal(n)
	return b
}

func TestHandleInitialize(t *testing.T) {
	s := newTestServer(t)
	resp := s.Handle(context.Background(), Request{JSONRPC: "2.0", ID: rawID(1), Method: "initialize"})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
	result, ok := resp.Result.(initializeResult)
	require.True(t, ok)
	require.Equal(t, protocolVersion, result.ProtocolVersion)
}

func TestHandleInitializedNotificationReturnsNil(t *testing.T) {
	s := newTestServer(t)
	resp := s.Handle(context.Background(), Request{JSONRPC: "2.0", Method: "initialized"})
	require.Nil(t, resp)
}

func TestHandlePing(t *testing.T) {
	s := newTestServer(t)
	resp := s.Handle(context.Background(), Request{JSONRPC: "2.0", ID: rawID(1), Method: "ping"})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
}

func TestHandleUnknownMethod(t *testing.T) {
	s := newTestServer(t)
	resp := s.Handle(context.Background(), Request{JSONRPC: "2.0", ID: rawID(1), Method: "bogus/method"})
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)
	resp := s.Handle(context.Background(), Request{JSONRPC: "2.0", ID: rawID(1), Method: "tools/list"})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
}

func toolCallRequest(t *testing.T, name string, args interface{}) Request {
	t.Helper()
	argBytes, err := json.Marshal(args)
	require.NoError(t, err)
	params, err := json.Marshal(toolCallParams{Name: name, Arguments: argBytes})
	require.NoError(t, err)
	return Request{JSONRPC: "2.0", ID: rawID(1), Method: "tools/call", Params: params}
}

func TestHandleToolsCallRenderDocument(t *testing.T) {
	s := newTestServer(t)
	req := toolCallRequest(t, "render_document", map[string]any{
		"source": "Hello, {{name}}.",
		"inputs": map[string]any{"name": "Avery"},
		"format": "pdf",
	})
	resp := s.Handle(context.Background(), req)
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(ToolCallResult)
	require.True(t, ok)
	require.False(t, result.IsError)
}

func TestHandleToolsCallValidateSyntax(t *testing.T) {
	s := newTestServer(t)
	req := toolCallRequest(t, "validate_syntax", map[string]any{"source": "Hello, {{name}}."})
	resp := s.Handle(context.Background(), req)
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
}

func TestHandleToolsCallListTemplates(t *testing.T) {
	s := newTestServer(t)
	req := toolCallRequest(t, "list_templates", map[string]any{})
	resp := s.Handle(context.Background(), req)
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
}

func TestHandleToolsCallUnknownToolName(t *testing.T) {
	s := newTestServer(t)
	req := toolCallRequest(t, "does_not_exist", map[string]any{})
	resp := s.Handle(context.Background(), req)
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestHandleToolsCallVerifyLease(t *testing.T) {
	s := newTestServer(t)

	doc, _, errs := markup.Interpret("This is a lease agreement between landlord and tenant for the premises.", nil)
	require.Empty(t, errs)
	pdfBytes, err := pdfwrite.Write(doc)
	require.NoError(t, err)

	req := toolCallRequest(t, "verify_lease", map[string]any{
		"pdf_base64": base64.StdEncoding.EncodeToString(pdfBytes),
		"state":      "florida",
	})
	resp := s.Handle(context.Background(), req)
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(ToolCallResult)
	require.True(t, ok)
	require.False(t, result.IsError)
}

func TestHandleResourcesListAndRead(t *testing.T) {
	s := newTestServer(t)
	listResp := s.Handle(context.Background(), Request{JSONRPC: "2.0", ID: rawID(1), Method: "resources/list"})
	require.NotNil(t, listResp)
	require.Nil(t, listResp.Error)

	params, err := json.Marshal(resourcesReadParams{URI: "typst://templates/lease/fl"})
	require.NoError(t, err)
	readResp := s.Handle(context.Background(), Request{JSONRPC: "2.0", ID: rawID(2), Method: "resources/read", Params: params})
	require.NotNil(t, readResp)
	require.Nil(t, readResp.Error)
}

func TestHandlePromptsListIsEmpty(t *testing.T) {
	s := newTestServer(t)
	resp := s.Handle(context.Background(), Request{JSONRPC: "2.0", ID: rawID(1), Method: "prompts/list"})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
}
