package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/docforge/docforge/pkg/render"
	"github.com/docforge/docforge/pkg/render/fonts"
	"github.com/docforge/docforge/pkg/render/markup"
	"github.com/docforge/docforge/pkg/render/templates"
	"github.com/docforge/docforge/pkg/verify"
)

// ToolContent is one element of a tools/call result's content array.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolCallResult is the wire shape tools/call returns.
type ToolCallResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError"`
}

func textResult(v interface{}) (ToolCallResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return ToolCallResult{}, err
	}
	return ToolCallResult{Content: []ToolContent{{Type: "text", Text: string(b)}}}, nil
}

func errorResult(err error) ToolCallResult {
	return ToolCallResult{Content: []ToolContent{{Type: "text", Text: err.Error()}}, IsError: true}
}

// ToolHandler executes one named tool call's arguments and returns its
// result content.
type ToolHandler func(ctx context.Context, args json.RawMessage) (ToolCallResult, error)

// ToolSet wires the §4.3 tool contracts to the engine, font cache, template
// registry, and verifier that implement them.
type ToolSet struct {
	engine    *render.Engine
	fontCache *fonts.Cache
	templates *templates.Registry
	verifier  *verify.Verifier
	timeoutMs int
}

func NewToolSet(engine *render.Engine, fontCache *fonts.Cache, reg *templates.Registry, verifier *verify.Verifier, timeoutMs int) *ToolSet {
	return &ToolSet{engine: engine, fontCache: fontCache, templates: reg, verifier: verifier, timeoutMs: timeoutMs}
}

// Handlers returns the name -> handler table for the fixed tool catalog.
func (t *ToolSet) Handlers() map[string]ToolHandler {
	return map[string]ToolHandler{
		"render_document": t.renderDocument,
		"validate_syntax": t.validateSyntax,
		"list_fonts":      t.listFonts,
		"list_templates":  t.listTemplates,
		"verify_lease":    t.verifyLease,
	}
}

type renderDocumentArgs struct {
	Source string                 `json:"source"`
	Inputs map[string]interface{} `json:"inputs"`
	Assets map[string]string      `json:"assets"`
	Format string                 `json:"format"`
	PPI    int                    `json:"ppi"`
}

func (t *ToolSet) renderDocument(ctx context.Context, raw json.RawMessage) (ToolCallResult, error) {
	var args renderDocumentArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	if args.Format == "" {
		args.Format = "pdf"
	}

	resp, eerr := t.engine.Compile(ctx, render.RenderRequest{
		Source: args.Source,
		Inputs: args.Inputs,
		Assets: args.Assets,
		Format: render.Format(args.Format),
		PPI:    args.PPI,
	}, t.timeoutMs)
	if eerr != nil {
		return errorResult(eerr), nil
	}
	if len(resp.Errors) > 0 {
		return textResult(map[string]interface{}{
			"success": false,
			"errors":  resp.Errors,
		})
	}

	return textResult(map[string]interface{}{
		"success":    true,
		"data":       base64.StdEncoding.EncodeToString(resp.Artifact),
		"mime_type":  mimeType(args.Format),
		"page_count": resp.PageCount,
		"warnings":   resp.Warnings,
	})
}

func mimeType(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	default:
		return "application/pdf"
	}
}

type validateSyntaxArgs struct {
	Source string `json:"source"`
}

func (t *ToolSet) validateSyntax(ctx context.Context, raw json.RawMessage) (ToolCallResult, error) {
	var args validateSyntaxArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	diagnostics := markup.Validate(args.Source)
	return textResult(map[string]interface{}{
		"valid":  len(diagnostics) == 0,
		"errors": diagnostics,
	})
}

func (t *ToolSet) listFonts(ctx context.Context, raw json.RawMessage) (ToolCallResult, error) {
	families := t.fontCache.ListFamilies()
	out := make(map[string][]fonts.FontInfo, len(families))
	for _, f := range families {
		out[f] = t.fontCache.FindByFamily(f)
	}
	return textResult(map[string]interface{}{"families": out})
}

func (t *ToolSet) listTemplates(ctx context.Context, raw json.RawMessage) (ToolCallResult, error) {
	return textResult(map[string]interface{}{"templates": t.templates.List()})
}

type verifyLeaseArgs struct {
	PDFBase64       string `json:"pdf_base64"`
	State           string `json:"state"`
	DetectAnomalies *bool  `json:"detect_anomalies"`
}

func (t *ToolSet) verifyLease(ctx context.Context, raw json.RawMessage) (ToolCallResult, error) {
	var args verifyLeaseArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	if args.State == "" {
		args.State = "florida"
	}
	detectAnomalies := true
	if args.DetectAnomalies != nil {
		detectAnomalies = *args.DetectAnomalies
	}

	pdfBytes, err := base64.StdEncoding.DecodeString(args.PDFBase64)
	if err != nil {
		return errorResult(fmt.Errorf("invalid pdf_base64: %w", err)), nil
	}

	report, err := t.verifier.VerifyLease(pdfBytes, args.State, detectAnomalies)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(report)
}
