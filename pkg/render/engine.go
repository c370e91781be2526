// Package render implements the sandboxed, deterministic document
// rendering engine: it resolves a template or inline source, mounts it and
// its assets into a virtual filesystem, compiles it under a timeout, and
// exports the result to PDF, SVG, or PNG.
package render

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/docforge/docforge/pkg/render/fonts"
	"github.com/docforge/docforge/pkg/render/markup"
	"github.com/docforge/docforge/pkg/render/pdfwrite"
	"github.com/docforge/docforge/pkg/render/sandbox"
	"github.com/docforge/docforge/pkg/render/vfs"
)

// Format is the requested export format.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

const templateURIPrefix = "typst://templates/"

// TemplateRegistry is the subset of pkg/render/templates.Registry the
// engine needs — kept as a local interface so this package has no
// compile-time dependency on the registry's embedding mechanism.
type TemplateRegistry interface {
	GetSource(name string) (string, error)
}

// RenderRequest is the engine's single public operation's input.
type RenderRequest struct {
	Source string
	Inputs map[string]interface{}
	Assets map[string]string // virtual path -> base64
	Format Format
	PPI    int
}

// RenderResponse is returned on success; Artifact is absent on failure.
type RenderResponse struct {
	Artifact  []byte
	PageCount int
	Warnings  []markup.Diagnostic
	Errors    []markup.Diagnostic
}

// Kind enumerates EngineError categories.
type Kind string

const (
	KindTemplateNotFound      Kind = "TemplateNotFound"
	KindAssetError            Kind = "AssetError"
	KindPathSecurityViolation Kind = "PathSecurityViolation"
	KindInvalidArgument       Kind = "InvalidArgument"
	KindTimeout               Kind = "Timeout"
	KindInternal              Kind = "Internal"
	KindCompileError          Kind = "CompileError"
)

// EngineError is the typed error taxonomy compile() returns.
type EngineError struct {
	Kind    Kind
	Message string
}

func (e *EngineError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func (e *EngineError) Code() string { return string(e.Kind) }

func newErr(kind Kind, format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Engine owns the shared, process-wide state a compile reads: the font
// cache and the template registry.
type Engine struct {
	templates TemplateRegistry
	fontCache *fonts.Cache
	log       *zap.Logger
}

func NewEngine(templates TemplateRegistry, fontCache *fonts.Cache, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{templates: templates, fontCache: fontCache, log: log}
}

// Compile runs one render request to completion or to timeoutMs, whichever
// comes first. The compile itself runs on a dedicated goroutine so a slow
// or hung template cannot block the caller's scheduler; on timeout the
// caller abandons the result (the goroutine may still finish in the
// background, best-effort, and its result is discarded).
func (e *Engine) Compile(ctx context.Context, req RenderRequest, timeoutMs int) (*RenderResponse, *EngineError) {
	source, eerr := e.resolveSource(req.Source)
	if eerr != nil {
		return nil, eerr
	}

	world := vfs.New()
	if err := world.Mount("/main.typ", []byte(source)); err != nil {
		return nil, newErr(KindPathSecurityViolation, "mounting main source: %v", err)
	}

	for path, b64 := range req.Assets {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, newErr(KindAssetError, "%s: %v", path, err)
		}
		if err := world.Mount(path, raw); err != nil {
			return nil, newErr(KindPathSecurityViolation, "%s: %v", path, err)
		}
	}

	inputs, err := convertInputs(req.Inputs)
	if err != nil {
		return nil, newErr(KindInvalidArgument, "%v", err)
	}

	type result struct {
		doc      *markup.Document
		warnings []markup.Diagnostic
		errs     []markup.Diagnostic
	}

	timeout := time.Duration(timeoutMs) * time.Millisecond
	res, err := sandbox.Dispatch(ctx, timeout, func() (result, error) {
		mainSrc, _ := world.Source("/main.typ")
		doc, warnings, errs := markup.Interpret(mainSrc, inputs)
		return result{doc: doc, warnings: warnings, errs: errs}, nil
	})
	if err != nil {
		if _, ok := err.(*sandbox.TimeoutError); ok {
			e.log.Warn("compile timed out", zap.Int("timeout_ms", timeoutMs))
			return nil, newErr(KindTimeout, "%dms", timeoutMs)
		}
		return nil, newErr(KindInternal, "%v", err)
	}

	if len(res.errs) > 0 {
		return &RenderResponse{Warnings: res.warnings, Errors: res.errs}, nil
	}
	return e.export(res.doc, req.Format, req.PPI, res.warnings)
}

func (e *Engine) resolveSource(source string) (string, *EngineError) {
	if strings.HasPrefix(source, templateURIPrefix) {
		name := strings.TrimPrefix(source, templateURIPrefix)
		src, err := e.templates.GetSource(name)
		if err != nil {
			return "", newErr(KindTemplateNotFound, "%s", name)
		}
		return src, nil
	}
	return source, nil
}

func (e *Engine) export(doc *markup.Document, format Format, ppi int, warnings []markup.Diagnostic) (*RenderResponse, *EngineError) {
	switch format {
	case "", FormatPDF:
		artifact, err := pdfwrite.Write(doc)
		if err != nil {
			return nil, newErr(KindInternal, "pdf export: %v", err)
		}
		return &RenderResponse{Artifact: artifact, PageCount: doc.PageCount(), Warnings: warnings}, nil
	case FormatSVG:
		return &RenderResponse{Artifact: exportSVG(doc), PageCount: doc.PageCount(), Warnings: warnings}, nil
	case FormatPNG:
		return &RenderResponse{Artifact: exportPNG(doc, ppi), PageCount: doc.PageCount(), Warnings: warnings}, nil
	default:
		return nil, newErr(KindInvalidArgument, "unknown format %q", format)
	}
}

// convertInputs maps a decoded JSON tree into the compiler's value domain:
// null->nil, bool->bool, json.Number integers in int64 range->int64, other
// json.Number values and float64->float64, strings->string, arrays/objects
// recurse. json.Number values outside the
// 64-bit signed integer range that also aren't valid floats are rejected.
func convertInputs(tree map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(tree))
	for k, v := range tree {
		converted, err := convertValue(v)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", k, err)
		}
		out[k] = converted
	}
	return out, nil
}

func convertValue(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil, bool, string:
		return t, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q out of range", t.String())
		}
		return f, nil
	case float64:
		return t, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, elem := range t {
			c, err := convertValue(elem)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]interface{}:
		return convertInputs(t)
	default:
		return nil, fmt.Errorf("unsupported input type %T", v)
	}
}
