package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ToolRef describes one callable tool: its name, a human-readable
// description, and the JSON schema its arguments must satisfy.
type ToolRef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

// Validate checks that a ToolRef has a non-empty Name.
func (r ToolRef) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("tool ref name is required")
	}
	return nil
}

// Catalog is the registry of tools the tools/list method enumerates.
type Catalog interface {
	Search(ctx context.Context, query string) ([]ToolRef, error)
	Register(ctx context.Context, ref ToolRef) error
}

// ToolCatalog is an in-memory Catalog, safe for concurrent use.
type ToolCatalog struct {
	mu    sync.RWMutex
	tools map[string]ToolRef
}

func NewToolCatalog() *ToolCatalog {
	return &ToolCatalog{tools: make(map[string]ToolRef)}
}

func (c *ToolCatalog) Register(ctx context.Context, ref ToolRef) error {
	if err := ref.Validate(); err != nil {
		return fmt.Errorf("invalid tool ref: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tools[ref.Name] = ref
	return nil
}

func (c *ToolCatalog) Search(ctx context.Context, query string) ([]ToolRef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	query = strings.ToLower(query)
	results := make([]ToolRef, 0, len(c.tools))
	for _, tool := range c.tools {
		if query == "" || strings.Contains(strings.ToLower(tool.Name), query) || strings.Contains(strings.ToLower(tool.Description), query) {
			results = append(results, tool)
		}
	}
	return results, nil
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// defaultCatalog builds the fixed five-tool catalog §4.3 names: render_document,
// validate_syntax, list_fonts, list_templates, verify_lease.
func defaultCatalog() *ToolCatalog {
	c := NewToolCatalog()
	ctx := context.Background()

	_ = c.Register(ctx, ToolRef{
		Name:        "render_document",
		Description: "Compile a template or inline source against a tree of inputs and export PDF, SVG, or PNG.",
		InputSchema: objectSchema(map[string]any{
			"source":     map[string]any{"type": "string", "description": "Template URI (typst://templates/name) or inline source"},
			"inputs":     map[string]any{"type": "object"},
			"assets":     map[string]any{"type": "object", "description": "virtual path -> base64 bytes"},
			"format":     map[string]any{"type": "string", "enum": []string{"pdf", "svg", "png"}},
			"ppi":        map[string]any{"type": "integer"},
		}, "source"),
	})

	_ = c.Register(ctx, ToolRef{
		Name:        "validate_syntax",
		Description: "Parse a source without compiling it; returns diagnostics.",
		InputSchema: objectSchema(map[string]any{
			"source": map[string]any{"type": "string"},
		}, "source"),
	})

	_ = c.Register(ctx, ToolRef{
		Name:        "list_fonts",
		Description: "List embedded font families and their per-family variants.",
		InputSchema: objectSchema(map[string]any{}),
	})

	_ = c.Register(ctx, ToolRef{
		Name:        "list_templates",
		Description: "List the registered template metadata.",
		InputSchema: objectSchema(map[string]any{}),
	})

	_ = c.Register(ctx, ToolRef{
		Name:        "verify_lease",
		Description: "Extract, run compliance checks, and optionally sweep for structural anomalies on a lease PDF.",
		InputSchema: objectSchema(map[string]any{
			"pdf_base64":       map[string]any{"type": "string"},
			"state":            map[string]any{"type": "string", "default": "florida"},
			"detect_anomalies": map[string]any{"type": "boolean", "default": true},
		}, "pdf_base64"),
	})

	return c
}
