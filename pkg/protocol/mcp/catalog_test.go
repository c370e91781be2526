package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolCatalogRegisterAndSearch(t *testing.T) {
	catalog := NewToolCatalog()
	ctx := context.Background()

	require.NoError(t, catalog.Register(ctx, ToolRef{Name: "calculator", Description: "Performs basic math"}))
	require.NoError(t, catalog.Register(ctx, ToolRef{Name: "weather", Description: "Get weather reports"}))

	t.Run("exact name", func(t *testing.T) {
		results, err := catalog.Search(ctx, "calculator")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "calculator", results[0].Name)
	})

	t.Run("case insensitive description", func(t *testing.T) {
		results, err := catalog.Search(ctx, "WEATHER")
		require.NoError(t, err)
		require.Len(t, results, 1)
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		results, err := catalog.Search(ctx, "")
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("no results", func(t *testing.T) {
		results, err := catalog.Search(ctx, "nonexistent")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestToolCatalogRegisterRejectsEmptyName(t *testing.T) {
	catalog := NewToolCatalog()
	err := catalog.Register(context.Background(), ToolRef{Description: "no name"})
	require.Error(t, err)
}

func TestDefaultCatalogListsTheFixedFiveTools(t *testing.T) {
	catalog := defaultCatalog()
	results, err := catalog.Search(context.Background(), "")
	require.NoError(t, err)

	names := make(map[string]bool, len(results))
	for _, r := range results {
		names[r.Name] = true
	}
	for _, expected := range []string{"render_document", "validate_syntax", "list_fonts", "list_templates", "verify_lease"} {
		assert.True(t, names[expected], "expected tool %q in catalog", expected)
	}
}
