package fonts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docforge/docforge/pkg/render/fonts"
)

// The cache is process-wide and built exactly once (sync.Once), so every
// assertion here runs against the single Build call below rather than one
// per test function.
func TestCacheBuildIsIdempotentAndIndexed(t *testing.T) {
	sources := []fonts.FontSource{
		{Family: "Helvetica", Style: "normal", Weight: 400, Stretch: "normal", Bytes: []byte{1}},
		{Family: "Helvetica", Style: "italic", Weight: 400, Stretch: "normal", Bytes: []byte{2}},
		{Family: "Times New Roman", Style: "normal", Weight: 700, Stretch: "normal", Bytes: []byte{3}},
	}

	c1 := fonts.Build(sources)
	c2 := fonts.Build(nil) // second call is a no-op, returns the same instance

	assert.Same(t, c1, c2)

	families := c1.ListFamilies()
	assert.Contains(t, families, "Helvetica")
	assert.Contains(t, families, "Times New Roman")

	variants := c1.FindByFamily("Helvetica")
	assert.Len(t, variants, 2)

	all := c1.ListAllFonts()
	assert.Len(t, all, 3)

	f, ok := c1.ByIndex(2)
	assert.True(t, ok)
	assert.Equal(t, "Times New Roman", f.Family)
	assert.Equal(t, []byte{3}, f.Bytes)

	_, ok = c1.ByIndex(99)
	assert.False(t, ok)

	_, ok = c1.ByIndex(-1)
	assert.False(t, ok)
}
