// Package fonts implements the process-wide, read-only font cache the
// rendering engine's compiler consumes through its World capability set.
package fonts

import "sync"

// FontInfo describes one font variant indexed in the cache.
type FontInfo struct {
	Index   int
	Family  string
	Style   string // "normal" | "italic" | "oblique"
	Weight  int    // 100-900
	Stretch string // "normal" | "condensed" | "expanded" ...
}

// Font pairs FontInfo with its raw bytes, as loaded at cache build time.
type Font struct {
	FontInfo
	Bytes []byte
}

// Cache is a process-wide, lazily-initialized, read-only index over the
// fonts embedded with the binary. It is shared between all concurrent
// compiles without locking once built — callers never mutate it after
// Build returns.
type Cache struct {
	byIndex  []Font
	byFamily map[string][]FontInfo
}

var (
	once     sync.Once
	instance *Cache
)

// FontSource is one (family, style, weight, stretch, bytes) entry supplied
// at cache-build time — typically from an embed.FS walked by the caller,
// since spec §4.1 requires fonts be embedded with the binary rather than
// scanned from the host at runtime.
type FontSource struct {
	Family  string
	Style   string
	Weight  int
	Stretch string
	Bytes   []byte
}

// Build constructs the process-wide cache from sources exactly once; later
// calls with different sources have no effect and return the first-built
// instance. This matches the "lazily initialized" / "shared between all
// concurrent compiles" contract.
func Build(sources []FontSource) *Cache {
	once.Do(func() {
		c := &Cache{byFamily: make(map[string][]FontInfo)}
		for i, src := range sources {
			info := FontInfo{Index: i, Family: src.Family, Style: src.Style, Weight: src.Weight, Stretch: src.Stretch}
			c.byIndex = append(c.byIndex, Font{FontInfo: info, Bytes: src.Bytes})
			c.byFamily[src.Family] = append(c.byFamily[src.Family], info)
		}
		instance = c
	})
	return instance
}

// ListFamilies returns every distinct family name in the cache.
func (c *Cache) ListFamilies() []string {
	names := make([]string, 0, len(c.byFamily))
	for name := range c.byFamily {
		names = append(names, name)
	}
	return names
}

// FindByFamily returns every variant registered under family.
func (c *Cache) FindByFamily(family string) []FontInfo {
	return c.byFamily[family]
}

// ListAllFonts returns every indexed font's metadata.
func (c *Cache) ListAllFonts() []FontInfo {
	out := make([]FontInfo, len(c.byIndex))
	for i, f := range c.byIndex {
		out[i] = f.FontInfo
	}
	return out
}

// ByIndex returns the font at a stable index, as referenced by the
// compiler, or false if out of range.
func (c *Cache) ByIndex(i int) (Font, bool) {
	if i < 0 || i >= len(c.byIndex) {
		return Font{}, false
	}
	return c.byIndex[i], true
}
