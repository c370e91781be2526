package extract

import (
	"regexp"
	"strings"
)

// literalStringPattern matches a PDF literal string token anywhere in the
// raw file bytes, without regard to which content stream (or compressed
// object) it came from.
var literalStringPattern = regexp.MustCompile(`\(([^()\\]|\\.)*\)`)

// LegacyBackend is the conservative fallback used when the structured
// backends fail: it scans the raw document bytes for literal-string tokens
// without parsing PDF object/page structure at all, and returns the result
// as a single unpaginated page.
type LegacyBackend struct{}

func (LegacyBackend) Name() string { return "legacy" }

func (LegacyBackend) Extract(data []byte) ([]PageContent, error) {
	matches := literalStringPattern.FindAll(data, -1)
	var sb strings.Builder
	for _, m := range matches {
		inner := m[1 : len(m)-1]
		sb.WriteString(decodeOperandText(unescapeLiteral(inner)))
		sb.WriteByte(' ')
	}

	return []PageContent{{
		PageNumber: 1,
		RawText:    strings.TrimSpace(sb.String()),
		Width:      defaultPageWidth,
		Height:     defaultPageHeight,
	}}, nil
}

func unescapeLiteral(b []byte) string {
	var out strings.Builder
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' && i+1 < len(b) {
			out.WriteByte(b[i+1])
			i++
			continue
		}
		out.WriteByte(b[i])
	}
	return out.String()
}
