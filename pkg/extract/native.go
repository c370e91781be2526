package extract

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/unicode"
)

const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// NativeBackend parses PDF structure in-process via pdfcpu, walks each
// page's content stream, and decodes Tj/TJ/'/" text-showing operators with
// an encoding fallback chain: UTF-8, then UTF-16BE if a BOM is present,
// then Latin-1.
type NativeBackend struct{}

func (NativeBackend) Name() string { return "native" }

func (NativeBackend) Extract(data []byte) ([]PageContent, error) {
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		return nil, newParseError("missing %%PDF header")
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, newParseError("%v", err)
	}

	pages := make([]PageContent, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		text, err := extractPageText(ctx, pageNr)
		if err != nil {
			return nil, newParseError("page %d: %v", pageNr, err)
		}
		w, h := pageDimensions(ctx, pageNr)
		pages = append(pages, PageContent{
			PageNumber: pageNr,
			RawText:    strings.TrimSpace(text),
			Width:      w,
			Height:     h,
		})
	}

	var all strings.Builder
	for _, p := range pages {
		all.WriteString(p.RawText)
	}
	if q := analyzeTextQuality(all.String()); !q.valid && all.Len() > 0 {
		return nil, newEncodingFailure(q.details, true)
	}

	return pages, nil
}

func extractPageText(ctx *model.Context, pageNr int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return "", err
	}
	if r == nil {
		return "", nil
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return decodeContentStreamText(content), nil
}

func pageDimensions(ctx *model.Context, pageNr int) (float64, float64) {
	_, _, attrs, err := ctx.PageDict(pageNr, false)
	if err != nil || attrs == nil || attrs.MediaBox == nil {
		return defaultPageWidth, defaultPageHeight
	}
	mb := attrs.MediaBox
	return mb.UR.X - mb.LL.X, mb.UR.Y - mb.LL.Y
}

// decodeContentStreamText walks a decoded page content stream looking for
// Tj/TJ/'/" text-showing operators and concatenates their decoded operand
// text. It is a minimal operator scanner, not a full content-stream
// interpreter: it tracks a stack of pending operand values and dispatches
// on the next bare-word operator it sees.
func decodeContentStreamText(content []byte) string {
	var out strings.Builder
	var pending []csValue

	i := 0
	for i < len(content) {
		c := content[i]
		switch {
		case c == ' ' || c == '\n' || c == '\r' || c == '\t':
			i++
		case c == '(':
			s, next := scanLiteralString(content, i)
			pending = append(pending, csValue{str: s})
			i = next
		case c == '<':
			s, next := scanHexString(content, i)
			pending = append(pending, csValue{str: s})
			i = next
		case c == '[':
			arr, next := scanArray(content, i)
			pending = append(pending, csValue{arr: arr})
			i = next
		case isNumberStart(c):
			n, next := scanNumber(content, i)
			pending = append(pending, csValue{num: n, isNum: true})
			i = next
		default:
			word, next := scanWord(content, i)
			i = next
			if word == "" {
				i++
				continue
			}
			switch word {
			case "Tj", "'":
				if len(pending) > 0 {
					out.WriteString(decodeOperandText(pending[len(pending)-1].str))
				}
			case "\"":
				if len(pending) > 0 {
					out.WriteString(decodeOperandText(pending[len(pending)-1].str))
				}
			case "TJ":
				if len(pending) > 0 {
					for _, item := range pending[len(pending)-1].arr {
						if item.isNum {
							if item.num < -100 {
								out.WriteByte(' ')
							}
							continue
						}
						out.WriteString(decodeOperandText(item.str))
					}
				}
			}
			pending = pending[:0]
		}
	}
	return out.String()
}

type csValue struct {
	str   string
	num   float64
	isNum bool
	arr   []csValue
}

func isNumberStart(c byte) bool {
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func scanLiteralString(content []byte, start int) (string, int) {
	i := start + 1
	depth := 1
	var buf bytes.Buffer
	for i < len(content) && depth > 0 {
		c := content[i]
		switch c {
		case '\\':
			if i+1 < len(content) {
				buf.WriteByte(content[i+1])
				i += 2
				continue
			}
		case '(':
			depth++
			buf.WriteByte(c)
		case ')':
			depth--
			if depth > 0 {
				buf.WriteByte(c)
			}
		default:
			buf.WriteByte(c)
		}
		i++
	}
	return buf.String(), i
}

func scanHexString(content []byte, start int) (string, int) {
	i := start + 1
	var hex strings.Builder
	for i < len(content) && content[i] != '>' {
		if isHexDigit(content[i]) {
			hex.WriteByte(content[i])
		}
		i++
	}
	if i < len(content) {
		i++ // consume '>'
	}
	raw := hex.String()
	if len(raw)%2 == 1 {
		raw += "0"
	}
	var buf bytes.Buffer
	for j := 0; j+1 < len(raw); j += 2 {
		b, err := strconv.ParseUint(raw[j:j+2], 16, 8)
		if err == nil {
			buf.WriteByte(byte(b))
		}
	}
	return buf.String(), i
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func scanArray(content []byte, start int) ([]csValue, int) {
	i := start + 1
	var items []csValue
	for i < len(content) && content[i] != ']' {
		c := content[i]
		switch {
		case c == ' ' || c == '\n' || c == '\r' || c == '\t':
			i++
		case c == '(':
			s, next := scanLiteralString(content, i)
			items = append(items, csValue{str: s})
			i = next
		case c == '<':
			s, next := scanHexString(content, i)
			items = append(items, csValue{str: s})
			i = next
		case isNumberStart(c):
			n, next := scanNumber(content, i)
			items = append(items, csValue{num: n, isNum: true})
			i = next
		default:
			i++
		}
	}
	if i < len(content) {
		i++ // consume ']'
	}
	return items, i
}

func scanNumber(content []byte, start int) (float64, int) {
	i := start
	for i < len(content) && (isNumberStart(content[i]) || content[i] == 'e' || content[i] == 'E') {
		i++
	}
	n, _ := strconv.ParseFloat(string(content[start:i]), 64)
	return n, i
}

func scanWord(content []byte, start int) (string, int) {
	i := start
	for i < len(content) && isWordByte(content[i]) {
		i++
	}
	if i == start {
		return "", start + 1
	}
	return string(content[start:i]), i
}

func isWordByte(c byte) bool {
	switch c {
	case ' ', '\n', '\r', '\t', '(', ')', '<', '>', '[', ']', '/', '{', '}':
		return false
	}
	return true
}

// decodeOperandText applies the UTF-8 -> UTF-16BE(BOM) -> Latin-1 fallback
// chain to raw string-operand bytes.
func decodeOperandText(raw string) string {
	b := []byte(raw)
	if utf8.Valid(b) {
		return raw
	}
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if decoded, err := dec.Bytes(b); err == nil {
			return string(decoded)
		}
	}
	// Latin-1: each byte maps 1:1 onto the same Unicode code point.
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
