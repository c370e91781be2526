// Package markup implements the embedded document compiler: a small
// declarative interpreter over a line-oriented markup language, standing in
// for the full typesetting system the rendering engine's contract was
// modeled on. It supports paragraph text with `{{dotted.path}}` input
// interpolation, explicit page breaks, and field placements — enough
// structure for the lease/disclosure templates this engine renders and for
// the PDF/SVG/PNG exporters downstream to walk.
package markup

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType enumerates the placeable field kinds a template can declare.
type FieldType string

const (
	FieldSignature FieldType = "signature"
	FieldInitial   FieldType = "initial"
	FieldDate      FieldType = "date"
	FieldText      FieldType = "text"
	FieldCheckbox  FieldType = "checkbox"
)

// Field is a positioned placeholder on a page, in PDF points.
type Field struct {
	ID          string
	Type        FieldType
	X, Y        float64
	Width, Height float64
	RecipientID string
}

// Page is one page of the compiled document: its flowed paragraph lines
// and any fields anchored to it.
type Page struct {
	Width, Height float64
	Lines         []string
	Fields        []Field
}

// Document is the compiler's output value, handed to an exporter.
type Document struct {
	Pages []Page
}

func (d *Document) PageCount() int { return len(d.Pages) }

// Severity mirrors the exporter-facing diagnostic severities §4.1 expects.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one compile-time finding, with hints concatenated by the
// caller using "; " per §4.1.
type Diagnostic struct {
	Severity Severity
	Message  string
	Hints    []string
	Line     int
}

const (
	defaultPageWidth  = 612.0 // US Letter, PDF points
	defaultPageHeight = 792.0
)

// Interpret parses and evaluates source against inputs, returning the
// compiled Document plus any warnings on success, or nil plus error
// diagnostics on failure. Errors dominate: if any error diagnostic is
// produced, doc is nil.
func Interpret(source string, inputs map[string]interface{}) (*Document, []Diagnostic, []Diagnostic) {
	var errs, warnings []Diagnostic
	doc := &Document{Pages: []Page{{Width: defaultPageWidth, Height: defaultPageHeight}}}

	for lineNo, raw := range strings.Split(source, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "#pagebreak"):
			doc.Pages = append(doc.Pages, Page{Width: defaultPageWidth, Height: defaultPageHeight})
		case strings.HasPrefix(trimmed, "#page("):
			w, h, err := parsePageDirective(trimmed)
			if err != nil {
				errs = append(errs, Diagnostic{Severity: SeverityError, Message: fmt.Sprintf("invalid #page directive: %v", err), Line: lineNo + 1})
				continue
			}
			cur := &doc.Pages[len(doc.Pages)-1]
			cur.Width, cur.Height = w, h
		case strings.HasPrefix(trimmed, "#field("):
			f, err := parseFieldDirective(trimmed)
			if err != nil {
				errs = append(errs, Diagnostic{Severity: SeverityError, Message: fmt.Sprintf("invalid #field directive: %v", err), Line: lineNo + 1})
				continue
			}
			cur := &doc.Pages[len(doc.Pages)-1]
			cur.Fields = append(cur.Fields, f)
		default:
			rendered, missing := substitute(trimmed, inputs)
			for _, path := range missing {
				warnings = append(warnings, Diagnostic{
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("input %q is not present; rendered as empty", path),
					Line:     lineNo + 1,
				})
			}
			cur := &doc.Pages[len(doc.Pages)-1]
			cur.Lines = append(cur.Lines, rendered)
		}
	}

	if len(errs) > 0 {
		return nil, warnings, errs
	}
	return doc, warnings, nil
}

// Validate parses source without evaluating it against any inputs —
// `validate_syntax` in §4.3's tool catalog.
func Validate(source string) []Diagnostic {
	_, _, errs := Interpret(source, map[string]interface{}{})
	return errs
}

func parsePageDirective(line string) (width, height float64, err error) {
	args, err := parseArgs(line, "#page(")
	if err != nil {
		return 0, 0, err
	}
	width = defaultPageWidth
	height = defaultPageHeight
	if v, ok := args["width"]; ok {
		width, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("width: %w", err)
		}
	}
	if v, ok := args["height"]; ok {
		height, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("height: %w", err)
		}
	}
	return width, height, nil
}

func parseFieldDirective(line string) (Field, error) {
	args, err := parseArgs(line, "#field(")
	if err != nil {
		return Field{}, err
	}
	f := Field{
		ID:          args["id"],
		Type:        FieldType(args["type"]),
		RecipientID: args["recipient"],
	}
	for key, dst := range map[string]*float64{"x": &f.X, "y": &f.Y, "width": &f.Width, "height": &f.Height} {
		if v, ok := args[key]; ok {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return Field{}, fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}
	if f.ID == "" {
		return Field{}, fmt.Errorf("field missing required id")
	}
	return f, nil
}

// parseArgs splits a "prefix(key: value, key2: value2)" directive into a
// key→value map. Values are taken verbatim (quotes stripped).
func parseArgs(line, prefix string) (map[string]string, error) {
	if !strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, ")") {
		return nil, fmt.Errorf("malformed directive")
	}
	body := line[len(prefix) : len(line)-1]
	out := make(map[string]string)
	if strings.TrimSpace(body) == "" {
		return out, nil
	}
	for _, part := range strings.Split(body, ",") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed argument %q", part)
		}
		key := strings.TrimSpace(kv[0])
		val := strings.Trim(strings.TrimSpace(kv[1]), `"`)
		out[key] = val
	}
	return out, nil
}

// substitute replaces every {{dotted.path}} occurrence in line by walking
// inputs. Paths that resolve to nothing are replaced with "" and reported
// back to the caller for warning diagnostics.
func substitute(line string, inputs map[string]interface{}) (string, []string) {
	var missing []string
	var out strings.Builder
	rest := line
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			out.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:start])
		path := strings.TrimSpace(rest[start+2 : start+end])
		val, ok := lookup(inputs, strings.Split(path, "."))
		if !ok {
			missing = append(missing, path)
		} else {
			out.WriteString(fmt.Sprintf("%v", val))
		}
		rest = rest[start+end+2:]
	}
	return out.String(), missing
}

func lookup(node interface{}, path []string) (interface{}, bool) {
	if len(path) == 0 {
		return node, true
	}
	m, ok := node.(map[string]interface{})
	if !ok {
		return nil, false
	}
	child, ok := m[path[0]]
	if !ok {
		return nil, false
	}
	return lookup(child, path[1:])
}
