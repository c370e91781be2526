package render_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/docforge/pkg/render"
)

type stubRegistry map[string]string

func (s stubRegistry) GetSource(name string) (string, error) {
	src, ok := s[name]
	if !ok {
		return "", fmt.Errorf("no such template %q", name)
	}
	return src, nil
}

func newEngine(reg render.TemplateRegistry) *render.Engine {
	return render.NewEngine(reg, nil, nil)
}

func TestCompileInlineSourceToPDF(t *testing.T) {
	e := newEngine(stubRegistry{})
	resp, eerr := e.Compile(context.Background(), render.RenderRequest{
		Source: "Hello, {{name}}.",
		Inputs: map[string]interface{}{"name": "World"},
		Format: render.FormatPDF,
	}, 5000)
	require.Nil(t, eerr)
	require.NotNil(t, resp)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, 1, resp.PageCount)
	assert.Contains(t, string(resp.Artifact), "%PDF-1.7")
}

func TestCompileResolvesTemplateURI(t *testing.T) {
	e := newEngine(stubRegistry{"lease/fl": "Lease for {{tenant}}."})
	resp, eerr := e.Compile(context.Background(), render.RenderRequest{
		Source: "typst://templates/lease/fl",
		Inputs: map[string]interface{}{"tenant": "Jane"},
		Format: render.FormatSVG,
	}, 5000)
	require.Nil(t, eerr)
	assert.Contains(t, string(resp.Artifact), "Lease for Jane.")
}

func TestCompileTemplateNotFound(t *testing.T) {
	e := newEngine(stubRegistry{})
	_, eerr := e.Compile(context.Background(), render.RenderRequest{
		Source: "typst://templates/missing",
		Format: render.FormatPDF,
	}, 5000)
	require.NotNil(t, eerr)
	assert.Equal(t, render.KindTemplateNotFound, eerr.Kind)
	assert.Equal(t, "TemplateNotFound", eerr.Code())
}

func TestCompileAssetErrorOnInvalidBase64(t *testing.T) {
	e := newEngine(stubRegistry{})
	_, eerr := e.Compile(context.Background(), render.RenderRequest{
		Source: "hello",
		Assets: map[string]string{"/logo.png": "not-valid-base64!!"},
		Format: render.FormatPDF,
	}, 5000)
	require.NotNil(t, eerr)
	assert.Equal(t, render.KindAssetError, eerr.Kind)
}

func TestCompilePathSecurityViolationOnAssetPath(t *testing.T) {
	e := newEngine(stubRegistry{})
	_, eerr := e.Compile(context.Background(), render.RenderRequest{
		Source: "hello",
		Assets: map[string]string{"../escape.png": base64.StdEncoding.EncodeToString([]byte{1})},
		Format: render.FormatPDF,
	}, 5000)
	require.NotNil(t, eerr)
	assert.Equal(t, render.KindPathSecurityViolation, eerr.Kind)
}

func TestCompileTimesOutOnSlowSource(t *testing.T) {
	// Interpret itself is fast; the engine's own goroutine/timeout wiring is
	// covered by pkg/render/sandbox directly. Here we exercise the zero/near
	// zero timeout budget path to confirm Timeout is surfaced end to end.
	e := newEngine(stubRegistry{})
	_, eerr := e.Compile(context.Background(), render.RenderRequest{
		Source: "hello",
		Format: render.FormatPDF,
	}, 0)
	require.NotNil(t, eerr)
	assert.Equal(t, render.KindTimeout, eerr.Kind)
}

func TestCompileCollectsCompileErrorsAsDiagnostics(t *testing.T) {
	e := newEngine(stubRegistry{})
	resp, eerr := e.Compile(context.Background(), render.RenderRequest{
		Source: `#field(type: "text")`,
		Format: render.FormatPDF,
	}, 5000)
	require.Nil(t, eerr)
	require.NotNil(t, resp)
	assert.Nil(t, resp.Artifact)
	require.Len(t, resp.Errors, 1)
}

func TestCompileUnknownFormatIsInvalidArgument(t *testing.T) {
	e := newEngine(stubRegistry{})
	_, eerr := e.Compile(context.Background(), render.RenderRequest{
		Source: "hello",
		Format: render.Format("docx"),
	}, 5000)
	require.NotNil(t, eerr)
	assert.Equal(t, render.KindInvalidArgument, eerr.Kind)
}

func TestConvertInputsRejectsUnsupportedType(t *testing.T) {
	e := newEngine(stubRegistry{})
	_, eerr := e.Compile(context.Background(), render.RenderRequest{
		Source: "hello",
		Inputs: map[string]interface{}{"bad": make(chan int)},
		Format: render.FormatPDF,
	}, 5000)
	require.NotNil(t, eerr)
	assert.Equal(t, render.KindInvalidArgument, eerr.Kind)
}

func TestConvertInputsHandlesJSONNumberAndNesting(t *testing.T) {
	var inputs map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"count": 3, "price": 19.99, "nested": {"flag": true, "items": [1, 2, "x"]}}`), &inputs))

	e := newEngine(stubRegistry{})
	resp, eerr := e.Compile(context.Background(), render.RenderRequest{
		Source: "{{count}} {{price}} {{nested.flag}}",
		Inputs: inputs,
		Format: render.FormatSVG,
	}, 5000)
	require.Nil(t, eerr)
	assert.Contains(t, string(resp.Artifact), "3 19.99 true")
}
