package templates

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed files/*.tmpl
var generatedFS embed.FS

// Renderer executes text templates against a fixed data value.
type Renderer struct {
	data  any
	funcs template.FuncMap
}

// NewRenderer creates a renderer for data. funcs may be nil.
func NewRenderer(data any, funcs template.FuncMap) *Renderer {
	return &Renderer{data: data, funcs: funcs}
}

// Render parses content as a template named name and executes it.
func (r *Renderer) Render(name string, content []byte) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(r.funcs).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return nil, fmt.Errorf("executing %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// RenderEmbedded renders one of the generated-file templates shipped in the
// binary, e.g. "README.md.tmpl".
func (r *Renderer) RenderEmbedded(name string) ([]byte, error) {
	content, err := generatedFS.ReadFile("files/" + name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return r.Render(name, content)
}
