// Package prompt renders the extraction instruction sent to the vision
// model. The instruction text lives in an embedded template file so the
// wording is reviewable apart from code.
package prompt

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

//go:embed extraction.tmpl
var tmplFS embed.FS

var extractionTmpl = template.Must(template.ParseFS(tmplFS, "extraction.tmpl"))

// Build produces the deterministic extraction instruction for a document
// type and template schema. The schema is embedded with two-space
// indentation and is never mutated; encoding/json serializes map keys in
// sorted order, so identical inputs always yield identical prompts.
func Build(documentType string, schema map[string]any) (string, error) {
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize template schema: %w", err)
	}

	var sb strings.Builder
	err = extractionTmpl.Execute(&sb, struct {
		DocumentType string
		TemplateJSON string
	}{
		DocumentType: documentType,
		TemplateJSON: string(schemaJSON),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render extraction prompt: %w", err)
	}

	return sb.String(), nil
}
