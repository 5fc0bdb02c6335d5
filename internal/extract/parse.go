package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyModelResponse indicates the model returned no extractable
	// text.
	ErrEmptyModelResponse = errors.New("model response did not contain any text content to parse as JSON")

	// ErrMalformedModelJSON indicates the model's text was not valid JSON
	// after fence stripping.
	ErrMalformedModelJSON = errors.New("model output was not valid JSON")
)

// snippetLimit bounds how much offending text a parse error carries.
const snippetLimit = 500

// Parse turns the model's raw text into the extraction result. It trims
// whitespace, strips an optional markdown code fence, and decodes the
// remainder as strict JSON. The parsed structure is returned verbatim; no
// validation against the template is performed here.
func Parse(raw string) (map[string]any, error) {
	text := stripFences(strings.TrimSpace(raw))

	if text == "" {
		return nil, ErrEmptyModelResponse
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		snippet := text
		if len(snippet) > snippetLimit {
			// Back off to a rune boundary so the diagnostic stays valid
			// UTF-8.
			cut := snippetLimit
			for cut > 0 && !utf8.RuneStart(snippet[cut]) {
				cut--
			}
			snippet = snippet[:cut]
		}
		return nil, fmt.Errorf("%w: %v; first %d characters of response: %q",
			ErrMalformedModelJSON, err, snippetLimit, snippet)
	}
	return result, nil
}

// stripFences removes triple-backtick markdown decoration: the opening fence
// line (optionally annotated with a language tag) and, when present, a
// trailing closing fence.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		lines = lines[1:]
	}
	// The closing fence is the last non-empty line when the model added one.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
