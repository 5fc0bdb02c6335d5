// Package template maps scanned-document filenames to extraction templates.
//
// The registry is an ordered priority list, not a map: classification scans
// entries in declaration order and the first keyword that is a substring of
// the lowercased basename wins. Several keywords may share a document type
// (spelling variants), and broad keywords like "tax" are declared after the
// more specific ones they would otherwise shadow.
package template

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

//go:embed templates/*.json
var templateFS embed.FS

var (
	// ErrTemplateNotFound indicates a registry entry references a template
	// file that does not exist in the embedded store.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrClassificationFailed indicates no registry keyword matched the
	// filename.
	ErrClassificationFailed = errors.New("could not infer document type from filename")
)

// Entry associates a filename keyword with a document type and its template.
type Entry struct {
	Keyword      string `json:"keyword"`
	DocumentType string `json:"document_type"`
	TemplateFile string `json:"template_file"`
}

// registry order is load-bearing: Classify returns the first match.
var registry = []Entry{
	// Immigration forms
	{Keyword: "i129", DocumentType: "USCIS Form I-129 H-1B Petition", TemplateFile: "i129_h1b_petition.json"},
	{Keyword: "i94", DocumentType: "Form I-94 Arrival/Departure Record", TemplateFile: "i_94.json"},
	{Keyword: "i-94", DocumentType: "Form I-94 Arrival/Departure Record", TemplateFile: "i_94.json"},
	{Keyword: "i20", DocumentType: "Form I-20 Certificate of Eligibility", TemplateFile: "proof_of_in_country_status.json"},
	{Keyword: "i-20", DocumentType: "Form I-20 Certificate of Eligibility", TemplateFile: "proof_of_in_country_status.json"},

	// Identity documents
	{Keyword: "passport", DocumentType: "Passport", TemplateFile: "passport.json"},
	{Keyword: "visa", DocumentType: "US Visa", TemplateFile: "us_visa.json"},

	// Education documents
	{Keyword: "transcript", DocumentType: "Academic Transcript", TemplateFile: "school_transcripts.json"},
	{Keyword: "diploma", DocumentType: "Diploma", TemplateFile: "diplomas.json"},

	// Employment documents
	{Keyword: "employment letter", DocumentType: "Employment Letter", TemplateFile: "employment_letter.json"},
	{Keyword: "offer letter", DocumentType: "Employment Letter", TemplateFile: "employment_letter.json"},
	{Keyword: "offer-letter", DocumentType: "Employment Letter", TemplateFile: "employment_letter.json"},
	{Keyword: "offer_letter", DocumentType: "Employment Letter", TemplateFile: "employment_letter.json"},
	{Keyword: "employment_letter", DocumentType: "Employment Letter", TemplateFile: "employment_letter.json"},
	{Keyword: "employment", DocumentType: "Employment Letter", TemplateFile: "employment_letter.json"},
	{Keyword: "resume", DocumentType: "Resume/CV", TemplateFile: "resume.json"},
	{Keyword: "cv", DocumentType: "Resume/CV", TemplateFile: "resume.json"},

	// Tax and corporate documents
	{Keyword: "fein", DocumentType: "Corporate Tax Returns", TemplateFile: "corporate_tax_returns.json"},
	{Keyword: "cp575", DocumentType: "Corporate Tax Returns", TemplateFile: "corporate_tax_returns.json"},
	{Keyword: "tax", DocumentType: "Corporate Tax Returns", TemplateFile: "corporate_tax_returns.json"},

	// Personal documents
	{Keyword: "marriage", DocumentType: "Marriage Certificate", TemplateFile: "marriage_certificate.json"},
	{Keyword: "marriage_certificate", DocumentType: "Marriage Certificate", TemplateFile: "marriage_certificate.json"},

	// Proof of status
	{Keyword: "proof", DocumentType: "Proof of In-Country Status", TemplateFile: "proof_of_in_country_status.json"},
}

// Entries returns all registry entries in match-priority order.
func Entries() []Entry {
	entries := make([]Entry, len(registry))
	copy(entries, registry)
	return entries
}

// Keywords returns all registered keywords in match-priority order.
func Keywords() []string {
	keywords := make([]string, len(registry))
	for i, e := range registry {
		keywords[i] = e.Keyword
	}
	return keywords
}

// Load reads and parses a template from the embedded store.
// Repeated loads are idempotent; callers receive a fresh tree each time.
func Load(templateFile string) (map[string]any, error) {
	data, err := templateFS.ReadFile("templates/" + templateFile)
	if err != nil {
		return nil, fmt.Errorf("%w: templates/%s", ErrTemplateNotFound, templateFile)
	}

	var tmpl map[string]any
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateFile, err)
	}
	return tmpl, nil
}

// Classify infers the document type and template from a PDF filename.
//
// Example:
//   - "I129 HALF.pdf"      -> matches "i129" -> i129_h1b_petition.json
//   - "passport_rohan.pdf" -> matches "passport" -> passport.json
//   - "F1_visa_page1.pdf"  -> matches "visa" -> us_visa.json
func Classify(filename string) (string, map[string]any, error) {
	basename := strings.ToLower(filepath.Base(filename))

	for _, e := range registry {
		if strings.Contains(basename, e.Keyword) {
			tmpl, err := Load(e.TemplateFile)
			if err != nil {
				return "", nil, err
			}
			return e.DocumentType, tmpl, nil
		}
	}

	return "", nil, fmt.Errorf("%w %q; known keywords: %s",
		ErrClassificationFailed, basename, strings.Join(Keywords(), ", "))
}
