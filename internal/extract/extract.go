// Package extract wires the extraction pipeline end to end: filename
// classification, template loading, rasterization, prompt construction,
// model invocation, and response parsing.
//
// Execution is single-request synchronous. Each request's PDF bytes, page
// images, and result are owned by that call; the only shared state is the
// injected vision client, which is constructed once and used read-only.
// The pipeline performs zero retries: any stage failure surfaces once.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/visadesk/extractor/internal/prompt"
	"github.com/visadesk/extractor/internal/providers"
	"github.com/visadesk/extractor/internal/raster"
	"github.com/visadesk/extractor/internal/template"
)

// systemPrompt frames the assistant for every extraction call.
const systemPrompt = "You are a precise document extraction engine."

// DefaultModel is the model alias used when the caller passes "" or
// "default". Overridable via configuration (EXTRACTOR_MODEL_ALIAS).
const DefaultModel = "gpt-4.1-mini"

// DefaultMaxPages bounds rasterization when the caller does not.
const DefaultMaxPages = 10

// AllowedModels is the fixed set of supported model aliases. "default" is a
// sentinel resolved to the configured default before validation; the dated
// aliases are kept for backward compatibility.
var AllowedModels = []string{
	"default",
	"gpt-4.1-mini",
	"gpt-4.1",
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-4.1-2025-04-14",
	"gpt-4.1-mini-2025-04-14",
	"gpt-5-2025-08-07",
	"gpt-5-mini-2025-08-07",
}

var (
	// ErrUnsupportedModel indicates a model alias outside AllowedModels.
	ErrUnsupportedModel = errors.New("unsupported model alias")

	// ErrNoRenderedPages indicates rasterization produced zero images for a
	// request that needs at least one.
	ErrNoRenderedPages = errors.New("no images were extracted from PDF")
)

// Config holds pipeline defaults.
type Config struct {
	DefaultModel      string // "" uses DefaultModel
	MaxPages          int    // 0 uses DefaultMaxPages
	ValidateStructure bool   // opt-in result shape validation
	Logger            *slog.Logger
}

// Service runs extractions against an injected vision client.
type Service struct {
	client       providers.VisionClient
	defaultModel string
	maxPages     int
	validate     bool
	logger       *slog.Logger
}

// New creates a pipeline service.
func New(client providers.VisionClient, cfg Config) *Service {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		client:       client,
		defaultModel: cfg.DefaultModel,
		maxPages:     cfg.MaxPages,
		validate:     cfg.ValidateStructure,
		logger:       cfg.Logger,
	}
}

// Request is one extraction call. The filename is used only for template
// inference; only its basename is consulted.
type Request struct {
	PDF      []byte
	Filename string
	MaxPages int    // 0 uses the service default
	Model    string // "" or "default" uses the service default
}

// Extract runs the full pipeline and returns the populated mapping.
func (s *Service) Extract(ctx context.Context, req Request) (map[string]any, error) {
	requestID := uuid.New().String()
	log := s.logger.With("request_id", requestID, "filename", req.Filename)

	documentType, schema, err := template.Classify(req.Filename)
	if err != nil {
		return nil, err
	}
	log.Debug("classified document", "document_type", documentType)

	model, err := s.resolveModel(req.Model)
	if err != nil {
		return nil, err
	}

	maxPages := req.MaxPages
	if maxPages == 0 {
		maxPages = s.maxPages
	}

	images, err := raster.Render(req.PDF, maxPages)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, ErrNoRenderedPages
	}
	log.Debug("rasterized document", "pages", len(images))

	instruction, err := prompt.Build(documentType, schema)
	if err != nil {
		return nil, err
	}

	imageData := make([][]byte, len(images))
	for i, img := range images {
		imageData[i] = img.Data
	}

	result, err := s.client.Complete(ctx, &providers.VisionRequest{
		Model:     model,
		System:    systemPrompt,
		Prompt:    instruction,
		Images:    imageData,
		RequestID: requestID,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("model responded", "model", result.ModelUsed, "total_tokens", result.TotalTokens)

	parsed, err := Parse(result.Text)
	if err != nil {
		return nil, err
	}

	if s.validate {
		if err := template.ValidateShape(schema, parsed); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

// resolveModel maps the "default" sentinel to the configured default and
// validates the result against the allow-list.
func (s *Service) resolveModel(alias string) (string, error) {
	resolved := alias
	if resolved == "" || resolved == "default" {
		resolved = s.defaultModel
	}

	for _, m := range AllowedModels {
		if resolved == m {
			return resolved, nil
		}
	}
	return "", fmt.Errorf("%w %q; supported values: %s",
		ErrUnsupportedModel, alias, strings.Join(AllowedModels, ", "))
}
