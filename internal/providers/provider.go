// Package providers contains vision-model clients used by the extraction
// pipeline.
package providers

import (
	"context"
)

// VisionClient is the interface for sending a prompt plus page images to a
// vision-capable model and receiving its raw text output.
type VisionClient interface {
	// Complete sends a single vision request and returns the model's raw
	// text, uninterpreted. JSON parsing is the caller's concern.
	Complete(ctx context.Context, req *VisionRequest) (*VisionResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// VisionRequest is one prompt-plus-images call.
type VisionRequest struct {
	// Model is the fully resolved model name; alias resolution happens
	// upstream.
	Model string

	// System frames the assistant; sent as the system turn.
	System string

	// Prompt is the user instruction text.
	Prompt string

	// Images are JPEG-encoded page images, attached to the user turn in
	// order.
	Images [][]byte

	// RequestID tags the call for logging. Generated if empty.
	RequestID string
}

// VisionResult is the raw outcome of a vision call.
type VisionResult struct {
	// Text is the model's textual output exactly as received. May be empty
	// when the provider returned no text content.
	Text string

	// ModelUsed is the model name the provider reports having served.
	ModelUsed string

	// Token counts, when the provider reports them.
	InputTokens  int
	OutputTokens int
	TotalTokens  int

	// RequestID echoes the request's ID.
	RequestID string
}
