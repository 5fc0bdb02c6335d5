package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	OpenAIName    = "openai"
	OpenAIBaseURL = "https://api.openai.com/v1"

	// OpenAIKeyEnv is the environment variable the default configuration
	// reads the credential from.
	OpenAIKeyEnv = "OPENAI_API_KEY"
)

var (
	// ErrCredentialMissing indicates no API key is configured. Raised
	// before any network attempt.
	ErrCredentialMissing = errors.New("no OpenAI API key configured")

	// ErrUpstreamRejected indicates the model service refused the request
	// (authorization, billing, quota).
	ErrUpstreamRejected = errors.New("model service rejected the request")
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string        // Optional (tests)
	Timeout    time.Duration // Transport timeout; 0 uses the default
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements VisionClient against the OpenAI Responses API.
// One client instance is safe for concurrent use; every call is stateless.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenAIBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  httpClient,
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Complete sends one vision request. Sampling is deterministic (temperature
// zero) so repeated calls on identical input are reproducible up to
// model-side nondeterminism. The client never retries: any failure surfaces
// once.
func (c *OpenAIClient) Complete(ctx context.Context, req *VisionRequest) (*VisionResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: set %s in your environment", ErrCredentialMissing, OpenAIKeyEnv)
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	userContent := make([]contentItem, 0, len(req.Images)+1)
	userContent = append(userContent, contentItem{Type: "input_text", Text: req.Prompt})
	for _, img := range req.Images {
		userContent = append(userContent, contentItem{
			Type:     "input_image",
			ImageURL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img),
		})
	}

	oaReq := responsesRequest{
		Model:       req.Model,
		Temperature: 0,
		Input: []inputMessage{
			{Role: "system", Content: []contentItem{{Type: "input_text", Text: req.System}}},
			{Role: "user", Content: userContent},
		},
	}

	oaResp, err := c.doRequest(ctx, "/responses", oaReq)
	if err != nil {
		return nil, err
	}

	if oaResp.Error != nil {
		return nil, fmt.Errorf("model service error (%s): %s", oaResp.Error.Type, oaResp.Error.Message)
	}

	return &VisionResult{
		Text:         extractText(oaResp),
		ModelUsed:    oaResp.Model,
		InputTokens:  oaResp.Usage.InputTokens,
		OutputTokens: oaResp.Usage.OutputTokens,
		TotalTokens:  oaResp.Usage.TotalTokens,
		RequestID:    requestID,
	}, nil
}

// doRequest makes a single HTTP request to the Responses API.
func (c *OpenAIClient) doRequest(ctx context.Context, path string, body responsesRequest) (*responsesResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d): %s; check that your API key is valid and the account has billing enabled",
			ErrUpstreamRejected, resp.StatusCode, string(respBody))
	default:
		return nil, fmt.Errorf("OpenAI error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var oaResp responsesResponse
	if err := json.Unmarshal(respBody, &oaResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &oaResp, nil
}

// extractText pulls the model's text out of a Responses payload. Two shapes
// occur: a convenience output_text field, and a list of output items whose
// textual content blocks are concatenated in order. An empty return means
// the response carried no text.
func extractText(resp *responsesResponse) string {
	if resp.OutputText != "" {
		return resp.OutputText
	}

	var sb bytes.Buffer
	for _, item := range resp.Output {
		for _, block := range item.Content {
			switch block.Type {
			case "output_text", "text":
				sb.WriteString(block.Text)
			}
		}
	}
	return sb.String()
}

// OpenAI Responses API types

type responsesRequest struct {
	Model       string         `json:"model"`
	Temperature float64        `json:"temperature"`
	Input       []inputMessage `json:"input"`
}

type inputMessage struct {
	Role    string        `json:"role"`
	Content []contentItem `json:"content"`
}

type contentItem struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type responsesResponse struct {
	ID     string `json:"id"`
	Model  string `json:"model"`
	Status string `json:"status"`

	// OutputText is the convenience field; not every serialization carries
	// it, in which case Output holds the content blocks.
	OutputText string       `json:"output_text,omitempty"`
	Output     []outputItem `json:"output"`

	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`

	Error *responseError `json:"error,omitempty"`
}

type outputItem struct {
	Type    string        `json:"type"`
	Role    string        `json:"role,omitempty"`
	Content []outputBlock `json:"content"`
}

type outputBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type responseError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Verify interface
var _ VisionClient = (*OpenAIClient)(nil)
