package providers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a VisionClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailErr      error // Returned when ShouldFail is set; defaults to a generic error
	ResponseText string

	// State
	callCount atomic.Int64

	mu          sync.Mutex
	lastRequest *VisionRequest
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "{}",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Calls returns how many requests reached the client.
func (c *MockClient) Calls() int64 {
	return c.callCount.Load()
}

// LastRequest returns the most recent request, or nil if none arrived.
func (c *MockClient) LastRequest() *VisionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRequest
}

// Complete records the request and returns the configured response.
func (c *MockClient) Complete(ctx context.Context, req *VisionRequest) (*VisionResult, error) {
	count := c.callCount.Add(1)

	c.mu.Lock()
	c.lastRequest = req
	c.mu.Unlock()

	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Latency):
		}
	}

	if c.ShouldFail {
		if c.FailErr != nil {
			return nil, c.FailErr
		}
		return nil, fmt.Errorf("mock client configured to fail")
	}

	return &VisionResult{
		Text:      c.ResponseText,
		ModelUsed: req.Model,
		RequestID: fmt.Sprintf("mock-%d", count),
	}, nil
}

// Verify interface
var _ VisionClient = (*MockClient)(nil)
