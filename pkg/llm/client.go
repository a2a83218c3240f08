package llm

import (
	"context"
	"fmt"
)

// Client is the chat-completion endpoint contract.
type Client interface {
	// Chat makes a single chat-completion call.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Provider returns the provider name.
	Provider() string
}

// Options configures client construction.
type Options struct {
	Provider string // "openai" or "anthropic"
	APIKey   string
	BaseURL  string // optional; OpenAI-compatible gateways such as OpenRouter
}

// NewClient creates a client for the configured provider.
func NewClient(opts Options) (Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	switch opts.Provider {
	case "openai":
		return NewOpenAIClient(opts.APIKey, opts.BaseURL), nil
	case "anthropic":
		return NewAnthropicClient(opts.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", opts.Provider)
	}
}
