package assess

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/moderato-fm/songscreen/internal/model"
)

// Client is the minimal surface of the generative-language service the
// assessor needs. Tests substitute a fake.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// openAIClient adapts the chat-completions API to the Client interface
type openAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIClient creates the production client from the LLM configuration
func NewOpenAIClient(cfg model.LLMConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generative service API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &openAIClient{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Complete sends one chat completion request and returns the raw
// response text. Failures are mapped onto the model error taxonomy so
// the retry policy can tell transient from permanent.
func (c *openAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", mapAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", model.ErrSchema)
	}
	return resp.Choices[0].Message.Content, nil
}

// mapAPIError classifies service errors for the retry policy
func mapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return fmt.Errorf("%w: %v", model.ErrRateLimit, err)
		case apiErr.HTTPStatusCode >= 500:
			return fmt.Errorf("%w: %v", model.ErrNetwork, err)
		default:
			// 4xx means the request itself was rejected; retrying the
			// same content cannot help.
			return errContentRejected(err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: timeout: %v", model.ErrNetwork, err)
	}
	return fmt.Errorf("%w: %v", model.ErrNetwork, err)
}

// ErrContentRejected marks an explicit rejection by the service.
// Not retried: the same request would be rejected again.
var ErrContentRejected = errors.New("content rejected by service")

func errContentRejected(err error) error {
	return fmt.Errorf("%w: %v", ErrContentRejected, err)
}
