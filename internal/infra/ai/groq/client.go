package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	domai "github.com/bryanwahyu/leafscan/internal/domain/ai"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "meta-llama/llama-4-scout-17b-16e-instruct"
)

type Client struct {
	*openai.Client
	Model string
}

// NewClient talks to Groq's OpenAI-compatible endpoint. An empty baseURL
// selects the Groq default; any OpenAI-compatible host works.
func NewClient(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

// Analyze sends the instruction plus the image as a vision chat message and
// returns the raw reply text untouched. Parsing is the normalizer's job.
func (c *Client) Analyze(ctx context.Context, req domai.Request) (string, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: req.Instruction,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/jpeg;base64," + req.ImageB64,
						},
					},
				},
			},
		},
	}

	resp, err := c.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
				return "", domai.ErrQuotaExceeded
			}
			return "", &domai.ServiceError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", &domai.ServiceError{StatusCode: http.StatusOK, Message: "empty choices in completion"}
	}

	return resp.Choices[0].Message.Content, nil
}
