package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type AnthropicClient struct {
	client *anthropic.Client
	models Models
}

func NewAnthropicClient(apiKey string, models Models) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		models: models,
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	// The Messages API has no strict-JSON response mode; report the
	// capability gap so the caller can fall back to a plain request.
	if req.JSONMode {
		return "", ErrJSONModeUnsupported
	}

	content := []anthropic.MessageContent{
		anthropic.NewTextMessageContent(req.Prompt),
	}
	if req.ImageBase64 != "" {
		content = append(content, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				"image/jpeg",
				req.ImageBase64,
			),
		))
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(c.models.ForTier(req.Tier)),
		System: req.System,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: content},
		},
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Content) > 0 && resp.Content[0].Text != nil {
		return *resp.Content[0].Text, nil
	}
	return "", fmt.Errorf("no response content")
}
