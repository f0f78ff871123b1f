package classifier

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/agrisight/paddy/internal/domain"
)

type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (c *ClaudeClient) Classify(ctx context.Context, image []byte, contentType string) (*domain.Diagnosis, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(
						anthropic.NewMessageContentSource(anthropic.MessagesContentSourceTypeBase64, contentType, image),
					),
					anthropic.NewTextMessageContent(diagnosisPrompt),
				},
			},
		},
		MaxTokens: 1000,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return nil, fmt.Errorf("%w: no response content", domain.ErrClassificationInvalidResponse)
	}

	return parseDiagnosis(*resp.Content[0].Text)
}
