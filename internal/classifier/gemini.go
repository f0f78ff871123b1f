package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/agrisight/paddy/internal/domain"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Classify(ctx context.Context, image []byte, contentType string) (*domain.Diagnosis, error) {
	// genai wants the bare format, e.g. "jpeg", not "image/jpeg"
	format := strings.TrimPrefix(contentType, "image/")

	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.ImageData(format, image), genai.Text(diagnosisPrompt))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no response candidates", domain.ErrClassificationInvalidResponse)
	}
	txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("%w: non-text response part", domain.ErrClassificationInvalidResponse)
	}

	return parseDiagnosis(string(txt))
}
