package llm

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GoogleAI talks to the Gemini API with an API key instead of GCP credentials.
type GoogleAI struct {
	client llms.Model
}

func NewGoogleAI(ctx context.Context, apiKey, modelName string) (*GoogleAI, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is not set")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	c, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelName),
	)
	if err != nil {
		return nil, err
	}
	return &GoogleAI{client: c}, nil
}

func (g *GoogleAI) Close() error { return nil }

func (g *GoogleAI) GenerateJSON(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, user),
		},
		llms.WithJSONMode(),
		llms.WithTemperature(0.1),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", errors.New("googleai: empty response")
	}
	return resp.Choices[0].Content, nil
}
