package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
	"partscan/internal/domain"
	"partscan/internal/port"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

const geminiPrompt = `Transcribe every piece of text visible in this technical drawing exactly as printed,
including part numbers and reference codes. Output only the transcribed text,
one label per line, with no commentary. If there is no text, output nothing.`

// contentGenerator is the subset of *genai.Models the engine needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiEngine transcribes pages with a Gemini multimodal model.
type GeminiEngine struct {
	models contentGenerator
	model  string
}

// NewGeminiEngine creates a client for the Gemini API using the key in apiKeyEnv.
func NewGeminiEngine(ctx context.Context, apiKeyEnv, model string) (*GeminiEngine, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAPIKey, apiKeyEnv)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if client.Models == nil {
		return nil, fmt.Errorf("gemini client is missing the Models service")
	}
	return newGeminiEngine(client.Models, model), nil
}

func newGeminiEngine(models contentGenerator, model string) *GeminiEngine {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiEngine{models: models, model: model}
}

func (e *GeminiEngine) Name() string { return "gemini" }

func (e *GeminiEngine) Recognize(ctx context.Context, img domain.PageImage) (domain.Recognition, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: geminiPrompt},
				genai.NewPartFromBytes(img.PNG, "image/png"),
			},
		},
	}

	resp, err := e.models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return domain.Recognition{}, fmt.Errorf("failed to generate content: %w", err)
	}

	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}

	return newRecognition(e.Name(), sb.String(), strings.Fields(sb.String())), nil
}

var _ port.OCREngine = (*GeminiEngine)(nil)
