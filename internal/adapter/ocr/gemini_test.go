package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
	"partscan/internal/domain"
)

type stubGenerator struct {
	model    string
	contents []*genai.Content
	resp     *genai.GenerateContentResponse
	err      error
}

func (s *stubGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.model = model
	s.contents = contents
	return s.resp, s.err
}

func TestGeminiEngine_Recognize(t *testing.T) {
	stub := &stubGenerator{
		resp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: "MCK67\n"}, {Text: "ABJ7380"}}},
			}},
		},
	}
	e := newGeminiEngine(stub, "")

	rec, err := e.Recognize(context.Background(), domain.PageImage{PNG: []byte{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, "MCK67\nABJ7380", rec.Text)
	assert.Len(t, rec.Words, 2)
	assert.Equal(t, DefaultGeminiModel, stub.model)

	require.Len(t, stub.contents, 1)
	parts := stub.contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte{1, 2, 3}, parts[1].InlineData.Data)
}

func TestGeminiEngine_EmptyResponse(t *testing.T) {
	e := newGeminiEngine(&stubGenerator{resp: &genai.GenerateContentResponse{}}, "gemini-test")

	rec, err := e.Recognize(context.Background(), domain.PageImage{})
	require.NoError(t, err)
	assert.Equal(t, domain.NoTextFound, rec.Text)
}

func TestGeminiEngine_Error(t *testing.T) {
	e := newGeminiEngine(&stubGenerator{err: errors.New("quota")}, "gemini-test")

	_, err := e.Recognize(context.Background(), domain.PageImage{})
	assert.Error(t, err)
}
