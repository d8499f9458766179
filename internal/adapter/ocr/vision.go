package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"partscan/internal/domain"
	"partscan/internal/port"
)

// DefaultVisionEndpoint is the Google Cloud Vision annotate URL.
const DefaultVisionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// VisionEngine calls Google Cloud Vision DOCUMENT_TEXT_DETECTION over REST.
type VisionEngine struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

type visionRequest struct {
	Requests []visionImageRequest `json:"requests"`
}

type visionImageRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionResponse struct {
	Responses []visionAnnotation `json:"responses"`
	Error     *visionError       `json:"error,omitempty"`
}

type visionAnnotation struct {
	FullTextAnnotation *struct {
		Text string `json:"text"`
	} `json:"fullTextAnnotation,omitempty"`
	TextAnnotations []struct {
		Description string `json:"description"`
	} `json:"textAnnotations,omitempty"`
	Error *visionError `json:"error,omitempty"`
}

type visionError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewVisionEngine reads the API key from apiKeyEnv. An empty endpoint uses
// DefaultVisionEndpoint.
func NewVisionEngine(apiKeyEnv, endpoint string, timeout time.Duration) (*VisionEngine, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAPIKey, apiKeyEnv)
	}
	if endpoint == "" {
		endpoint = DefaultVisionEndpoint
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &VisionEngine{
		apiKey:   apiKey,
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (e *VisionEngine) Name() string { return "vision" }

// Recognize sends the page and returns the full text annotation.
func (e *VisionEngine) Recognize(ctx context.Context, img domain.PageImage) (domain.Recognition, error) {
	reqBody := visionRequest{
		Requests: []visionImageRequest{{
			Image:    visionImage{Content: base64.StdEncoding.EncodeToString(img.PNG)},
			Features: []visionFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
		}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return domain.Recognition{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	u, err := url.Parse(e.endpoint)
	if err != nil {
		return domain.Recognition{}, fmt.Errorf("invalid endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", e.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return domain.Recognition{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.Recognition{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Recognition{}, fmt.Errorf("failed to read response: %w", err)
	}

	var result visionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return domain.Recognition{}, fmt.Errorf("vision API error (status %d): %s", resp.StatusCode, string(respBody))
		}
		return domain.Recognition{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Error != nil {
		return domain.Recognition{}, fmt.Errorf("vision API error %d: %s", result.Error.Code, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Recognition{}, fmt.Errorf("vision API error (status %d)", resp.StatusCode)
	}

	if len(result.Responses) == 0 {
		return newRecognition(e.Name(), "", nil), nil
	}
	r := result.Responses[0]
	if r.Error != nil {
		return domain.Recognition{}, fmt.Errorf("vision API error %d: %s", r.Error.Code, r.Error.Message)
	}

	var text string
	if r.FullTextAnnotation != nil {
		text = r.FullTextAnnotation.Text
	}
	// the first annotation is the whole page; the rest are single words
	var words []string
	for i, a := range r.TextAnnotations {
		if i == 0 {
			continue
		}
		words = append(words, a.Description)
	}

	return newRecognition(e.Name(), text, words), nil
}

var _ port.OCREngine = (*VisionEngine)(nil)
