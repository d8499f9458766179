package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"partscan/internal/domain"
)

func newTestVisionEngine(t *testing.T, handler http.HandlerFunc) *VisionEngine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("PARTSCAN_VISION_KEY", "k123")
	e, err := NewVisionEngine("PARTSCAN_VISION_KEY", srv.URL+"/v1/images:annotate", 0)
	require.NoError(t, err)
	return e
}

func TestVisionEngine_Recognize(t *testing.T) {
	e := newTestVisionEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "k123", r.URL.Query().Get("key"))

		var req visionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Requests, 1)
		assert.Equal(t, "DOCUMENT_TEXT_DETECTION", req.Requests[0].Features[0].Type)
		img, err := base64.StdEncoding.DecodeString(req.Requests[0].Image.Content)
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), img)

		w.Write([]byte(`{"responses":[{
			"fullTextAnnotation":{"text":"MCK67 ABJ7380\nSCREW"},
			"textAnnotations":[{"description":"MCK67 ABJ7380 SCREW"},{"description":"MCK67"},{"description":" "},{"description":"ABJ7380"}]
		}]}`))
	})

	rec, err := e.Recognize(context.Background(), domain.PageImage{PNG: []byte("png-bytes")})
	require.NoError(t, err)
	assert.Equal(t, "MCK67 ABJ7380\nSCREW", rec.Text)
	assert.Equal(t, []domain.Word{{Text: "MCK67"}, {Text: "ABJ7380"}}, rec.Words)
	assert.Equal(t, "vision", rec.Engine)
}

func TestVisionEngine_NoResponses(t *testing.T) {
	e := newTestVisionEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responses":[{}]}`))
	})

	rec, err := e.Recognize(context.Background(), domain.PageImage{})
	require.NoError(t, err)
	assert.Equal(t, domain.NoTextFound, rec.Text)
}

func TestVisionEngine_APIError(t *testing.T) {
	e := newTestVisionEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key not valid"}}`))
	})

	_, err := e.Recognize(context.Background(), domain.PageImage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestVisionEngine_PerImageError(t *testing.T) {
	e := newTestVisionEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responses":[{"error":{"code":3,"message":"Bad image data."}}]}`))
	})

	_, err := e.Recognize(context.Background(), domain.PageImage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad image data.")
}
