package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"partscan/config"
	"partscan/internal/domain"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "EAD123 N105", CleanText("  ＥＡＤ１２３ N105\n"))
	assert.Equal(t, "", CleanText(" \t\n"))
}

func TestNewRecognition_EmptyBecomesSentinel(t *testing.T) {
	rec := newRecognition("x", "   ", []string{"", " "})
	assert.Equal(t, domain.NoTextFound, rec.Text)
	assert.Empty(t, rec.Words)
	assert.Equal(t, "x", rec.Engine)
}

func TestStaticEngine(t *testing.T) {
	e := NewStaticEngine(map[int]string{0: "MCK67", 2: ""}, "fallback")

	rec, err := e.Recognize(context.Background(), domain.PageImage{Index: 0})
	require.NoError(t, err)
	assert.Equal(t, "MCK67", rec.Text)

	rec, err = e.Recognize(context.Background(), domain.PageImage{Index: 1})
	require.NoError(t, err)
	assert.Equal(t, "fallback", rec.Text)

	rec, err = e.Recognize(context.Background(), domain.PageImage{Index: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.NoTextFound, rec.Text)
}

func TestStaticEngine_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStaticEngine(nil, "").Recognize(ctx, domain.PageImage{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFromConfig(t *testing.T) {
	t.Setenv("PARTSCAN_TEST_KEY", "secret")

	engine, err := NewFromConfig(context.Background(), config.OCRConfig{Provider: "vision", APIKeyEnv: "PARTSCAN_TEST_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "vision", engine.Name())

	_, err = NewFromConfig(context.Background(), config.OCRConfig{Provider: "vision", APIKeyEnv: "PARTSCAN_UNSET_KEY"})
	assert.True(t, errors.Is(err, ErrNoAPIKey))

	_, err = NewFromConfig(context.Background(), config.OCRConfig{Provider: "gemini", APIKeyEnv: "PARTSCAN_UNSET_KEY"})
	assert.True(t, errors.Is(err, ErrNoAPIKey))

	engine, err = NewFromConfig(context.Background(), config.OCRConfig{Provider: "static"})
	require.NoError(t, err)
	assert.Equal(t, "static", engine.Name())

	_, err = NewFromConfig(context.Background(), config.OCRConfig{Provider: "paper"})
	assert.Error(t, err)
}
