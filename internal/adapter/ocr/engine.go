package ocr

import (
	"context"
	"fmt"

	"partscan/config"
	"partscan/internal/domain"
	"partscan/internal/port"
)

// NewFromConfig builds the engine named by cfg.Provider.
func NewFromConfig(ctx context.Context, cfg config.OCRConfig) (port.OCREngine, error) {
	var (
		engine port.OCREngine
		err    error
	)
	switch cfg.Provider {
	case "vision", "":
		var e *VisionEngine
		e, err = NewVisionEngine(cfg.APIKeyEnv, cfg.Endpoint, cfg.Timeout())
		engine = e
	case "gemini":
		var e *GeminiEngine
		e, err = NewGeminiEngine(ctx, cfg.APIKeyEnv, cfg.Model)
		engine = e
	case "tesseract":
		var e *TesseractEngine
		e, err = NewTesseractEngine(cfg.Languages)
		engine = e
	case "static":
		// No service: every page reads as empty. Useful for checking rasterization alone.
		engine = NewStaticEngine(nil, domain.NoTextFound)
	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return engine, nil
}
