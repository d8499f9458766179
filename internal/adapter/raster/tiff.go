package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// DefaultDPI is the resolution pages are rendered at unless configured.
const DefaultDPI = 300

// TIFFName returns "<stem>_p<N>.tiff" for the zero-based page index.
func TIFFName(pdfPath string, index int) string {
	base := filepath.Base(pdfPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_p%d.tiff", stem, index+1)
}

// EncodeTIFF converts an image to deflate-compressed TIFF bytes.
func EncodeTIFF(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return nil, fmt.Errorf("failed to encode tiff: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTIFF decodes PNG data and writes it as a TIFF file, creating parent directories.
func WriteTIFF(path string, pngData []byte) error {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return fmt.Errorf("failed to decode png: %w", err)
	}
	data, err := EncodeTIFF(img)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
