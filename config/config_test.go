package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Render.DPI != 300 {
		t.Errorf("expected DPI=300, got %d", cfg.Render.DPI)
	}
	if cfg.OCR.Provider != "vision" {
		t.Errorf("expected Provider=vision, got %s", cfg.OCR.Provider)
	}
	if cfg.OCR.APIKeyEnv != "VISION_API_KEY" {
		t.Errorf("expected APIKeyEnv=VISION_API_KEY, got %s", cfg.OCR.APIKeyEnv)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Scan.Workers)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected Format=text, got %s", cfg.Output.Format)
	}
	if cfg.OCR.Timeout() != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", cfg.OCR.Timeout())
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partscan.yaml")

	content := `
render:
  dpi: 400
  keep_tiff: false
ocr:
  provider: gemini
  languages: [eng, deu]
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Render.DPI != 400 {
		t.Errorf("expected DPI=400, got %d", cfg.Render.DPI)
	}
	if cfg.Render.KeepTIFF {
		t.Errorf("expected KeepTIFF=false")
	}
	if cfg.Render.Tool != "pdftoppm" {
		t.Errorf("expected default tool to survive, got %s", cfg.Render.Tool)
	}
	if cfg.OCR.Provider != "gemini" {
		t.Errorf("expected Provider=gemini, got %s", cfg.OCR.Provider)
	}
	if len(cfg.OCR.Languages) != 2 || cfg.OCR.Languages[1] != "deu" {
		t.Errorf("unexpected languages %v", cfg.OCR.Languages)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partscan.yaml")
	if err := os.WriteFile(configPath, []byte("render: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureDataDir(tmpDir); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, DataDirName, "config.yaml")

	content := `
scan:
  workers: 8
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Scan.Workers != 8 {
		t.Errorf("expected Workers=8, got %d", cfg.Scan.Workers)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partscan.yaml")
	cfg := DefaultConfig()
	cfg.Output.Format = "csv"

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Output.Format != "csv" {
		t.Errorf("expected Format=csv, got %s", loaded.Output.Format)
	}
}

func TestPaths(t *testing.T) {
	path := StoreDBPath("/home/user/manuals")
	expected := filepath.Join("/home/user/manuals", ".partscan", "results.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}

	cfg := DefaultConfig()
	if got := cfg.TIFFDir("/data"); got != filepath.Join("/data", ".partscan", "tiff") {
		t.Errorf("unexpected tiff dir %s", got)
	}
	cfg.Render.OutputDir = "/abs/out"
	if got := cfg.TIFFDir("/data"); got != "/abs/out" {
		t.Errorf("expected absolute dir to be kept, got %s", got)
	}
}
