package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the partscan tool. The extraction rules
// themselves (stopwords, commonness threshold) are fixed in the analyzer and
// are not configurable here.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	OCR     OCRConfig     `yaml:"ocr"`
	Scan    ScanConfig    `yaml:"scan"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds page rasterization configuration.
type RenderConfig struct {
	DPI       int    `yaml:"dpi"`
	Tool      string `yaml:"tool"`       // pdftoppm binary name or path
	OutputDir string `yaml:"output_dir"` // where page TIFFs are written, relative to the root dir
	KeepTIFF  bool   `yaml:"keep_tiff"`
}

// OCRConfig holds OCR engine configuration.
type OCRConfig struct {
	Provider       string   `yaml:"provider"`    // "vision", "gemini", "tesseract"
	APIKeyEnv      string   `yaml:"api_key_env"` // Environment variable for API key
	Endpoint       string   `yaml:"endpoint"`
	Model          string   `yaml:"model"`
	Languages      []string `yaml:"languages"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// ScanConfig holds scan pipeline configuration.
type ScanConfig struct {
	Workers  int      `yaml:"workers"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	Force    bool     `yaml:"force"`
}

// OutputConfig holds result rendering configuration.
type OutputConfig struct {
	Format string `yaml:"format"` // "text", "json", "csv"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			DPI:       300,
			Tool:      "pdftoppm",
			OutputDir: filepath.Join(".partscan", "tiff"),
			KeepTIFF:  true,
		},
		OCR: OCRConfig{
			Provider:       "vision",
			APIKeyEnv:      "VISION_API_KEY",
			Languages:      []string{"eng"},
			TimeoutSeconds: 60,
		},
		Scan: ScanConfig{
			Workers:  4,
			Includes: []string{"**/*.pdf", "**/*.PDF"},
			Excludes: []string{"**/.partscan/**", "**/.git/**"},
		},
		Output: OutputConfig{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Timeout returns the OCR request timeout.
func (c OCRConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for partscan.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "partscan.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, DataDirName, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DataDirName is the per-project directory holding the result store.
const DataDirName = ".partscan"

// StoreDBPath returns the path to the result database.
func StoreDBPath(dir string) string {
	return filepath.Join(dir, DataDirName, "results.db")
}

// TIFFDir resolves the configured TIFF output directory against dir.
func (c *Config) TIFFDir(dir string) string {
	if filepath.IsAbs(c.Render.OutputDir) {
		return c.Render.OutputDir
	}
	return filepath.Join(dir, c.Render.OutputDir)
}

// EnsureDataDir ensures the .partscan directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, DataDirName), 0755)
}
