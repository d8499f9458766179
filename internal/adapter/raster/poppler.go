package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
	"partscan/internal/domain"
	"partscan/internal/port"
)

// ErrToolNotFound is returned when the rasterizer binary is not on PATH.
var ErrToolNotFound = errors.New("rasterizer tool not found")

// PopplerRasterizer renders pages with poppler's pdftoppm and optionally keeps
// a TIFF copy of every page in OutputDir.
type PopplerRasterizer struct {
	tool      string
	outputDir string
	keepTIFF  bool
	logger    *zap.Logger
}

// NewPopplerRasterizer creates a rasterizer. An empty tool defaults to pdftoppm.
func NewPopplerRasterizer(tool, outputDir string, keepTIFF bool, logger *zap.Logger) *PopplerRasterizer {
	if tool == "" {
		tool = "pdftoppm"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PopplerRasterizer{
		tool:      tool,
		outputDir: outputDir,
		keepTIFF:  keepTIFF && outputDir != "",
		logger:    logger,
	}
}

// PageCount returns the number of pages in the PDF at path.
func (r *PopplerRasterizer) PageCount(path string) (int, error) {
	return PageCount(path)
}

// PageCount opens the PDF and reports its page count.
func PageCount(path string) (int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()
	return reader.NumPage(), nil
}

// Rasterize renders one zero-based page to PNG at dpi.
func (r *PopplerRasterizer) Rasterize(ctx context.Context, path string, index int, dpi int) (domain.PageImage, error) {
	if index < 0 {
		return domain.PageImage{}, fmt.Errorf("invalid page index: %d", index)
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	bin, err := exec.LookPath(r.tool)
	if err != nil {
		return domain.PageImage{}, fmt.Errorf("%w: %s", ErrToolNotFound, r.tool)
	}

	tmpDir, err := os.MkdirTemp("", "partscan-raster-*")
	if err != nil {
		return domain.PageImage{}, err
	}
	defer os.RemoveAll(tmpDir)

	page := strconv.Itoa(index + 1)
	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, bin,
		"-png",
		"-r", strconv.Itoa(dpi),
		"-f", page,
		"-l", page,
		"-singlefile",
		path, prefix,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return domain.PageImage{}, ctx.Err()
		}
		return domain.PageImage{}, fmt.Errorf("%s page %s: %w: %s", r.tool, page, err, strings.TrimSpace(stderr.String()))
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return domain.PageImage{}, fmt.Errorf("failed to read rendered page: %w", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.PageImage{}, fmt.Errorf("failed to decode rendered page: %w", err)
	}

	img := domain.PageImage{
		Index:  index,
		DPI:    dpi,
		Width:  cfg.Width,
		Height: cfg.Height,
		PNG:    data,
	}

	if r.keepTIFF {
		img.TIFFPath = filepath.Join(r.outputDir, TIFFName(path, index))
		if err := WriteTIFF(img.TIFFPath, data); err != nil {
			return domain.PageImage{}, err
		}
	}

	r.logger.Debug("page rasterized",
		zap.String("path", path),
		zap.Int("page", index+1),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
	)

	return img, nil
}

var _ port.Rasterizer = (*PopplerRasterizer)(nil)
