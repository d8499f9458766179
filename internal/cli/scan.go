package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"partscan/internal/adapter/fs"
	"partscan/internal/adapter/ocr"
	"partscan/internal/adapter/raster"
	"partscan/internal/usecase"
)

var (
	scanPages      string
	scanForce      bool
	scanNoProgress bool
	scanWorkers    int
)

var scanCmd = &cobra.Command{
	Use:   "scan <file.pdf|dir>",
	Short: "Scan PDF pages for part numbers",
	Long: `Rasterize the selected pages, run OCR on each one and list the part
numbers found per page. Results are stored in .partscan/results.db and reused
on the next scan of the same file unless --force is given.

Examples:
  partscan scan manual.pdf                  # All pages
  partscan scan manual.pdf --pages "1,5-7"  # Selected pages (1-based)
  partscan scan ./catalogs -f csv           # Every PDF under a directory`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanPages, "pages", "p", "", `pages to scan, e.g. "1,2,5-7" (default all)`)
	scanCmd.Flags().BoolVar(&scanForce, "force", false, "re-scan pages that already have stored results")
	scanCmd.Flags().BoolVar(&scanNoProgress, "no-progress", false, "disable the progress bar")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "pages scanned in parallel (default from config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	log := GetLogger()
	ctx := cmd.Context()
	status := cmd.ErrOrStderr()

	target, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	walker := fs.NewWalker(cfg.Scan.Includes, cfg.Scan.Excludes)
	files, err := walker.Walk(target)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found under %s", target)
	}

	st, err := openStore(GetRootDir(), cfg, status)
	if err != nil {
		return err
	}
	defer st.Close()

	engine, err := ocr.NewFromConfig(ctx, cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to create OCR engine: %w", err)
	}

	rasterizer := raster.NewPopplerRasterizer(cfg.Render.Tool, cfg.TIFFDir(GetRootDir()), cfg.Render.KeepTIFF, log)

	workers := cfg.Scan.Workers
	if scanWorkers > 0 {
		workers = scanWorkers
	}
	scanUC := usecase.NewScanUseCase(rasterizer, engine, newExtractor(), st, log, workers, cfg.Render.DPI)

	opts := usecase.ScanOptions{
		Pages: scanPages,
		Force: scanForce || cfg.Scan.Force,
	}

	if !scanNoProgress {
		opts.Progress = newProgress(status)
	}

	start := time.Now()
	results, failed, err := scanUC.ScanFiles(ctx, files, opts)
	if err != nil {
		return err
	}

	if err := usecase.RenderResults(cmd.OutOrStdout(), cfg.Output.Format, results); err != nil {
		return err
	}

	scanned, reused, pageErrs := 0, 0, 0
	for _, r := range results {
		reused += r.Reused()
		scanned += len(r.Pages) - r.Reused()
		pageErrs += len(r.Run.Errors)
	}
	fmt.Fprintf(status, "\nScan complete in %s:\n", formatDuration(time.Since(start)))
	fmt.Fprintf(status, "  Documents:     %d\n", len(results))
	fmt.Fprintf(status, "  Pages scanned: %d\n", scanned)
	fmt.Fprintf(status, "  Pages reused:  %d (use --force to re-scan)\n", reused)
	if pageErrs > 0 {
		fmt.Fprintf(status, "  Page errors:   %d\n", pageErrs)
	}
	if len(failed) > 0 {
		fmt.Fprintf(status, "\nFailed documents:\n")
		for path, err := range failed {
			fmt.Fprintf(status, "  - %s: %v\n", path, err)
		}
	}
	if len(results) == 0 {
		return fmt.Errorf("no documents scanned")
	}
	return nil
}

// newProgress returns a callback drawing one progress bar per document, with
// an ETA computed from the pages finished so far.
func newProgress(w io.Writer) func(doc string, done, total int) {
	var (
		mu        sync.Mutex
		bar       *progressbar.ProgressBar
		current   string
		startTime time.Time
	)

	return func(doc string, done, total int) {
		mu.Lock()
		defer mu.Unlock()

		if bar == nil || doc != current {
			current = doc
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]"+filepath.Base(doc)+"[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(w)
				}),
			)
		}

		bar.Set(done)

		if done > 0 && done < total {
			rate := float64(done) / time.Since(startTime).Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-done)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]%s[reset] ETA: %s", filepath.Base(doc), formatDuration(eta)))
			}
		}
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
