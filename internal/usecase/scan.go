package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"partscan/internal/adapter/pagerange"
	"partscan/internal/domain"
	"partscan/internal/port"
)

// ScanUseCase turns PDF pages into part-number lists:
// rasterize, recognize, extract, store.
type ScanUseCase struct {
	rasterizer port.Rasterizer
	engine     port.OCREngine
	extractor  port.PartExtractor
	store      port.ResultStore
	logger     *zap.Logger
	workers    int
	dpi        int
}

// NewScanUseCase creates a scan use case. workers <= 0 runs pages one at a time.
func NewScanUseCase(
	rasterizer port.Rasterizer,
	engine port.OCREngine,
	extractor port.PartExtractor,
	store port.ResultStore,
	logger *zap.Logger,
	workers int,
	dpi int,
) *ScanUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = 1
	}
	return &ScanUseCase{
		rasterizer: rasterizer,
		engine:     engine,
		extractor:  extractor,
		store:      store,
		logger:     logger,
		workers:    workers,
		dpi:        dpi,
	}
}

// ScanOptions controls a single scan.
type ScanOptions struct {
	// Pages is a page selection such as "1,2,5-7". Empty selects every page.
	Pages string
	// Force re-scans pages that already have stored results.
	Force bool
	// Progress, when set, is called after each page of doc finishes.
	Progress func(doc string, done, total int)
}

// ScanResult is the outcome of scanning one document.
type ScanResult struct {
	Doc   domain.Document
	Run   domain.ScanRun
	Pages []domain.PageResult
}

// Reused counts pages served from the store instead of being scanned.
func (r *ScanResult) Reused() int {
	n := 0
	for _, p := range r.Pages {
		if p.Reused {
			n++
		}
	}
	return n
}

type pageTask struct {
	ctx   context.Context
	path  string
	docID string
	index int
	slot  int
}

type pageOutcome struct {
	result domain.PageResult
	err    error
}

// Scan processes the selected pages of the PDF at path.
func (u *ScanUseCase) Scan(ctx context.Context, path string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	docID, err := DocumentID(path)
	if err != nil {
		return nil, err
	}

	pageCount, err := u.rasterizer.PageCount(path)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	indices := pagerange.All(pageCount)
	if strings.TrimSpace(opts.Pages) != "" {
		indices, err = pagerange.Parse(opts.Pages, pageCount)
		if err != nil {
			return nil, err
		}
	}

	doc := domain.Document{
		ID:        docID,
		Path:      path,
		PageCount: pageCount,
		ModTime:   info.ModTime(),
	}
	if err := u.store.PutDoc(doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	run := domain.ScanRun{
		ID:        uuid.NewString(),
		DocID:     docID,
		Path:      path,
		Pages:     indices,
		Engine:    u.engine.Name(),
		StartedAt: time.Now(),
	}

	results := make([]domain.PageResult, 0, len(indices))
	var pending []int
	for _, index := range indices {
		if !opts.Force {
			if stored, err := u.store.GetPage(docID, index+1); err == nil {
				stored.Reused = true
				results = append(results, stored)
				continue
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("failed to read stored page: %w", err)
			}
		}
		pending = append(pending, index)
	}

	u.logger.Info("scanning document",
		zap.String("doc", path),
		zap.Int("pages", len(indices)),
		zap.Int("reused", len(results)),
		zap.String("engine", run.Engine),
	)

	outcomes, err := u.runPages(ctx, path, docID, pending, opts.Progress)
	if err != nil {
		return nil, err
	}

	for i, out := range outcomes {
		if out.err != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("page %d: %v", pending[i]+1, out.err))
			continue
		}
		if err := u.store.PutPage(out.result); err != nil {
			return nil, fmt.Errorf("failed to store page %d: %w", out.result.Page, err)
		}
		results = append(results, out.result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Page < results[j].Page })

	run.FinishedAt = time.Now()
	if err := u.store.PutRun(run); err != nil {
		return nil, fmt.Errorf("failed to store run: %w", err)
	}

	u.logger.Info("scan finished",
		zap.String("doc", path),
		zap.Int("scanned", len(pending)-len(run.Errors)),
		zap.Int("errors", len(run.Errors)),
		zap.Duration("duration", run.FinishedAt.Sub(run.StartedAt)),
	)

	return &ScanResult{Doc: doc, Run: run, Pages: results}, nil
}

// ScanFiles scans each file in turn. A file that fails is reported in the
// returned error map and does not stop the batch.
func (u *ScanUseCase) ScanFiles(ctx context.Context, files []port.FileInfo, opts ScanOptions) ([]*ScanResult, map[string]error, error) {
	var results []*ScanResult
	failed := make(map[string]error)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, failed, err
		}
		res, err := u.Scan(ctx, f.Path, opts)
		if err != nil {
			if ctx.Err() != nil {
				return results, failed, ctx.Err()
			}
			u.logger.Warn("scan failed", zap.String("doc", f.Path), zap.Error(err))
			failed[f.Path] = err
			continue
		}
		results = append(results, res)
	}
	return results, failed, nil
}

// Stored returns the persisted results for the PDF at path without scanning.
func (u *ScanUseCase) Stored(path string) (*ScanResult, error) {
	docID, err := DocumentID(path)
	if err != nil {
		return nil, err
	}
	doc, err := u.store.GetDoc(docID)
	if err != nil {
		return nil, err
	}
	return u.storedDoc(doc)
}

// StoredAll returns the persisted results of every known document.
func (u *ScanUseCase) StoredAll() ([]*ScanResult, error) {
	docs, err := u.store.ListDocs()
	if err != nil {
		return nil, err
	}
	results := make([]*ScanResult, 0, len(docs))
	for _, doc := range docs {
		res, err := u.storedDoc(doc)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Forget drops the stored document, pages and runs for the PDF at path so
// the next scan starts from scratch.
func (u *ScanUseCase) Forget(path string) (domain.Document, error) {
	docID, err := DocumentID(path)
	if err != nil {
		return domain.Document{}, err
	}
	doc, err := u.store.GetDoc(docID)
	if err != nil {
		return domain.Document{}, err
	}
	if err := u.store.DeleteDoc(docID); err != nil {
		return domain.Document{}, fmt.Errorf("failed to delete %s: %w", path, err)
	}
	u.logger.Info("forgot document", zap.String("doc", path), zap.String("id", docID))
	return doc, nil
}

func (u *ScanUseCase) storedDoc(doc domain.Document) (*ScanResult, error) {
	pages, err := u.store.GetPagesByDoc(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}
	for i := range pages {
		pages[i].Reused = true
	}
	res := &ScanResult{Doc: doc, Pages: pages}
	runs, err := u.store.ListRuns(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}
	if len(runs) > 0 {
		res.Run = runs[len(runs)-1]
	}
	return res, nil
}

func (u *ScanUseCase) runPages(ctx context.Context, path, docID string, indices []int, progress func(doc string, done, total int)) ([]pageOutcome, error) {
	outcomes := make([]pageOutcome, len(indices))
	if len(indices) == 0 {
		return outcomes, nil
	}

	var (
		wg   sync.WaitGroup
		done atomic.Int64
		mu   sync.Mutex
	)
	pool, err := ants.NewPoolWithFunc(min(u.workers, len(indices)), func(args any) {
		task, ok := args.(*pageTask)
		if !ok {
			panic("page task type error")
		}
		defer wg.Done()
		result, err := u.scanPage(task.ctx, task.path, task.docID, task.index)
		outcomes[task.slot] = pageOutcome{result: result, err: err}
		if progress != nil {
			n := int(done.Add(1))
			mu.Lock()
			progress(path, n, len(indices))
			mu.Unlock()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create page pool: %w", err)
	}
	defer pool.Release()

	for slot, index := range indices {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		task := &pageTask{ctx: ctx, path: path, docID: docID, index: index, slot: slot}
		if err := pool.Invoke(task); err != nil {
			wg.Done()
			outcomes[slot] = pageOutcome{err: fmt.Errorf("submit page: %w", err)}
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// scanPage rasterizes, recognizes and extracts one page. An OCR failure is
// returned as the page's error so the page is left unstored and the next
// scan retries it.
func (u *ScanUseCase) scanPage(ctx context.Context, path, docID string, index int) (domain.PageResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PageResult{}, err
	}
	start := time.Now()

	img, err := u.rasterizer.Rasterize(ctx, path, index, u.dpi)
	if err != nil {
		return domain.PageResult{}, fmt.Errorf("rasterize: %w", err)
	}

	rec, err := u.engine.Recognize(ctx, img)
	if err != nil {
		if ctx.Err() != nil {
			return domain.PageResult{}, ctx.Err()
		}
		u.logger.Warn("ocr failed",
			zap.String("doc", path),
			zap.Int("page", img.Number()),
			zap.String("engine", u.engine.Name()),
			zap.Error(err),
		)
		return domain.PageResult{}, fmt.Errorf("ocr: %w", err)
	}

	parts := u.extractor.Extract(rec.Text)

	u.logger.Debug("page scanned",
		zap.String("doc", path),
		zap.Int("page", img.Number()),
		zap.Int("parts", len(parts)),
		zap.Duration("duration", time.Since(start)),
	)

	return domain.PageResult{
		DocID:     docID,
		Page:      index + 1,
		Parts:     parts,
		TIFFPath:  img.TIFFPath,
		Engine:    rec.Engine,
		TextLen:   len(rec.Text),
		ScannedAt: time.Now(),
	}, nil
}

// DocumentID derives a stable ID from the file's content so a renamed or
// copied PDF maps to the same stored results.
func DocumentID(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)[:8]), nil
}
