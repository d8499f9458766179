package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
	"partscan/internal/domain"
	"partscan/internal/port"
)

var (
	bucketDocs  = []byte("docs")
	bucketPages = []byte("pages")
	bucketRuns  = []byte("runs")
	bucketStats = []byte("stats")
)

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketDocs, bucketPages, bucketRuns, bucketStats}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type docMeta struct {
	Path      string `json:"path"`
	PageCount int    `json:"page_count"`
	ModTime   int64  `json:"mod_time"`
}

type pageRecord struct {
	Parts     []string `json:"parts"`
	TIFFPath  string   `json:"tiff_path,omitempty"`
	Engine    string   `json:"engine"`
	TextLen   int      `json:"text_len"`
	ScannedAt int64    `json:"scanned_at"`
}

func pageKey(docID string, page int) []byte {
	return []byte(fmt.Sprintf("%s/%06d", docID, page))
}

func docPrefix(docID string) []byte {
	return []byte(docID + "/")
}

func runKey(run domain.ScanRun) []byte {
	return []byte(fmt.Sprintf("%s/%020d/%s", run.DocID, unixNano(run.StartedAt), run.ID))
}

func (s *BoltStore) PutDoc(doc domain.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := docMeta{
			Path:      doc.Path,
			PageCount: doc.PageCount,
			ModTime:   doc.ModTime.Unix(),
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketDocs).Put([]byte(doc.ID), data)
	})
}

func (s *BoltStore) GetDoc(id string) (domain.Document, error) {
	var doc domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		var meta docMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		doc = metaToDoc(id, meta)
		return nil
	})
	return doc, err
}

func metaToDoc(id string, meta docMeta) domain.Document {
	return domain.Document{
		ID:        id,
		Path:      meta.Path,
		PageCount: meta.PageCount,
		ModTime:   time.Unix(meta.ModTime, 0),
	}
}

func (s *BoltStore) ListDocs() ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var meta docMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			docs = append(docs, metaToDoc(string(k), meta))
			return nil
		})
	})
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, err
}

// DeleteDoc removes a document together with its pages and runs.
func (s *BoltStore) DeleteDoc(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketDocs).Delete([]byte(id)); err != nil {
			return err
		}
		for _, name := range [][]byte{bucketPages, bucketRuns} {
			if err := deletePrefix(tx.Bucket(name), docPrefix(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

func deletePrefix(b *bbolt.Bucket, prefix []byte) error {
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *BoltStore) PutPage(result domain.PageResult) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		rec := pageRecord{
			Parts:     result.Parts,
			TIFFPath:  result.TIFFPath,
			Engine:    result.Engine,
			TextLen:   result.TextLen,
			ScannedAt: unixNano(result.ScannedAt),
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketPages).Put(pageKey(result.DocID, result.Page), data)
	})
}

func (s *BoltStore) GetPage(docID string, page int) (domain.PageResult, error) {
	var result domain.PageResult
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPages).Get(pageKey(docID, page))
		if data == nil {
			return fmt.Errorf("page %d of %s: %w", page, docID, domain.ErrNotFound)
		}
		var err error
		result, err = decodePage(docID, page, data)
		return err
	})
	return result, err
}

func decodePage(docID string, page int, data []byte) (domain.PageResult, error) {
	var rec pageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.PageResult{}, err
	}
	parts := rec.Parts
	if parts == nil {
		parts = []string{}
	}
	return domain.PageResult{
		DocID:     docID,
		Page:      page,
		Parts:     parts,
		TIFFPath:  rec.TIFFPath,
		Engine:    rec.Engine,
		TextLen:   rec.TextLen,
		ScannedAt: fromUnixNano(rec.ScannedAt),
	}, nil
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// GetPagesByDoc returns the stored pages of a document in page order.
func (s *BoltStore) GetPagesByDoc(docID string) ([]domain.PageResult, error) {
	var results []domain.PageResult
	err := s.db.View(func(tx *bbolt.Tx) error {
		prefix := docPrefix(docID)
		c := tx.Bucket(bucketPages).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var page int
			if _, err := fmt.Sscanf(string(k[len(prefix):]), "%d", &page); err != nil {
				return fmt.Errorf("corrupt page key %q: %w", k, err)
			}
			result, err := decodePage(docID, page, v)
			if err != nil {
				return err
			}
			results = append(results, result)
		}
		return nil
	})
	return results, err
}

func (s *BoltStore) PutRun(run domain.ScanRun) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketRuns).Put(runKey(run), data)
	})
}

// ListRuns returns the runs for a document, oldest first. An empty docID lists all runs.
func (s *BoltStore) ListRuns(docID string) ([]domain.ScanRun, error) {
	var runs []domain.ScanRun
	err := s.db.View(func(tx *bbolt.Tx) error {
		var prefix []byte
		if docID != "" {
			prefix = docPrefix(docID)
		}
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var run domain.ScanRun
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return nil
	})
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].StartedAt.Before(runs[j].StartedAt) })
	return runs, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ port.ResultStore = (*BoltStore)(nil)
