package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"partscan/config"
	"partscan/internal/domain"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBoltStore_Docs(t *testing.T) {
	st := newTestStore(t)

	doc := domain.Document{ID: "d1", Path: "/manuals/b.pdf", PageCount: 12, ModTime: time.Unix(1700000000, 0)}
	require.NoError(t, st.PutDoc(doc))
	require.NoError(t, st.PutDoc(domain.Document{ID: "d2", Path: "/manuals/a.pdf", PageCount: 3}))

	got, err := st.GetDoc("d1")
	require.NoError(t, err)
	assert.Equal(t, doc.Path, got.Path)
	assert.Equal(t, 12, got.PageCount)
	assert.True(t, doc.ModTime.Equal(got.ModTime))

	docs, err := st.ListDocs()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "/manuals/a.pdf", docs[0].Path)

	_, err = st.GetDoc("missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBoltStore_Pages(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()

	for _, p := range []int{10, 2, 1} {
		require.NoError(t, st.PutPage(domain.PageResult{DocID: "d1", Page: p, Parts: []string{"MCK67"}, Engine: "static", ScannedAt: now}))
	}
	require.NoError(t, st.PutPage(domain.PageResult{DocID: "d10", Page: 1, Parts: nil}))

	pages, err := st.GetPagesByDoc("d1")
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, 1, pages[0].Page)
	assert.Equal(t, 2, pages[1].Page)
	assert.Equal(t, 10, pages[2].Page)
	assert.Equal(t, []string{"MCK67"}, pages[0].Parts)
	assert.True(t, now.Equal(pages[0].ScannedAt))

	page, err := st.GetPage("d10", 1)
	require.NoError(t, err)
	assert.NotNil(t, page.Parts)
	assert.Empty(t, page.Parts)

	_, err = st.GetPage("d1", 3)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBoltStore_Runs(t *testing.T) {
	st := newTestStore(t)
	base := time.Now()

	require.NoError(t, st.PutRun(domain.ScanRun{ID: "r2", DocID: "d1", StartedAt: base.Add(time.Minute)}))
	require.NoError(t, st.PutRun(domain.ScanRun{ID: "r1", DocID: "d1", StartedAt: base}))
	require.NoError(t, st.PutRun(domain.ScanRun{ID: "r3", DocID: "d2", StartedAt: base}))

	runs, err := st.ListRuns("d1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r1", runs[0].ID)
	assert.Equal(t, "r2", runs[1].ID)

	all, err := st.ListRuns("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBoltStore_DeleteDoc(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.PutDoc(domain.Document{ID: "d1", Path: "a.pdf"}))
	require.NoError(t, st.PutPage(domain.PageResult{DocID: "d1", Page: 1}))
	require.NoError(t, st.PutPage(domain.PageResult{DocID: "d11", Page: 1}))
	require.NoError(t, st.PutRun(domain.ScanRun{ID: "r1", DocID: "d1", StartedAt: time.Now()}))

	require.NoError(t, st.DeleteDoc("d1"))

	_, err := st.GetDoc("d1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	pages, err := st.GetPagesByDoc("d1")
	require.NoError(t, err)
	assert.Empty(t, pages)
	runs, err := st.ListRuns("d1")
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.GetPage("d11", 1)
	assert.NoError(t, err, "pages of other docs sharing the prefix must survive")
}

func TestBoltStore_Migration(t *testing.T) {
	st := newTestStore(t)
	cfg := config.DefaultConfig()

	result, err := st.CheckMigration(cfg)
	require.NoError(t, err)
	assert.True(t, result.NeedsMigration)
	assert.False(t, result.NeedsRebuild)

	require.NoError(t, st.Migrate(cfg))

	result, err = st.CheckMigration(cfg)
	require.NoError(t, err)
	assert.False(t, result.NeedsMigration)
	assert.False(t, result.NeedsRebuild)

	cfg.Render.DPI = 600
	result, err = st.CheckMigration(cfg)
	require.NoError(t, err)
	assert.True(t, result.NeedsRebuild)
	assert.Equal(t, "scan settings changed", result.Reason)
}

func TestBoltStore_Clear(t *testing.T) {
	st := newTestStore(t)
	cfg := config.DefaultConfig()
	require.NoError(t, st.Migrate(cfg))

	require.NoError(t, st.PutDoc(domain.Document{ID: "d1", Path: "a.pdf"}))
	require.NoError(t, st.PutPage(domain.PageResult{DocID: "d1", Page: 1}))
	require.NoError(t, st.Clear())

	docs, err := st.ListDocs()
	require.NoError(t, err)
	assert.Empty(t, docs)

	info, err := st.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
	assert.Equal(t, ComputeSettingsHash(cfg), info.SettingsHash)
}

func TestComputeSettingsHash(t *testing.T) {
	a := config.DefaultConfig()
	b := config.DefaultConfig()
	assert.Equal(t, ComputeSettingsHash(a), ComputeSettingsHash(b))

	b.OCR.Provider = "gemini"
	assert.NotEqual(t, ComputeSettingsHash(a), ComputeSettingsHash(b))

	c := config.DefaultConfig()
	c.Scan.Workers = 16
	assert.Equal(t, ComputeSettingsHash(a), ComputeSettingsHash(c), "worker count does not affect results")
}
