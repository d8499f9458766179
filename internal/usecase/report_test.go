package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partscan/internal/domain"
)

func sampleResult(path string) *ScanResult {
	return &ScanResult{
		Doc: domain.Document{ID: "abc", Path: path},
		Run: domain.ScanRun{ID: "run-1"},
		Pages: []domain.PageResult{
			{Page: 1, Parts: []string{"MCK67", "N05-224"}},
			{Page: 2, Parts: []string{}},
		},
	}
}

func TestRenderResults_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderResults(&buf, FormatText, []*ScanResult{sampleResult("a.pdf")}))

	want := "Page 1\nMCK67\nN05-224\nPage 2\nParts: None Found\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderResults_TextMultipleDocs(t *testing.T) {
	var buf bytes.Buffer
	res := []*ScanResult{sampleResult("a.pdf"), sampleResult("b.pdf")}
	res[1].Run.Errors = []string{"page 3: rasterize: boom"}
	require.NoError(t, RenderResults(&buf, FormatText, res))

	out := buf.String()
	assert.Contains(t, out, "== a.pdf ==\nPage 1\n")
	assert.Contains(t, out, "\n== b.pdf ==\n")
	assert.Contains(t, out, "Error: page 3: rasterize: boom\n")
}

func TestRenderResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderResults(&buf, FormatJSON, []*ScanResult{sampleResult("a.pdf")}))

	var got docReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a.pdf", got.Path)
	require.Len(t, got.Pages, 2)
	assert.Equal(t, []string{"MCK67", "N05-224"}, got.Pages[0].Parts)
	assert.Contains(t, buf.String(), `"parts": []`)
}

func TestRenderResults_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderResults(&buf, FormatCSV, []*ScanResult{sampleResult("a.pdf")}))
	assert.Equal(t, "page,part\n1,MCK67\n1,N05-224\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderResults(&buf, FormatCSV, []*ScanResult{sampleResult("a.pdf"), sampleResult("b.pdf")}))
	assert.Contains(t, buf.String(), "file,page,part\na.pdf,1,MCK67\n")
}

func TestRenderParts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderParts(&buf, FormatText, []string{"AB12", "CD34"}))
	assert.Equal(t, "AB12\nCD34\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderParts(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderParts(&buf, FormatCSV, []string{"AB12"}))
	assert.Equal(t, "part\nAB12\n", buf.String())
}

func TestUnknownFormat(t *testing.T) {
	assert.True(t, errors.Is(ValidateFormat("xml"), ErrUnknownFormat))
	assert.NoError(t, ValidateFormat(FormatCSV))
	err := RenderResults(&bytes.Buffer{}, "yaml", nil)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
