//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"partscan/internal/adapter/analyzer"
	"partscan/internal/adapter/frequency"
	"partscan/internal/adapter/memstore"
	"partscan/internal/adapter/pagerange"
	"partscan/internal/usecase"
)

var (
	store     *memstore.MemoryStore
	extractor *analyzer.Extractor
)

func init() {
	store = memstore.NewMemoryStore()
	oracle := frequency.NewCachedOracle(frequency.NewZipfOracle(), frequency.NewScoreCache(0))
	extractor = analyzer.NewDefaultExtractor(oracle)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("partscanExtract", js.FuncOf(extractText))
	js.Global().Set("partscanPages", js.FuncOf(parsePages))
	js.Global().Set("partscanAddPage", js.FuncOf(addPage))
	js.Global().Set("partscanResults", js.FuncOf(listResults))
	js.Global().Set("partscanClear", js.FuncOf(clearResults))

	<-c
}

func extractText(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: partscanExtract(text)")
	}
	return makeResult(map[string]interface{}{
		"parts": extractor.Extract(args[0].String()),
	})
}

func parsePages(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: partscanPages(range, totalPages)")
	}
	indices, err := pagerange.Parse(args[0].String(), args[1].Int())
	if err != nil {
		return makeError(err.Error())
	}
	pages := make([]int, len(indices))
	for i, idx := range indices {
		pages[i] = idx + 1
	}
	return makeResult(map[string]interface{}{
		"pages":   pages,
		"summary": pagerange.Format(indices),
	})
}

// addPage records OCR text the browser already obtained for one page.
func addPage(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return makeError("usage: partscanAddPage(filename, page, text)")
	}
	filename := args[0].String()
	page := args[1].Int()
	text := args[2].String()

	result, err := usecase.RecordPage(store, extractor, filename, page, text, "browser")
	if err != nil {
		return makeError(err.Error())
	}

	return makeResult(map[string]interface{}{
		"filename": filename,
		"page":     page,
		"parts":    result.Parts,
	})
}

func listResults(this js.Value, args []js.Value) interface{} {
	docs, err := store.ListDocs()
	if err != nil {
		return makeError(err.Error())
	}

	output := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		pages, err := store.GetPagesByDoc(doc.ID)
		if err != nil {
			return makeError(err.Error())
		}
		pageOut := make([]map[string]interface{}, 0, len(pages))
		for _, p := range pages {
			pageOut = append(pageOut, map[string]interface{}{
				"page":  p.Page,
				"parts": p.Parts,
			})
		}
		output = append(output, map[string]interface{}{
			"filename": doc.Path,
			"pages":    pageOut,
		})
	}

	return makeResult(map[string]interface{}{
		"documents": output,
	})
}

func clearResults(this js.Value, args []js.Value) interface{} {
	store.Clear()
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
