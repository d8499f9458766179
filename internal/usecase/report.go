package usecase

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ErrUnknownFormat is returned for an output format other than text, json or csv.
var ErrUnknownFormat = errors.New("unknown output format")

// NoPartsLine is printed under a page header when the page has no parts.
const NoPartsLine = "Parts: None Found"

type pageReport struct {
	Page     int      `json:"page"`
	Parts    []string `json:"parts"`
	TIFFPath string   `json:"tiff_path,omitempty"`
	Reused   bool     `json:"reused,omitempty"`
}

type docReport struct {
	Path   string       `json:"path"`
	DocID  string       `json:"doc_id"`
	RunID  string       `json:"run_id,omitempty"`
	Pages  []pageReport `json:"pages"`
	Errors []string     `json:"errors,omitempty"`
}

// ValidateFormat checks an output format name.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatCSV:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// RenderResults writes scan results in the given format.
// Text output lists each page as a "Page N" header followed by one part per
// line. A path header is added only when more than one document is shown.
func RenderResults(w io.Writer, format string, results []*ScanResult) error {
	switch format {
	case FormatText:
		return renderText(w, results)
	case FormatJSON:
		reports := make([]docReport, 0, len(results))
		for _, r := range results {
			reports = append(reports, toReport(r))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	case FormatCSV:
		return renderCSV(w, results)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// RenderParts writes a bare part list, as produced by text-only extraction.
func RenderParts(w io.Writer, format string, parts []string) error {
	if parts == nil {
		parts = []string{}
	}
	switch format {
	case FormatText:
		for _, p := range parts {
			if _, err := fmt.Fprintln(w, p); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		return json.NewEncoder(w).Encode(parts)
	case FormatCSV:
		cw := csv.NewWriter(w)
		cw.Write([]string{"part"})
		for _, p := range parts {
			cw.Write([]string{p})
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderText(w io.Writer, results []*ScanResult) error {
	var sb strings.Builder
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "== %s ==\n", r.Doc.Path)
		}
		for _, p := range r.Pages {
			fmt.Fprintf(&sb, "Page %d\n", p.Page)
			if len(p.Parts) == 0 {
				sb.WriteString(NoPartsLine + "\n")
				continue
			}
			for _, part := range p.Parts {
				sb.WriteString(part + "\n")
			}
		}
		for _, e := range r.Run.Errors {
			fmt.Fprintf(&sb, "Error: %s\n", e)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func renderCSV(w io.Writer, results []*ScanResult) error {
	multi := len(results) > 1
	cw := csv.NewWriter(w)

	header := []string{"page", "part"}
	if multi {
		header = append([]string{"file"}, header...)
	}
	cw.Write(header)

	for _, r := range results {
		for _, p := range r.Pages {
			for _, part := range p.Parts {
				row := []string{strconv.Itoa(p.Page), part}
				if multi {
					row = append([]string{r.Doc.Path}, row...)
				}
				cw.Write(row)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func toReport(r *ScanResult) docReport {
	rep := docReport{
		Path:   r.Doc.Path,
		DocID:  r.Doc.ID,
		RunID:  r.Run.ID,
		Pages:  make([]pageReport, 0, len(r.Pages)),
		Errors: r.Run.Errors,
	}
	for _, p := range r.Pages {
		parts := p.Parts
		if parts == nil {
			parts = []string{}
		}
		rep.Pages = append(rep.Pages, pageReport{
			Page:     p.Page,
			Parts:    parts,
			TIFFPath: p.TIFFPath,
			Reused:   p.Reused,
		})
	}
	return rep
}
