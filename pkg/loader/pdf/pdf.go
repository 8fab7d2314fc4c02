// Package pdf extracts per-page text from PDF documents.
package pdf

import (
	"fmt"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/papermind-ai/papermind/pkg/common"
)

// Parse extracts one Page per PDF page. Pages whose extraction fails
// are skipped rather than failing the document; scanned pages with no
// text layer are a routine case.
func Parse(raw []byte, sourceFile string) ([]common.Page, error) {
	// ledongthuc/pdf requires a ReadSeeker with a known size, so the
	// bytes go through a temp file.
	tmp, err := os.CreateTemp("", "papermind-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var pages []common.Page
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, common.Page{
			Text:       text,
			PageNumber: i,
			SourceFile: sourceFile,
		})
	}
	return pages, nil
}
