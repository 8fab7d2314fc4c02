// Package docx extracts text from Word documents.
package docx

import (
	"bytes"
	"fmt"
	"strings"

	docxlib "github.com/fumiama/go-docx"

	"github.com/papermind-ai/papermind/pkg/common"
)

// Parse extracts the document text as a single page. Word files carry
// no page boundaries in their XML, so the whole document becomes one
// Page with paragraphs separated by blank lines.
func Parse(raw []byte, sourceFile string) ([]common.Page, error) {
	doc, err := docxlib.Parse(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docxlib.Paragraph)
		if !ok {
			continue
		}
		if text := paragraphText(para); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	if len(paragraphs) == 0 {
		return nil, nil
	}

	return []common.Page{{
		Text:       strings.Join(paragraphs, "\n\n"),
		PageNumber: 1,
		SourceFile: sourceFile,
	}}, nil
}

func paragraphText(para *docxlib.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docxlib.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docxlib.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
