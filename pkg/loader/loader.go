// Package loader turns stored document files into pages of raw text.
// Sources abstract where bytes come from (filesystem, S3); format
// parsers live in subpackages.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/papermind-ai/papermind/pkg/common"
	"github.com/papermind-ai/papermind/pkg/loader/docx"
	"github.com/papermind-ai/papermind/pkg/loader/pdf"
)

// ErrUnsupportedType marks a file whose extension no parser handles.
// It is an input error: the caller should reject the file, not retry.
var ErrUnsupportedType = errors.New("unsupported file type")

// Source fetches the raw bytes of a stored file by key.
type Source interface {
	GetFileBytes(ctx context.Context, key string) ([]byte, error)
}

// Load fetches a file from the source and parses it into pages. PDF
// files yield one page per PDF page; Word documents yield a single
// page holding the whole document.
func Load(ctx context.Context, source Source, key string, sourceFile string) ([]common.Page, error) {
	raw, err := source.GetFileBytes(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}
	return Parse(raw, sourceFile)
}

// Parse dispatches raw document bytes to the parser for the file's
// extension.
func Parse(raw []byte, sourceFile string) ([]common.Page, error) {
	switch strings.ToLower(filepath.Ext(sourceFile)) {
	case ".pdf":
		return pdf.Parse(raw, sourceFile)
	case ".docx", ".doc":
		return docx.Parse(raw, sourceFile)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, sourceFile)
	}
}
