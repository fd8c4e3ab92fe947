package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/loader"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/logger"

	lpdf "github.com/ledongthuc/pdf"
	"golang.org/x/sync/singleflight"
)

// PDFGraphLoader loads PDF files and extracts their text content.
// The raw bytes come from the wrapped loader, usually the filesystem loader.
type PDFGraphLoader struct {
	loader loader.GraphFileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewPDFGraphLoader creates a PDF loader that extracts text directly from PDF content.
func NewPDFGraphLoader(loader loader.GraphFileLoader) *PDFGraphLoader {
	return &PDFGraphLoader{
		loader: loader,
		cache:  make(map[string][]byte),
	}
}

// GetFileText extracts the plain text of every page, joined by blank
// lines. A PDF without extractable text yields empty text, not an error.
func (l *PDFGraphLoader) GetFileText(ctx context.Context, file loader.GraphFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		content, err := l.loader.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}

		text, err := parsePDF(content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PDF %s: %w", file.FilePath, err)
		}

		l.cacheMu.Lock()
		l.cache[key] = text
		l.cacheMu.Unlock()

		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

func parsePDF(content []byte) (out []byte, err error) {
	// the PDF library panics on some malformed cross reference tables
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := lpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Debug("[Loader] Skipping PDF page", "page", i, "err", err)
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, text)
		}
	}

	return []byte(strings.Join(pages, "\n\n")), nil
}
