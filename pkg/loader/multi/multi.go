// Package multi selects a text loader by file extension.
package multi

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/loader"
)

// ExtensionGraphLoader dispatches GetFileText to the loader registered for
// the file's extension.
type ExtensionGraphLoader struct {
	loaders map[string]loader.GraphFileLoader
}

// NewExtensionGraphLoader builds a loader from an extension to loader map.
// Extensions are matched case-insensitively, with or without leading dot.
func NewExtensionGraphLoader(loaders map[string]loader.GraphFileLoader) *ExtensionGraphLoader {
	m := make(map[string]loader.GraphFileLoader, len(loaders))
	for ext, l := range loaders {
		m[NormalizeExtension(ext)] = l
	}
	return &ExtensionGraphLoader{loaders: m}
}

// NormalizeExtension lower-cases ext and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Supports reports whether a loader is registered for path's extension.
func (l *ExtensionGraphLoader) Supports(path string) bool {
	_, ok := l.loaders[NormalizeExtension(filepath.Ext(path))]
	return ok
}

// GetFileText implements loader.GraphFileLoader.
func (l *ExtensionGraphLoader) GetFileText(ctx context.Context, file loader.GraphFile) ([]byte, error) {
	ext := NormalizeExtension(filepath.Ext(file.FilePath))
	inner, ok := l.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("no loader registered for extension %q", ext)
	}
	return inner.GetFileText(ctx, file)
}
