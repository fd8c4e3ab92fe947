package loader

import (
	"context"
	"path/filepath"
	"strings"
)

type GraphFileType string

const (
	GraphFileTypePDF  GraphFileType = "pdf"
	GraphFileTypeText GraphFileType = "text"
)

// GraphFile represents a document that key events are extracted from.
// ID is the document identifier used as the reference of every extracted
// event and evidence record.
//
// The actual file content is retrieved via the associated GraphFileLoader.
type GraphFile struct {
	ID       string
	FilePath string
	FileType GraphFileType
	Loader   GraphFileLoader
}

// NewGraphFileParams defines the input parameters for creating a new GraphFile.
// An empty ID defaults to the file name without its extension.
type NewGraphFileParams struct {
	ID       string
	FilePath string
	Loader   GraphFileLoader
}

// NewGraphDocumentFile creates a GraphFile whose type is derived from the
// file extension.
func NewGraphDocumentFile(params NewGraphFileParams) GraphFile {
	id := params.ID
	if id == "" {
		id = DocumentID(params.FilePath)
	}
	return GraphFile{
		ID:       id,
		FilePath: params.FilePath,
		FileType: FileTypeFromPath(params.FilePath),
		Loader:   params.Loader,
	}
}

// DocumentID returns the file name of path without its extension.
func DocumentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FileTypeFromPath maps a file extension to a GraphFileType. Everything
// that is not a PDF is read as plain text.
func FileTypeFromPath(path string) GraphFileType {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return GraphFileTypePDF
	}
	return GraphFileTypeText
}

// GetText retrieves the raw text content of the file using its Loader.
//
// Example:
//
//	text, err := file.GetText(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(string(text))
func (f *GraphFile) GetText(ctx context.Context) ([]byte, error) {
	return f.Loader.GetFileText(ctx, *f)
}

// GraphFileLoader defines the interface for loading the contents of a GraphFile.
// Implementations may load files from disk or decode binary formats.
type GraphFileLoader interface {
	GetFileText(ctx context.Context, file GraphFile) ([]byte, error)
}
