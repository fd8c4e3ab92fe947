package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/OFFIS-RIT/kiwi-ke/pkg/common"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/loader"
	"github.com/OFFIS-RIT/kiwi-ke/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Extract builds a key event graph from a single document or from every
// matching document of a directory.
//
// For a single file the status is error iff its pipeline errored. For a
// directory the status is always success; failed documents are logged and
// left out of the merged graph. Input problems are returned as *ConfigError.
func (g *GraphClient) Extract(ctx context.Context, topic string, path string) (*common.ExtractionResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultTopic
	}
	if strings.TrimSpace(path) == "" {
		return nil, &ConfigError{Field: "path", Message: "no input path given"}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &ConfigError{Field: "path", Message: fmt.Sprintf("%s does not exist or is not accessible", path)}
	}

	switch {
	case info.Mode().IsRegular():
		return g.ExtractFile(ctx, topic, path), nil
	case info.IsDir():
		results, err := g.ProcessCorpus(ctx, topic, path)
		if err != nil {
			return nil, err
		}
		return common.NewExtractionResult(MergeResults(results), common.StatusSuccess), nil
	default:
		return nil, &ConfigError{Field: "path", Message: fmt.Sprintf("%s is neither a file nor a directory", path)}
	}
}

// ExtractFile runs the pipeline for one document and reports its outcome.
func (g *GraphClient) ExtractFile(ctx context.Context, topic string, path string) *common.ExtractionResult {
	res := g.ProcessDocument(ctx, topic, g.newFile(path))
	if !res.OK() {
		return common.NewExtractionResult(common.Graph{}, common.StatusError)
	}
	return common.NewExtractionResult(*res.Output, common.StatusSuccess)
}

// ListDocuments returns the regular files of dir whose extension matches
// the client's filter, sorted by path. Subdirectories are not descended.
func (g *GraphClient) ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !slices.Contains(g.extensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	slices.Sort(paths)

	return paths, nil
}

// ProcessCorpus runs the pipeline for every document of dir. Results are
// returned in document order regardless of how many documents ran at once.
// Only a failure to enumerate dir is returned as an error.
func (g *GraphClient) ProcessCorpus(ctx context.Context, topic string, dir string) ([]DocumentResult, error) {
	paths, err := g.ListDocuments(dir)
	if err != nil {
		return nil, err
	}

	logger.Info("[Graph] Processing corpus", "dir", dir, "documents", len(paths), "parallel", g.parallelFiles)
	start := time.Now()

	results := make([]DocumentResult, len(paths))
	if g.parallelFiles > 1 {
		var eg errgroup.Group
		eg.SetLimit(g.parallelFiles)
		for i, path := range paths {
			eg.Go(func() error {
				results[i] = g.ProcessDocument(ctx, topic, g.newFile(path))
				return nil
			})
		}
		_ = eg.Wait()
	} else {
		for i, path := range paths {
			results[i] = g.ProcessDocument(ctx, topic, g.newFile(path))
		}
	}

	failed := 0
	for _, r := range results {
		if r.OK() {
			continue
		}
		failed++
		if r.Err != nil {
			logger.Warn("[Graph] Skipping failed document", "path", r.Path, "kind", r.Err.Kind)
		}
	}
	logger.Info(
		"[Graph] Corpus processed",
		"dir", dir,
		"succeeded", len(results)-failed,
		"failed", failed,
		"duration", time.Since(start),
	)

	return results, nil
}

// MergeResults concatenates the outputs of all successful documents in
// order. Nothing is deduplicated across documents.
func MergeResults(results []DocumentResult) common.Graph {
	var merged common.Graph
	for _, r := range results {
		if !r.OK() {
			continue
		}
		merged.Append(*r.Output)
	}
	return merged
}

func (g *GraphClient) newFile(path string) loader.GraphFile {
	return loader.NewGraphDocumentFile(loader.NewGraphFileParams{
		FilePath: path,
		Loader:   g.loader,
	})
}
