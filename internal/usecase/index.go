package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"supportbot/internal/adapter/cache"
	"supportbot/internal/adapter/fs"
	"supportbot/internal/port"
)

// errEmptyFile marks a knowledge file with no content after trimming.
// Empty files are skipped with a warning, not treated as batch failures.
var errEmptyFile = errors.New("file is empty")

// Indexer ingests a directory of plain-text knowledge documents into the
// vector store. One file becomes one document; the filename is both the
// store key and the display source label.
type Indexer struct {
	embedder   port.Embedder
	store      port.VectorStore
	walker     port.FileWalker
	cache      *cache.PassageCache
	clearFirst bool
	logger     *slog.Logger
}

// NewIndexer creates an indexer. cache may be nil; when set it is
// invalidated after a successful run so serving never mixes corpus
// generations.
func NewIndexer(embedder port.Embedder, store port.VectorStore, walker port.FileWalker, passageCache *cache.PassageCache, clearFirst bool, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		embedder:   embedder,
		store:      store,
		walker:     walker,
		cache:      passageCache,
		clearFirst: clearFirst,
		logger:     logger,
	}
}

// IndexResult contains the results of an indexing run.
type IndexResult struct {
	FilesIndexed int
	FilesSkipped int
	Errors       []string
}

// ProgressFunc reports indexing progress for interactive display.
type ProgressFunc func(processed, total int, currentFile string)

// Index processes every matching file under dir. A single file's failure
// is recorded and skipped; the batch always runs to completion.
func (u *Indexer) Index(dir string, progress ProgressFunc) (*IndexResult, error) {
	result := &IndexResult{}

	files, err := u.walker.Walk(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	if u.clearFirst {
		if err := u.store.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear store: %w", err)
		}
	}

	for i, file := range files {
		if progress != nil {
			progress(i, len(files), file.Path)
		}

		if err := u.indexFile(file.Path); err != nil {
			if errors.Is(err, errEmptyFile) {
				u.logger.Warn("skipping empty file", "file", filepath.Base(file.Path))
				result.FilesSkipped++
				continue
			}
			u.logger.Warn("failed to index file", "file", filepath.Base(file.Path), "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", filepath.Base(file.Path), err))
			result.FilesSkipped++
			continue
		}
		result.FilesIndexed++
	}

	if progress != nil {
		progress(len(files), len(files), "")
	}

	if u.cache != nil {
		u.cache.Invalidate()
	}

	return result, nil
}

// indexFile embeds and stores a single knowledge document.
func (u *Indexer) indexFile(path string) error {
	content, err := fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return errEmptyFile
	}

	embeddings, err := u.embedder.Embed([]string{content})
	if err != nil {
		return fmt.Errorf("failed to embed content: %w", err)
	}
	if len(embeddings) == 0 {
		return fmt.Errorf("embedder returned no vector")
	}

	name := filepath.Base(path)
	item := port.Item{
		ID:       name,
		Vector:   embeddings[0],
		Content:  content,
		Metadata: map[string]string{"source": name},
	}

	if err := u.store.Upsert([]port.Item{item}); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	return nil
}
