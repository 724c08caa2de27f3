package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

// DefaultDir is the layouts directory used when none is configured.
const DefaultDir = "layouts"

// FileStore keeps each layout as a JSON file in a directory. The newest
// layout is additionally written to latest.json.
type FileStore struct {
	mu   sync.RWMutex
	dir  string
	opts settings
}

// NewFileStore creates a file store in dir, creating the directory if
// needed. An empty dir selects [DefaultDir].
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create layouts dir")
	}
	return &FileStore{dir: dir, opts: buildOptions(opts)}, nil
}

// Dir returns the layouts directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) Save(ctx context.Context, records []layoutio.Record) (layoutio.Summary, error) {
	meta := s.opts.newMetadata()
	doc := &layoutio.Document{Elements: records, Metadata: &meta}
	if doc.Elements == nil {
		doc.Elements = []layoutio.Record{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return layoutio.Summary{}, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(meta.Filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return layoutio.Summary{}, errors.Wrap(errors.ErrCodeInternal, err, "write %s", meta.Filename)
	}
	if err := os.WriteFile(s.path(LatestName), data, 0o644); err != nil {
		return layoutio.Summary{}, errors.Wrap(errors.ErrCodeInternal, err, "write %s", LatestName)
	}

	s.opts.logger.Debug("saved layout", "backend", BackendFile, "path", path, "elements", len(records))
	return summarize(meta, path), nil
}

func (s *FileStore) Latest(ctx context.Context) (*layoutio.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(LatestName)
}

func (s *FileStore) Get(ctx context.Context, name string) (*layoutio.Document, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}
	if IsLatest(name) {
		return s.Latest(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}
	doc, err := s.read(filename)
	if err == nil || !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		return doc, err
	}

	// Fall back to a lookup by layout ID.
	sums, err := s.list()
	if err != nil {
		return nil, err
	}
	for _, sum := range sums {
		if sum.ID == name {
			return s.read(sum.Filename)
		}
	}
	return nil, notFound(name)
}

func (s *FileStore) List(ctx context.Context) ([]layoutio.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list()
}

func (s *FileStore) list() ([]layoutio.Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read layouts dir")
	}

	out := make([]layoutio.Summary, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" || name == LatestName {
			continue
		}
		sum := layoutio.Summary{Filename: name, Path: s.path(name)}
		if doc, err := s.read(name); err != nil {
			s.opts.logger.Warn("skipping metadata of unreadable layout", "file", name, "err", err)
			if info, err := e.Info(); err == nil {
				sum.CreatedAt = info.ModTime().UTC()
			}
		} else if doc.Metadata != nil {
			sum.ID = doc.Metadata.ID
			sum.CreatedAt = doc.Metadata.CreatedAt
		}
		out = append(out, sum)
	}

	sortSummaries(out)
	return out, nil
}

func (s *FileStore) read(filename string) (*layoutio.Document, error) {
	f, err := os.Open(s.path(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(filename)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", filename)
	}
	defer f.Close()

	doc, err := layoutio.ReadJSON(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", filename)
	}
	return doc, nil
}

func (s *FileStore) path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// Close is a no-op; files are written synchronously by Save.
func (s *FileStore) Close() error { return nil }

// String describes the store for log output.
func (s *FileStore) String() string {
	return fmt.Sprintf("file:%s", s.dir)
}

var _ Store = (*FileStore)(nil)
