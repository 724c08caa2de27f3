package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

// MemoryStore keeps layouts in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []layoutio.Document
	opts settings
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{opts: buildOptions(opts)}
}

func (s *MemoryStore) Save(ctx context.Context, records []layoutio.Record) (layoutio.Summary, error) {
	meta := s.opts.newMetadata()
	doc := layoutio.Document{Elements: slices.Clone(records), Metadata: &meta}
	if doc.Elements == nil {
		doc.Elements = []layoutio.Record{}
	}

	s.mu.Lock()
	s.docs = append(s.docs, doc)
	s.mu.Unlock()

	s.opts.logger.Debug("saved layout", "backend", BackendMemory, "filename", meta.Filename, "elements", len(records))
	return summarize(meta, memoryPath(meta.Filename)), nil
}

func (s *MemoryStore) Latest(ctx context.Context) (*layoutio.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.docs) == 0 {
		return nil, ErrNotFound
	}
	return copyDocument(s.docs[len(s.docs)-1]), nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) (*layoutio.Document, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}
	if IsLatest(name) {
		return s.Latest(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.docs) - 1; i >= 0; i-- {
		m := s.docs[i].Metadata
		if m.Filename == name || m.ID == name {
			return copyDocument(s.docs[i]), nil
		}
	}
	return nil, notFound(name)
}

func (s *MemoryStore) List(ctx context.Context) ([]layoutio.Summary, error) {
	s.mu.RLock()
	out := make([]layoutio.Summary, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, summarize(*d.Metadata, memoryPath(d.Metadata.Filename)))
	}
	s.mu.RUnlock()

	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func memoryPath(filename string) string { return "memory://" + filename }

func copyDocument(d layoutio.Document) *layoutio.Document {
	meta := *d.Metadata
	return &layoutio.Document{Elements: slices.Clone(d.Elements), Metadata: &meta}
}

var _ Store = (*MemoryStore)(nil)
