package storage

import (
	"context"
	"time"

	"github.com/matzehuels/einkplacer/pkg/layoutio"
	"github.com/matzehuels/einkplacer/pkg/observability"
)

// Instrument wraps s so that every operation is reported to
// observability.Storage() under the given backend name.
func Instrument(s Store, backend string) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) report(ctx context.Context, op string, start time.Time, err error) {
	observability.Storage().OnStorageOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) Save(ctx context.Context, records []layoutio.Record) (layoutio.Summary, error) {
	start := time.Now()
	sum, err := s.Store.Save(ctx, records)
	s.report(ctx, "save", start, err)
	return sum, err
}

func (s *instrumented) Latest(ctx context.Context) (*layoutio.Document, error) {
	start := time.Now()
	doc, err := s.Store.Latest(ctx)
	s.report(ctx, "latest", start, err)
	return doc, err
}

func (s *instrumented) Get(ctx context.Context, name string) (*layoutio.Document, error) {
	start := time.Now()
	doc, err := s.Store.Get(ctx, name)
	s.report(ctx, "get", start, err)
	return doc, err
}

func (s *instrumented) List(ctx context.Context) ([]layoutio.Summary, error) {
	start := time.Now()
	sums, err := s.Store.List(ctx)
	s.report(ctx, "list", start, err)
	return sums, err
}
