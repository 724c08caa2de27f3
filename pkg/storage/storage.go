package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

// Store persists layouts.
type Store interface {
	// Save stores records as a new layout and makes it the latest one.
	Save(ctx context.Context, records []layoutio.Record) (layoutio.Summary, error)

	// Latest returns the most recently saved layout, or ErrNotFound.
	Latest(ctx context.Context) (*layoutio.Document, error)

	// Get returns a layout by filename or ID. "latest" and "latest.json"
	// resolve to [Store.Latest].
	Get(ctx context.Context, name string) (*layoutio.Document, error)

	// List returns all stored layouts, newest first.
	List(ctx context.Context) ([]layoutio.Summary, error)

	Close() error
}

// ErrNotFound is returned when no layout matches.
var ErrNotFound = errors.New(errors.ErrCodeLayoutNotFound, "No layout found")

// LatestName is the name under which the newest layout is mirrored.
const LatestName = "latest.json"

const filenameLayout = "20060102_150405"

// Filename returns the stored filename for a layout saved at t.
func Filename(t time.Time) string {
	return "layout_" + t.Format(filenameLayout) + ".json"
}

// IsLatest reports whether name refers to the latest layout.
func IsLatest(name string) bool {
	return name == LatestName || name == strings.TrimSuffix(LatestName, ".json")
}

// Option configures a backend.
type Option func(*settings)

type settings struct {
	now    func() time.Time
	logger *log.Logger
}

// WithClock overrides the time source used for timestamps and filenames.
func WithClock(now func() time.Time) Option {
	return func(o *settings) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger backends report to.
func WithLogger(l *log.Logger) Option {
	return func(o *settings) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) settings {
	o := settings{now: time.Now, logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newMetadata stamps a layout being saved. Timestamps are kept at
// millisecond precision, the finest all backends can store.
func (o settings) newMetadata() layoutio.Metadata {
	now := o.now()
	return layoutio.Metadata{
		ID:        uuid.NewString(),
		CreatedAt: now.UTC().Truncate(time.Millisecond),
		Filename:  Filename(now),
	}
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// sortSummaries orders summaries newest first, breaking ties by filename.
func sortSummaries(s []layoutio.Summary) {
	slices.SortFunc(s, func(a, b layoutio.Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.Filename, a.Filename)
	})
}

func summarize(meta layoutio.Metadata, path string) layoutio.Summary {
	return layoutio.Summary{
		ID:        meta.ID,
		Filename:  meta.Filename,
		CreatedAt: meta.CreatedAt,
		Path:      path,
	}
}
