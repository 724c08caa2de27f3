package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/element"
	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

var clockStart = time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

// stepClock returns a clock that advances one second per call, starting at start.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start.Add(-time.Second)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func sampleRecords(text string) []layoutio.Record {
	return []layoutio.Record{
		{ID: 1, Type: element.KindText, X: 176, Y: 125, Anchor: anchor.BottomRight, Width: 100, Height: 50, Text: text, Level: 1},
		{ID: 2, Type: element.KindImage, X: 0, Y: 0, Anchor: anchor.TopLeft, Width: 200, Height: 200, Text: "/api/images/2", Inverted: element.Bool(false)},
	}
}

type storeFactory func(t *testing.T, opts ...Option) Store

// testStore exercises the behaviour every backend shares.
func testStore(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("EmptyLatest", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Latest(ctx)
		if !errors.Is(err, errors.ErrCodeLayoutNotFound) {
			t.Errorf("Latest() error = %v, want LAYOUT_NOT_FOUND", err)
		}
		sums, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		if len(sums) != 0 {
			t.Errorf("List() = %v, want empty", sums)
		}
	})

	t.Run("SaveAndRead", func(t *testing.T) {
		s := newStore(t, WithClock(stepClock(clockStart)))

		first, err := s.Save(ctx, sampleRecords("first"))
		if err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
		second, err := s.Save(ctx, sampleRecords("second"))
		if err != nil {
			t.Fatalf("Save() failed: %v", err)
		}

		if first.Filename != "layout_20240102_150405.json" {
			t.Errorf("Filename = %q", first.Filename)
		}
		if first.ID == "" || first.ID == second.ID {
			t.Errorf("IDs not unique: %q, %q", first.ID, second.ID)
		}
		if first.Path == "" {
			t.Error("Path is empty")
		}

		latest, err := s.Latest(ctx)
		if err != nil {
			t.Fatalf("Latest() failed: %v", err)
		}
		if got := latest.Elements[0].Text; got != "second" {
			t.Errorf("Latest() text = %q, want second", got)
		}
		if latest.Metadata == nil || latest.Metadata.Filename != second.Filename {
			t.Errorf("Latest() metadata = %+v", latest.Metadata)
		}
		if latest.Elements[0].Anchor != anchor.BottomRight || latest.Elements[0].X != 176 {
			t.Errorf("record changed in storage: %+v", latest.Elements[0])
		}
		if inv := latest.Elements[1].Inverted; inv == nil || *inv {
			t.Errorf("inverted = %v, want explicit false", inv)
		}

		for _, name := range []string{first.Filename, first.ID} {
			doc, err := s.Get(ctx, name)
			if err != nil {
				t.Fatalf("Get(%q) failed: %v", name, err)
			}
			if doc.Elements[0].Text != "first" {
				t.Errorf("Get(%q) text = %q, want first", name, doc.Elements[0].Text)
			}
		}

		for _, name := range []string{"latest", LatestName} {
			doc, err := s.Get(ctx, name)
			if err != nil {
				t.Fatalf("Get(%q) failed: %v", name, err)
			}
			if doc.Elements[0].Text != "second" {
				t.Errorf("Get(%q) text = %q, want second", name, doc.Elements[0].Text)
			}
		}

		sums, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		if len(sums) != 2 {
			t.Fatalf("List() returned %d layouts, want 2", len(sums))
		}
		if sums[0].Filename != second.Filename || sums[1].Filename != first.Filename {
			t.Errorf("List() order = %s, %s; want newest first", sums[0].Filename, sums[1].Filename)
		}
		if !sums[0].CreatedAt.After(sums[1].CreatedAt) {
			t.Errorf("CreatedAt not descending: %v, %v", sums[0].CreatedAt, sums[1].CreatedAt)
		}
	})

	t.Run("GetErrors", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Save(ctx, sampleRecords("x")); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}

		tests := []struct {
			name string
			code errors.Code
		}{
			{"layout_19990101_000000.json", errors.ErrCodeLayoutNotFound},
			{"../secrets.json", errors.ErrCodeInvalidName},
			{".hidden", errors.ErrCodeInvalidName},
			{"", errors.ErrCodeInvalidName},
		}
		for _, tt := range tests {
			_, err := s.Get(ctx, tt.name)
			if !errors.Is(err, tt.code) {
				t.Errorf("Get(%q) error = %v, want %s", tt.name, err, tt.code)
			}
		}
	})

	t.Run("EmptyLayout", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Save(ctx, nil); err != nil {
			t.Fatalf("Save(nil) failed: %v", err)
		}
		doc, err := s.Latest(ctx)
		if err != nil {
			t.Fatalf("Latest() failed: %v", err)
		}
		if doc.Elements == nil || len(doc.Elements) != 0 {
			t.Errorf("Elements = %#v, want empty slice", doc.Elements)
		}
	})
}

func TestFilename(t *testing.T) {
	got := Filename(time.Date(2023, 12, 31, 23, 59, 58, 0, time.UTC))
	if got != "layout_20231231_235958.json" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestIsLatest(t *testing.T) {
	tests := map[string]bool{
		"latest":                      true,
		"latest.json":                 true,
		"latest.txt":                  false,
		"layout_20240101_000000.json": false,
	}
	for name, want := range tests {
		if got := IsLatest(name); got != want {
			t.Errorf("IsLatest(%q) = %v, want %v", name, got, want)
		}
	}
}
