package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), "Fetching layout...")
	s.w = &buf
	s.start()
	time.Sleep(100 * time.Millisecond)
	s.stop()

	if !strings.Contains(buf.String(), "Fetching layout...") {
		t.Errorf("spinner output = %q", buf.String())
	}
	if s.cancelled() {
		t.Error("stop() should not count as cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, "Saving layout...")
	s.w = &bytes.Buffer{}
	s.start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after context cancellation")
	}
	if !s.cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "Listing layouts...")
	s.w = &bytes.Buffer{}
	s.start()

	s.stop()
	s.stop()
	s.stop()
}

func TestWithSpinner(t *testing.T) {
	want := errors.New("boom")
	got := withSpinner(context.Background(), "Working...", func() error { return want })
	if got != want {
		t.Errorf("withSpinner() = %v, want %v", got, want)
	}
}
