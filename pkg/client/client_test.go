package client

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/api"
	"github.com/matzehuels/einkplacer/pkg/editor"
	"github.com/matzehuels/einkplacer/pkg/element"
	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/httputil"
	"github.com/matzehuels/einkplacer/pkg/storage"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func newService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(api.New(storage.NewMemoryStore(), api.WithLogger(quietLogger())).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	c, err := New(baseURL, append([]Option{WithLogger(quietLogger())}, opts...)...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func sampleElements() []element.Element {
	els := []element.Element{
		element.New(element.KindText, anchor.BottomRight, 2),
		element.New(element.KindButton, anchor.Middle, 1),
		element.New(element.KindImage, anchor.TopLeft, 1),
	}
	for i := range els {
		els[i].ID = 10 + i
		els[i].X, els[i].Y = float64(40*i), float64(25*i)
	}
	return els
}

func TestSaveAndFetch(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, newService(t).URL)

	resp, err := c.Save(ctx, sampleElements())
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if !resp.Success || resp.Filename == "" {
		t.Errorf("Save() = %+v", resp)
	}

	got, err := c.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	want := sampleElements()
	if len(got) != len(want) {
		t.Fatalf("Fetch() returned %d elements, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != i+1 {
			t.Errorf("element %d has ID %d, want %d", i, got[i].ID, i+1)
		}
		if got[i].Kind != want[i].Kind || got[i].Anchor != want[i].Anchor {
			t.Errorf("element %d = %+v", i, got[i])
		}
		if math.Abs(got[i].X-want[i].X) > 0.5 || math.Abs(got[i].Y-want[i].Y) > 0.5 {
			t.Errorf("element %d at (%v, %v), want (%v, %v)", i, got[i].X, got[i].Y, want[i].X, want[i].Y)
		}
	}

	doc, err := c.FetchNamed(ctx, resp.Filename)
	if err != nil {
		t.Fatalf("FetchNamed() failed: %v", err)
	}
	if doc.Elements[1].Callback != "/api/button/11" {
		t.Errorf("callback = %q", doc.Elements[1].Callback)
	}

	sums, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(sums) != 1 || sums[0].Filename != resp.Filename {
		t.Errorf("List() = %+v", sums)
	}
}

func TestSave_Empty(t *testing.T) {
	c := newClient(t, newService(t).URL)
	_, err := c.Save(context.Background(), nil)
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("Save(nil) error = %v", err)
	}
}

func TestFetch_NotFound(t *testing.T) {
	c := newClient(t, newService(t).URL)
	_, err := c.Fetch(context.Background())
	if !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Fatalf("Fetch() error = %v, want LAYOUT_NOT_FOUND", err)
	}
	if msg := errors.UserMessage(err); msg != "No layout found" {
		t.Errorf("UserMessage() = %q", msg)
	}
}

func TestFetchInto(t *testing.T) {
	ctx := context.Background()
	srv := newService(t)
	c := newClient(t, srv.URL)

	store := editor.NewStore(editor.WithLogger(quietLogger()))
	store.Add(ctx, element.New(element.KindText, anchor.TopLeft, 1))
	before := store.State()

	// Nothing saved yet: the store must not change.
	if err := c.FetchInto(ctx, store); err == nil {
		t.Fatal("FetchInto() succeeded on an empty service")
	}
	if after := store.State(); after.Len() != before.Len() || after.NextID != before.NextID {
		t.Errorf("store changed on failed fetch: %+v", after)
	}

	if _, err := c.Save(ctx, sampleElements()); err != nil {
		t.Fatal(err)
	}
	if err := c.FetchInto(ctx, store); err != nil {
		t.Fatalf("FetchInto() failed: %v", err)
	}
	st := store.State()
	if st.Len() != 3 || st.Elements[0].ID != 1 || st.NextID != 4 {
		t.Errorf("store after fetch = %+v", st)
	}
}

func TestFetchInto_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ctx := context.Background()
	c := newClient(t, url)
	store := editor.NewStore(editor.WithLogger(quietLogger()))
	store.Add(ctx, element.New(element.KindButton, anchor.Middle, 1))

	err := c.FetchInto(ctx, store)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("FetchInto() error = %v, want NETWORK_ERROR", err)
	}
	if store.State().Len() != 1 {
		t.Error("store changed on failed fetch")
	}
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	srv := newService(t)
	cache, err := httputil.NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}

	c := newClient(t, srv.URL, WithCache(cache))
	if _, ok := c.Cached(); ok {
		t.Error("Cached() hit before any fetch")
	}
	if _, err := c.Save(ctx, sampleElements()); err != nil {
		t.Fatal(err)
	}
	fetched, err := c.FetchDocument(ctx)
	if err != nil {
		t.Fatal(err)
	}

	srv.Close()
	offline := newClient(t, srv.URL, WithCache(cache))
	if _, err := offline.FetchDocument(ctx); err == nil {
		t.Fatal("FetchDocument() succeeded against a closed server")
	}
	doc, ok := offline.Cached()
	if !ok {
		t.Fatal("Cached() missed after a successful fetch")
	}
	if doc.Metadata.Filename != fetched.Metadata.Filename || len(doc.Elements) != len(fetched.Elements) {
		t.Errorf("Cached() = %+v", doc)
	}
}

func TestRetries(t *testing.T) {
	var calls atomic.Int32
	inner := api.New(storage.NewMemoryStore(), api.WithLogger(quietLogger())).Handler()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"success": false, "message": "warming up"}`, http.StatusServiceUnavailable)
			return
		}
		inner.ServeHTTP(w, r)
	}))
	defer srv.Close()
	ctx := context.Background()

	// A single attempt by default.
	_, err := newClient(t, srv.URL).List(ctx)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("List() error = %v, want NETWORK_ERROR", err)
	}
	if msg := errors.UserMessage(err); msg != "warming up" {
		t.Errorf("UserMessage() = %q", msg)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}

	calls.Store(0)
	if _, err := newClient(t, srv.URL, WithRetries(2)).List(ctx); err != nil {
		t.Errorf("List() with retries failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "localhost:5000", "ftp://host"} {
		if _, err := New(u); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("New(%q) error = %v", u, err)
		}
	}
}
