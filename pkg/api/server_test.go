package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/einkplacer/pkg/device"
	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
	"github.com/matzehuels/einkplacer/pkg/storage"
)

const sampleLayout = `[
  {"id": 1, "type": "text", "x": 176, "y": 125, "anchor": "br", "width": 100, "height": 50, "text": "Hi", "level": 2},
  {"id": 2, "type": "button", "x": 76, "y": 75, "anchor": "tl", "width": 100, "height": 50, "text": "Go",
   "callback": "/api/button/2", "filled": true, "radius": 20, "padding_x": 10, "padding_y": 5, "level": 1}
]`

func quietLogger() *log.Logger { return log.New(io.Discard) }

func newTestServer(t *testing.T, store storage.Store, opts ...Option) *httptest.Server {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	srv := httptest.NewServer(New(store, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

func TestSaveAndGetLayout(t *testing.T) {
	var refreshes atomic.Int32
	display := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/refresh" {
			refreshes.Add(1)
		}
	}))
	defer display.Close()

	store := storage.NewMemoryStore()
	srv := newTestServer(t, store, WithDevice(device.New(display.URL, device.WithLogger(quietLogger()))))

	resp := post(t, srv.URL+PathSave, sampleLayout)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status = %d", resp.StatusCode)
	}
	saved := decode[SaveResponse](t, resp)
	if !saved.Success || saved.Filename == "" || saved.Path == "" {
		t.Errorf("save response = %+v", saved)
	}
	if saved.Message != "Layout saved successfully. Display refresh successful" {
		t.Errorf("message = %q", saved.Message)
	}
	if refreshes.Load() != 1 {
		t.Errorf("display refreshed %d times, want 1", refreshes.Load())
	}

	resp = get(t, srv.URL+PathLatest)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	got := decode[LayoutResponse](t, resp)
	if !got.Success || got.Layout == nil || len(got.Layout.Elements) != 2 {
		t.Fatalf("get response = %+v", got)
	}
	if got.Layout.Metadata == nil || got.Layout.Metadata.Filename != saved.Filename {
		t.Errorf("metadata = %+v", got.Layout.Metadata)
	}
	if btn := got.Layout.Elements[1]; btn.Callback != "/api/button/2" || btn.PaddingX == nil || *btn.PaddingX != 10 {
		t.Errorf("button record = %+v", btn)
	}

	resp = get(t, srv.URL+PathLayout+saved.Filename)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get by name status = %d", resp.StatusCode)
	}
	byName := decode[LayoutResponse](t, resp)
	if byName.Layout.Metadata.ID != saved.ID {
		t.Errorf("get by name returned %+v", byName.Layout.Metadata)
	}
}

func TestSaveLayout_DocumentBody(t *testing.T) {
	srv := newTestServer(t, storage.NewMemoryStore())
	resp := post(t, srv.URL+PathSave, `{"elements": `+sampleLayout+`}`)
	saved := decode[SaveResponse](t, resp)
	if resp.StatusCode != http.StatusOK || !saved.Success {
		t.Fatalf("save = %d %+v", resp.StatusCode, saved)
	}
	if !strings.HasSuffix(saved.Message, "Display refresh disabled") {
		t.Errorf("message = %q", saved.Message)
	}
}

func TestSaveLayout_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty body", "", "No data received"},
		{"empty array", "[]", "No data received"},
		{"null", "null", "No data received"},
		{"malformed", "[{", "No data received"},
		{"unknown type", `[{"id":1,"type":"slider"}]`, "Unknown element type: slider"},
	}

	store := storage.NewMemoryStore()
	srv := newTestServer(t, store)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+PathSave, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			e := decode[ErrorResponse](t, resp)
			if e.Success || e.Message != tt.message {
				t.Errorf("response = %+v, want message %q", e, tt.message)
			}
		})
	}

	if sums, _ := store.List(context.Background()); len(sums) != 0 {
		t.Errorf("rejected layouts were stored: %+v", sums)
	}
}

func TestSaveLayout_DisplayFailureStillSucceeds(t *testing.T) {
	display := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer display.Close()

	srv := newTestServer(t, storage.NewMemoryStore(), WithDevice(device.New(display.URL, device.WithLogger(quietLogger()))))
	resp := post(t, srv.URL+PathSave, sampleLayout)
	saved := decode[SaveResponse](t, resp)
	if resp.StatusCode != http.StatusOK || !saved.Success {
		t.Fatalf("save = %d %+v", resp.StatusCode, saved)
	}
	if saved.Message != "Layout saved successfully. Display refresh failed" {
		t.Errorf("message = %q", saved.Message)
	}
}

type failingStore struct{ storage.Store }

func (failingStore) Save(context.Context, []layoutio.Record) (layoutio.Summary, error) {
	return layoutio.Summary{}, errors.New(errors.ErrCodeInternal, "disk full")
}

func (failingStore) List(context.Context) ([]layoutio.Summary, error) {
	return nil, errors.New(errors.ErrCodeInternal, "disk on fire")
}

func (failingStore) Latest(context.Context) (*layoutio.Document, error) {
	return nil, errors.New(errors.ErrCodeInternal, "unreadable")
}

func TestStorageErrors(t *testing.T) {
	srv := newTestServer(t, failingStore{storage.NewMemoryStore()})

	tests := []struct {
		name    string
		resp    func() *http.Response
		message string
	}{
		{"save", func() *http.Response { return post(t, srv.URL+PathSave, sampleLayout) }, "Error saving layout: disk full"},
		{"list", func() *http.Response { return get(t, srv.URL+PathList) }, "Error listing layouts: disk on fire"},
		{"latest", func() *http.Response { return get(t, srv.URL+PathLatest) }, "Error loading layout: unreadable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.resp()
			if resp.StatusCode != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500", resp.StatusCode)
			}
			if e := decode[ErrorResponse](t, resp); e.Message != tt.message {
				t.Errorf("message = %q, want %q", e.Message, tt.message)
			}
		})
	}
}

func TestGetLayout_NotFound(t *testing.T) {
	srv := newTestServer(t, storage.NewMemoryStore())

	for _, path := range []string{PathLatest, PathLayout + "layout_20000101_000000.json"} {
		resp := get(t, srv.URL+path)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
		if e := decode[ErrorResponse](t, resp); e.Message != "No layout found" {
			t.Errorf("GET %s message = %q", path, e.Message)
		}
	}

	resp := get(t, srv.URL+PathLayout+".hidden")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("hidden name status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestListLayouts(t *testing.T) {
	store := storage.NewMemoryStore()
	srv := newTestServer(t, store)

	resp := get(t, srv.URL+PathList)
	empty := decode[ListResponse](t, resp)
	if !empty.Success || empty.Layouts == nil || len(empty.Layouts) != 0 {
		t.Errorf("empty list = %+v", empty)
	}

	for range 3 {
		post(t, srv.URL+PathSave, sampleLayout).Body.Close()
	}
	list := decode[ListResponse](t, get(t, srv.URL+PathList))
	if len(list.Layouts) != 3 {
		t.Fatalf("listed %d layouts, want 3", len(list.Layouts))
	}
	for i := 1; i < len(list.Layouts); i++ {
		if list.Layouts[i].CreatedAt.After(list.Layouts[i-1].CreatedAt) {
			t.Errorf("layouts not newest first: %+v", list.Layouts)
		}
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, storage.NewMemoryStore())
	resp := get(t, srv.URL+PathHealth)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestServe_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := New(storage.NewMemoryStore(), WithLogger(quietLogger()))

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp := get(t, "http://"+ln.Addr().String()+PathHealth)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
