// Package client talks to the layout service.
//
// [Client.Fetch] downloads the latest layout and converts it into editable
// display-space elements; [Client.Save] exports elements and uploads them.
// The last fetched layout is cached on disk so that it can still be shown
// when the service is unreachable.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/api"
	"github.com/matzehuels/einkplacer/pkg/editor"
	"github.com/matzehuels/einkplacer/pkg/element"
	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/httputil"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
	"github.com/matzehuels/einkplacer/pkg/observability"
)

const (
	httpTimeout  = 10 * time.Second
	retryDelay   = 500 * time.Millisecond
	latestKey    = "latest"
	cachePrefix  = "layout:"
	maxErrorBody = 4 << 10
)

// Client is a layout service client. It is safe for concurrent use if the
// configured cache is not shared with other goroutines.
type Client struct {
	baseURL   string
	http      *http.Client
	transform anchor.Transform
	cache     *httputil.Cache
	retries   int
	logger    *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTransform sets the canvas transform used for import and export.
func WithTransform(t anchor.Transform) Option {
	return func(c *Client) { c.transform = t }
}

// WithCache enables the offline cache of fetched layouts.
func WithCache(cache *httputil.Cache) Option {
	return func(c *Client) {
		if cache != nil {
			c.cache = cache.Namespace(cachePrefix)
		}
	}
}

// WithRetries sets the number of attempts per request. Values below 1 mean
// a single attempt.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = max(n, 1) }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the service at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		http:      &http.Client{Timeout: httpTimeout},
		transform: anchor.Default(),
		retries:   1,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchDocument returns the latest layout as stored, in device space.
// On success the layout is written to the cache.
func (c *Client) FetchDocument(ctx context.Context) (*layoutio.Document, error) {
	var resp api.LayoutResponse
	if err := c.do(ctx, http.MethodGet, api.PathLatest, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Layout == nil {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "response carries no layout")
	}
	c.store(latestKey, resp.Layout)
	return resp.Layout, nil
}

// FetchNamed returns a stored layout by filename or ID.
func (c *Client) FetchNamed(ctx context.Context, name string) (*layoutio.Document, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}
	var resp api.LayoutResponse
	if err := c.do(ctx, http.MethodGet, api.PathLayout+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Layout == nil {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "response carries no layout")
	}
	return resp.Layout, nil
}

// Fetch returns the latest layout as display-space elements with ids 1..n.
func (c *Client) Fetch(ctx context.Context) ([]element.Element, error) {
	doc, err := c.FetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	return layoutio.Import(doc.Elements, c.transform), nil
}

// Cached returns the layout stored by the last successful fetch.
func (c *Client) Cached() (*layoutio.Document, bool) {
	if c.cache == nil {
		return nil, false
	}
	var doc layoutio.Document
	ok, err := c.cache.Get(latestKey, &doc)
	if err != nil {
		if !stderrors.Is(err, httputil.ErrExpired) {
			c.logger.Debug("read cached layout", "err", err)
		}
		return nil, false
	}
	return &doc, ok
}

// FetchInto loads the latest layout into store. If the fetch fails the
// error is logged and returned, and store is left unchanged.
func (c *Client) FetchInto(ctx context.Context, store *editor.Store) error {
	elements, err := c.Fetch(ctx)
	if err != nil {
		c.logger.Error("fetch layout", "url", c.baseURL+api.PathLatest, "err", err)
		return err
	}
	store.Dispatch(ctx, editor.Load{Elements: elements})
	c.logger.Info("layout loaded", "elements", len(elements))
	return nil
}

// Save exports elements with the client transform and uploads them.
func (c *Client) Save(ctx context.Context, elements []element.Element) (*api.SaveResponse, error) {
	return c.SaveRecords(ctx, layoutio.Export(elements, c.transform))
}

// SaveRecords uploads records that are already in device space.
func (c *Client) SaveRecords(ctx context.Context, records []layoutio.Record) (*api.SaveResponse, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "layout has no elements")
	}
	body, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	var resp api.SaveResponse
	if err := c.do(ctx, http.MethodPost, api.PathSave, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns the stored layouts, newest first.
func (c *Client) List(ctx context.Context) ([]layoutio.Summary, error) {
	var resp api.ListResponse
	if err := c.do(ctx, http.MethodGet, api.PathList, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Layouts, nil
}

func (c *Client) store(key string, v any) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(key, v); err != nil {
		c.logger.Debug("cache layout", "err", err)
	}
}

// do performs a request with retries and decodes a 2xx JSON body into v.
func (c *Client) do(ctx context.Context, method, path string, body []byte, v any) error {
	err := httputil.Retry(ctx, c.retries, retryDelay, func() error {
		return c.once(ctx, method, path, body, v)
	})
	if err == nil {
		return nil
	}
	var coded *errors.Error
	if stderrors.As(err, &coded) {
		return err
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s %s", method, path)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path)
}

func (c *Client) once(ctx context.Context, method, path string, body []byte, v any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httputil.Retryable(fmt.Errorf("%w: %v", httputil.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))
	c.logger.Debug("request", "method", method, "url", req.URL.String(), "status", resp.StatusCode)

	if err := httputil.CheckStatus(resp.StatusCode); err != nil {
		return statusError(resp, err)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode response")
	}
	return nil
}

// statusError attaches the service's message to a failed response.
func statusError(resp *http.Response, err error) error {
	var e api.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := http.StatusText(resp.StatusCode)
	if json.Unmarshal(data, &e) == nil && e.Message != "" {
		msg = e.Message
	}

	switch {
	case stderrors.Is(err, httputil.ErrNotFound):
		return errors.Wrap(errors.ErrCodeLayoutNotFound, err, "%s", msg)
	case resp.StatusCode == http.StatusBadRequest:
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "%s", msg)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "%s", msg)
	}
}
