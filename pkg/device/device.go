// Package device notifies an e-ink display that a new layout is available.
//
// After the layout service stores a layout it POSTs to <device>/refresh;
// the display then pulls /layout/get-layout and redraws. A refresh is best
// effort: the outcome is reported to the caller as a status line, never as
// a failed save.
package device

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/httputil"
	"github.com/matzehuels/einkplacer/pkg/observability"
)

// DefaultTimeout bounds a single refresh request.
const DefaultTimeout = 5 * time.Second

// ErrDisabled is returned by [Notifier.Refresh] when no device is configured.
var ErrDisabled = stderrors.New("display refresh disabled")

// Notifier triggers display refreshes.
type Notifier struct {
	url    string
	http   *http.Client
	logger *log.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithHTTPClient replaces the HTTP client. Its timeout is used as is.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		if c != nil {
			n.http = c
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.http = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger for refresh failures.
func WithLogger(l *log.Logger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// New creates a notifier for the display at baseURL, e.g.
// "http://192.168.1.8". An empty baseURL yields a disabled notifier.
func New(baseURL string, opts ...Option) *Notifier {
	n := &Notifier{
		http:   &http.Client{Timeout: DefaultTimeout},
		logger: log.Default(),
	}
	if baseURL != "" {
		n.url = strings.TrimSuffix(baseURL, "/") + "/refresh"
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Enabled reports whether a device is configured.
func (n *Notifier) Enabled() bool { return n != nil && n.url != "" }

// URL returns the refresh endpoint, or "" when disabled.
func (n *Notifier) URL() string {
	if n == nil {
		return ""
	}
	return n.url
}

// Refresh asks the display to redraw. Any status other than 200 is an error.
func (n *Notifier) Refresh(ctx context.Context) error {
	if !n.Enabled() {
		return ErrDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "build refresh request")
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := n.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		n.logger.Warn("display refresh failed", "url", n.url, "err", err)
		return errors.Wrap(errors.ErrCodeNetwork, err, "refresh display")
	}
	resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		n.logger.Warn("display refresh failed", "url", n.url, "status", resp.StatusCode)
		return errors.Wrap(errors.ErrCodeNetwork, fmt.Errorf("%w: status %d", httputil.ErrNetwork, resp.StatusCode), "refresh display")
	}
	n.logger.Debug("display refreshed", "url", n.url)
	return nil
}

// Status turns the result of [Notifier.Refresh] into the status line shown
// to users after a save.
func Status(err error) string {
	switch {
	case err == nil:
		return "Display refresh successful"
	case stderrors.Is(err, ErrDisabled):
		return "Display refresh disabled"
	case stderrors.Is(err, httputil.ErrNetwork):
		return "Display refresh failed"
	default:
		return "Display refresh error: " + rootCause(err)
	}
}

func rootCause(err error) string {
	for {
		next := stderrors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
