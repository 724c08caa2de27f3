package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/einkplacer/pkg/device"
	"github.com/matzehuels/einkplacer/pkg/storage"
)

// maxBodyBytes caps the size of an uploaded layout.
const maxBodyBytes = 1 << 20

const shutdownTimeout = 5 * time.Second

// Server is the layout service.
type Server struct {
	store  storage.Store
	device *device.Notifier
	logger *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithDevice sets the display notified after each save.
func WithDevice(n *device.Notifier) Option {
	return func(s *Server) { s.device = n }
}

// WithLogger sets the logger for request and error output.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Server backed by store. Without [WithDevice] saves do not
// refresh any display.
func New(store storage.Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		device: device.New(""),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get(PathHealth, s.handleHealth)
	r.Route("/layout", func(r chi.Router) {
		r.Post("/save-layout", s.handleSave)
		r.Get("/get-layout", s.handleLatest)
		r.Get("/list-layout", s.handleList)
		r.Get("/{name}", s.handleGet)
	})
	return r
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like [Server.ListenAndServe] on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("layout service listening", "addr", ln.Addr().String(), "display", s.device.URL())

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: msg})
}
