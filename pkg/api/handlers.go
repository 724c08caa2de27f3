package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/einkplacer/pkg/device"
	"github.com/matzehuels/einkplacer/pkg/errors"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
	"github.com/matzehuels/einkplacer/pkg/storage"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := layoutio.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || len(doc.Elements) == 0 {
		s.logger.Debug("rejected layout", "err", err)
		writeError(w, http.StatusBadRequest, "No data received")
		return
	}
	for _, rec := range doc.Elements {
		if !rec.Type.Valid() {
			writeError(w, http.StatusBadRequest, "Unknown element type: "+string(rec.Type))
			return
		}
	}

	sum, err := s.store.Save(ctx, doc.Elements)
	if err != nil {
		s.logger.Error("save layout", "err", err)
		writeError(w, http.StatusInternalServerError, "Error saving layout: "+errors.UserMessage(err))
		return
	}
	s.logger.Info("layout saved", "filename", sum.Filename, "elements", len(doc.Elements))

	status := device.Status(s.device.Refresh(ctx))
	writeJSON(w, http.StatusOK, SaveResponse{
		Success:  true,
		Message:  "Layout saved successfully. " + status,
		Path:     sum.Path,
		Filename: sum.Filename,
		ID:       sum.ID,
	})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Latest(r.Context())
	if err != nil {
		s.writeLookupError(w, err, "Error loading layout: ")
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{Success: true, Layout: doc})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeLookupError(w, err, "Error loading layout: ")
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{Success: true, Layout: doc})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	sums, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list layouts", "err", err)
		writeError(w, http.StatusInternalServerError, "Error listing layouts: "+errors.UserMessage(err))
		return
	}
	if sums == nil {
		sums = []layoutio.Summary{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Success: true, Layouts: sums})
}

// writeLookupError answers 404 for missing layouts, 400 for bad names and
// 500 otherwise.
func (s *Server) writeLookupError(w http.ResponseWriter, err error, prefix string) {
	status := errors.HTTPStatus(err)
	switch status {
	case http.StatusNotFound:
		writeError(w, status, storage.ErrNotFound.Message)
	case http.StatusBadRequest:
		writeError(w, status, errors.UserMessage(err))
	default:
		s.logger.Error("load layout", "err", err)
		writeError(w, http.StatusInternalServerError, prefix+errors.UserMessage(err))
	}
}
