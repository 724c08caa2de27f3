package api

import "github.com/matzehuels/einkplacer/pkg/layoutio"

// Route paths, relative to the service root.
const (
	PathSave   = "/layout/save-layout"
	PathLatest = "/layout/get-layout"
	PathList   = "/layout/list-layout"
	PathLayout = "/layout/"
	PathHealth = "/healthz"
)

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SaveResponse is returned by POST /layout/save-layout.
type SaveResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Path     string `json:"path"`
	Filename string `json:"filename"`
	ID       string `json:"id,omitempty"`
}

// LayoutResponse is returned by GET /layout/get-layout and GET /layout/{name}.
type LayoutResponse struct {
	Success bool               `json:"success"`
	Layout  *layoutio.Document `json:"layout"`
}

// ListResponse is returned by GET /layout/list-layout.
type ListResponse struct {
	Success bool               `json:"success"`
	Layouts []layoutio.Summary `json:"layouts"`
}
