package logging

import (
	"net/http"

	"corplibrary/internal/httpx"
)

const tailLimit = 100

// HTTPHandler serves the admin log tail endpoint.
type HTTPHandler struct {
	dir string
}

func NewHTTPHandler(dir string) *HTTPHandler {
	return &HTTPHandler{dir: dir}
}

// Tail handles GET /logs.
func (h *HTTPHandler) Tail(w http.ResponseWriter, r *http.Request) {
	lines, err := TailLatest(h.dir, tailLimit)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not read log files", nil)
		return
	}
	if lines == nil {
		lines = []string{"No log files found."}
	}
	httpx.JSONSuccess(w, r, lines, nil)
}
