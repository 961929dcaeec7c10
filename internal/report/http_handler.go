package report

import (
	"fmt"
	"net/http"
	"time"

	"corplibrary/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Dashboard handles GET /reports/dashboard.
func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, stats, nil)
}

// ExportBooksCSV handles GET /reports/export/books.
func (h *HTTPHandler) ExportBooksCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportBooksCSV(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	writeAttachment(w, data, "text/csv", exportFilename("books", "csv"))
}

// ExportLoansCSV handles GET /reports/export/loans.
func (h *HTTPHandler) ExportLoansCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportLoansCSV(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	writeAttachment(w, data, "text/csv", exportFilename("loans", "csv"))
}

// ExportBooksPDF handles GET /reports/export/books/pdf.
func (h *HTTPHandler) ExportBooksPDF(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportBooksPDF(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	writeAttachment(w, data, "application/pdf", exportFilename("books", "pdf"))
}

// ExportLoansPDF handles GET /reports/export/loans/pdf.
func (h *HTTPHandler) ExportLoansPDF(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportLoansPDF(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	writeAttachment(w, data, "application/pdf", exportFilename("loans", "pdf"))
}

func exportFilename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_1504"), ext)
}

func writeAttachment(w http.ResponseWriter, data []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
