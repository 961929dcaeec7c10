package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"corplibrary/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type bookReq struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	ISBN        string  `json:"isbn" validate:"required,isbn_code"`
	Publisher   string  `json:"publisher" validate:"required,max=100"`
	Year        int     `json:"year" validate:"min=1000,max=2100"`
	Pages       int     `json:"pages" validate:"min=1,max=10000"`
	Description string  `json:"description" validate:"max=2000"`
	CategoryID  int64   `json:"categoryId" validate:"required,gt=0"`
	AuthorIDs   []int64 `json:"authorIds" validate:"required,min=1,dive,gt=0"`
}

// List handles GET /books.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.List(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if books == nil {
		books = []Book{}
	}
	httpx.JSONSuccess(w, r, books, nil)
}

// Get handles GET /books/{id}.
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid book id", nil)
		return
	}

	b, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /books.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.svc.Create(r.Context(), createInputFrom(req))
	if err != nil {
		h.writeMutationError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// Update handles PUT /books/{id}.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid book id", nil)
		return
	}

	var req bookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.svc.Update(r.Context(), id, createInputFrom(req))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		h.writeMutationError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /books/{id}.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid book id", nil)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		case errors.Is(err, ErrInUse):
			httpx.JSONError(w, r, http.StatusBadRequest, "CONFLICT", "Book has loan records and cannot be deleted", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccessNoContent(w)
}

type bulkDeleteReq struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// DeleteBatch handles POST /books/bulk-delete.
func (h *HTTPHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	deleted, err := h.svc.DeleteBatch(r.Context(), req.IDs)
	if err != nil {
		if errors.Is(err, ErrInUse) {
			httpx.JSONError(w, r, http.StatusBadRequest, "CONFLICT", "One or more books have loan records and cannot be deleted", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, map[string]int64{"deleted": deleted}, nil)
}

func (h *HTTPHandler) writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REFERENCE", "Category not found", nil)
	case errors.Is(err, ErrAuthorNotFound):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REFERENCE", "Author not found", nil)
	case errors.Is(err, ErrISBNTaken):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "A book with this ISBN already exists", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

func createInputFrom(req bookReq) CreateInput {
	return CreateInput{
		Title:       req.Title,
		ISBN:        req.ISBN,
		Publisher:   req.Publisher,
		Year:        req.Year,
		Pages:       req.Pages,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		AuthorIDs:   req.AuthorIDs,
	}
}
