package loan

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"corplibrary/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type createLoanReq struct {
	BookID     int64     `json:"bookId" validate:"required,gt=0"`
	EmployeeID int64     `json:"employeeId" validate:"omitempty,gt=0"`
	DueDate    time.Time `json:"dueDate" validate:"required"`
	Notes      *string   `json:"notes" validate:"omitempty,max=500"`
}

type returnLoanReq struct {
	ReturnDate *time.Time `json:"returnDate"`
	Notes      *string    `json:"notes" validate:"omitempty,max=500"`
}

// List handles GET /loans.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.svc.List(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if loans == nil {
		loans = []Loan{}
	}
	httpx.JSONSuccess(w, r, loans, nil)
}

// Get handles GET /loans/{id}.
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid loan id", nil)
		return
	}

	l, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Loan not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, l, nil)
}

// ListActive handles GET /loans/active.
func (h *HTTPHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	loans, err := h.svc.ListActive(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if loans == nil {
		loans = []Loan{}
	}
	httpx.JSONSuccess(w, r, loans, nil)
}

// ListOverdue handles GET /loans/overdue.
func (h *HTTPHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	loans, err := h.svc.ListOverdue(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if loans == nil {
		loans = []Loan{}
	}
	httpx.JSONSuccess(w, r, loans, nil)
}

// ListByEmployee handles GET /employees/{id}/loans.
func (h *HTTPHandler) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid employee id", nil)
		return
	}

	loans, err := h.svc.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if loans == nil {
		loans = []Loan{}
	}
	httpx.JSONSuccess(w, r, loans, nil)
}

// Create handles POST /loans. Callers without a staff role may only
// borrow for themselves: the employee id comes from their token.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := httpx.IdentityFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	var req createLoanReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if !identity.IsStaff() {
		if identity.EmployeeID == nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REFERENCE",
				"Your account is not linked to an employee. Contact an administrator.", nil)
			return
		}
		req.EmployeeID = *identity.EmployeeID
	}

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}
	if req.EmployeeID == 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input",
			[]httpx.ErrorDetail{{Field: "employeeid", Message: "is required"}})
		return
	}

	l, err := h.svc.Create(r.Context(), CreateInput{
		BookID:     req.BookID,
		EmployeeID: req.EmployeeID,
		DueDate:    req.DueDate,
		Notes:      req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REFERENCE", "Book not found", nil)
		case errors.Is(err, ErrEmployeeNotFound):
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REFERENCE", "Employee not found", nil)
		case errors.Is(err, ErrBookUnavailable):
			httpx.JSONError(w, r, http.StatusBadRequest, "CONFLICT", "Book is not available", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccessCreated(w, r, l)
}

// Return handles POST /loans/{id}/return.
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid loan id", nil)
		return
	}

	var req returnLoanReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	l, err := h.svc.Return(r.Context(), id, ReturnInput{
		ReturnDate: req.ReturnDate,
		Notes:      req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Loan not found", nil)
		case errors.Is(err, ErrAlreadyReturned):
			httpx.JSONError(w, r, http.StatusBadRequest, "CONFLICT", "Loan has already been returned", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccess(w, r, l, nil)
}
