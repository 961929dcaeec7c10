package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"corplibrary/internal/httpx"
	"corplibrary/internal/platform/crypto"
	"corplibrary/internal/user"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type loginReq struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// Login handles POST /auth/login.
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	session, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, session, nil)
}

type registerReq struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email,max=100"`
	Password   string `json:"password" validate:"required,min=6,max=100"`
	Role       string `json:"role" validate:"library_role"`
	EmployeeID *int64 `json:"employeeId" validate:"omitempty,gt=0"`
}

// Register handles POST /auth/register. Once any user exists, only an
// Admin may create accounts; the very first registration bootstraps the
// instance.
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	hasUsers, err := h.svc.HasAnyUsers(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if hasUsers {
		identity, ok := httpx.IdentityFrom(r)
		if !ok {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
			return
		}
		if identity.Role != "Admin" {
			httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Only administrators may register users", nil)
			return
		}
	}

	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	session, err := h.svc.Register(r.Context(), RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken):
			httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Username already exists", nil)
		case errors.Is(err, user.ErrEmailTaken):
			httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Email already exists", nil)
		case errors.Is(err, user.ErrEmployeeNotFound):
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REFERENCE", "Employee not found", nil)
		case errors.Is(err, crypto.ErrPasswordTooShort):
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Password must be at least 6 characters", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccessCreated(w, r, session)
}

type changePasswordReq struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=100"`
}

// ChangePassword handles POST /auth/change-password.
func (h *HTTPHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := httpx.IdentityFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	var req changePasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), identity.UserID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			httpx.JSONError(w, r, http.StatusBadRequest, "CONFLICT", "Current password is incorrect", nil)
		case errors.Is(err, crypto.ErrPasswordTooShort):
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Password must be at least 6 characters", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// Me handles GET /auth/me.
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := httpx.IdentityFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	u, err := h.svc.GetUser(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

// ListUsers handles GET /auth/users (Admin).
func (h *HTTPHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if users == nil {
		users = []user.User{}
	}
	httpx.JSONSuccess(w, r, users, nil)
}
