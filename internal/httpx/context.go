package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	identityKey  contextKey = "identity"
	requestIDKey contextKey = "requestID"
)

// Identity is the authorization context resolved once at the request
// boundary and passed down to handlers and services.
type Identity struct {
	UserID     int64
	Username   string
	Role       string
	EmployeeID *int64
}

func (id Identity) IsStaff() bool {
	return id.Role == "Admin" || id.Role == "Librarian"
}

// ContextWithIdentity returns a new context carrying the caller identity.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom retrieves the caller identity from the request context.
// The second return is false on unauthenticated requests.
func IdentityFrom(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
