package httpx

import (
	"context"
	"net/http"
	"strconv"
)

// Identity is the caller as asserted by the authenticating gateway in
// front of this service. The service trusts these headers; verifying them
// is the gateway's job.
type Identity struct {
	UserID int64
	Name   string
	Email  string
	Role   string
}

func (id Identity) Admin() bool { return id.Role == "admin" }

type ctxKey struct{}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// WithIdentity extracts the caller identity from the X-User-* headers and
// rejects requests without one.
func WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get("X-User-Id"), 10, 64)
		if err != nil || userID <= 0 {
			respondError(w, http.StatusUnauthorized, "not authorized")
			return
		}
		id := Identity{
			UserID: userID,
			Name:   r.Header.Get("X-User-Name"),
			Email:  r.Header.Get("X-User-Email"),
			Role:   r.Header.Get("X-User-Role"),
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok || !id.Admin() {
			respondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
