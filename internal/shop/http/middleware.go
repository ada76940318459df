package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
	"github.com/aussiebroadwan/storefront/internal/shop/service"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
)

// SessionCookieName is the cookie holding the opaque session token.
const SessionCookieName = "storefront_session"

// WithSession resolves the session cookie into a snapshot on the request
// context. Requests without a cookie, or with a stale one, proceed as
// anonymous.
func WithSession(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySessionToken, cookie.Value)
			if snap, err := sessions.Snapshot(cookie.Value); err == nil {
				ctx = context.WithValue(ctx, ctxKeySnapshot, snap)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithAPIToken accepts a bearer JWT as an alternative to the cookie, for
// non-browser clients. A valid token reads as an authenticated snapshot. It
// never overrides a snapshot the cookie already resolved.
func WithAPIToken(verifier jwtx.Signer) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(ctxKeySnapshot).(domain.Snapshot); ok {
				next.ServeHTTP(w, r)
				return
			}

			authz := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authz, "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			role, err := domain.ParseRole(claims.Role)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			snap := domain.Snapshot{
				State: domain.Authenticated,
				Identity: domain.Identity{
					UserID:   claims.Subject,
					Username: claims.Username,
					Role:     role,
				},
			}
			ctx := context.WithValue(r.Context(), ctxKeySnapshot, snap)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated rejects any request whose session has not completed
// the second factor. A session still awaiting its code is rejected the same
// as an anonymous one.
func RequireAuthenticated() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !snapshotFromContext(r.Context()).IsAuthenticated() {
				httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects authenticated sessions whose role is not in the
// allowed set, and unauthenticated sessions outright.
func RequireRole(roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := snapshotFromContext(r.Context())
			if !snap.IsAuthenticated() {
				httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !snap.HasRole(roles...) {
				httpx.WriteError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePendingFactor gates the code-entry step itself. An already
// authenticated session is sent back to the landing page rather than
// rejected, since re-entering a code would be pointless, and an anonymous
// session is rejected because there is nothing to verify.
func RequirePendingFactor() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := snapshotFromContext(r.Context())
			if snap.IsAuthenticated() {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			if !snap.IsPendingFactor() {
				httpx.WriteError(w, http.StatusUnauthorized, "no login in progress")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
