package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
	"github.com/aussiebroadwan/storefront/internal/shop/service"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithSnapshot(t *testing.T, snap domain.Snapshot) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), ctxKeySnapshot, snap)
	return req.WithContext(ctx)
}

func authenticatedSnapshot(role domain.Role) domain.Snapshot {
	return domain.Snapshot{
		State:    domain.Authenticated,
		Identity: domain.Identity{UserID: "u1", Username: "alice", Role: role},
	}
}

func TestRequireAuthenticated(t *testing.T) {
	t.Parallel()

	h := httpx.Chain(okHandler(), RequireAuthenticated())

	cases := []struct {
		name string
		snap domain.Snapshot
		want int
	}{
		{"anonymous is rejected", domain.Snapshot{}, http.StatusUnauthorized},
		{"pending is rejected", domain.Snapshot{State: domain.PendingSecondFactor}, http.StatusUnauthorized},
		{"authenticated is allowed", authenticatedSnapshot(domain.RoleUser), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, requestWithSnapshot(t, tc.snap))
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	h := httpx.Chain(okHandler(), RequireRole(domain.RoleAdmin))

	cases := []struct {
		name string
		snap domain.Snapshot
		want int
	}{
		{"anonymous gets 401", domain.Snapshot{}, http.StatusUnauthorized},
		{"pending gets 401", domain.Snapshot{State: domain.PendingSecondFactor}, http.StatusUnauthorized},
		{"wrong role gets 403", authenticatedSnapshot(domain.RoleUser), http.StatusForbidden},
		{"admin is allowed", authenticatedSnapshot(domain.RoleAdmin), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, requestWithSnapshot(t, tc.snap))
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequirePendingFactor(t *testing.T) {
	t.Parallel()

	h := httpx.Chain(okHandler(), RequirePendingFactor())

	t.Run("pending is allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithSnapshot(t, domain.Snapshot{State: domain.PendingSecondFactor}))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("authenticated is redirected home, not rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithSnapshot(t, authenticatedSnapshot(domain.RoleUser)))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("anonymous is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithSnapshot(t, domain.Snapshot{}))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestWithSession(t *testing.T) {
	t.Parallel()

	sessions := service.NewSessionService()
	token, err := sessions.Create()
	require.NoError(t, err)
	require.NoError(t, sessions.Update(token, func(s *domain.ClientSession) error {
		s.BeginPendingFactor(domain.Identity{UserID: "u1"})
		return s.CompleteAuthentication()
	}))

	var got domain.Snapshot
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = snapshotFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}), WithSession(sessions))

	t.Run("cookie resolves to the session state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		h.ServeHTTP(httptest.NewRecorder(), req)
		require.True(t, got.IsAuthenticated())
		require.Equal(t, "u1", got.Identity.UserID)
	})

	t.Run("missing cookie reads as anonymous", func(t *testing.T) {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, domain.Anonymous, got.State)
	})

	t.Run("bogus cookie reads as anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
		h.ServeHTTP(httptest.NewRecorder(), req)
		require.Equal(t, domain.Anonymous, got.State)
	})
}

func TestWithAPIToken(t *testing.T) {
	t.Parallel()

	signer := jwtx.Signer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: time.Hour}

	var got domain.Snapshot
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = snapshotFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}), WithAPIToken(signer))

	t.Run("valid bearer token reads as authenticated", func(t *testing.T) {
		token, err := signer.Mint("u1", "alice", "admin")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, got.HasRole(domain.RoleAdmin))
		require.Equal(t, "u1", got.Identity.UserID)
	})

	t.Run("garbage bearer token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("no header passes through anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, domain.Anonymous, got.State)
	})
}
