package shop_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	shophttp "github.com/aussiebroadwan/storefront/internal/shop/http"
	"github.com/aussiebroadwan/storefront/internal/shop/service"
	"github.com/aussiebroadwan/storefront/internal/shop/store/drivers/memory"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
)

/*
 * Common helpers for storefront end-to-end tests. Each test gets its own
 * in-process server over a fresh in-memory store, so state and rate limiter
 * tables never leak between tests.
 */

const (
	alicePassword = "Abcdef1!"
	adminPassword = "Admin123!"
)

// codeCapture records the most recent one-time code instead of delivering
// it, standing in for the out-of-band channel.
type codeCapture struct {
	code string
}

func (c *codeCapture) SendCode(_ context.Context, _, code string) error {
	c.code = code
	return nil
}

type testServer struct {
	*httptest.Server

	client *http.Client
	codes  *codeCapture
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	codes := &codeCapture{}
	twoFactor := service.NewTwoFactorService(st, codes)

	signer := jwtx.Signer{Secret: []byte("e2e-test-secret"), Issuer: "storefront", TTL: time.Hour}

	router := shophttp.NewRouter(signer, "test", st, logger)
	router.AccountService = service.NewAccountService(st)
	router.TwoFactorService = twoFactor
	router.SessionService = service.NewSessionService()
	router.ProductService = service.NewProductService(st)
	router.ApplyRoutes()

	require.NoError(t, router.ProductService.Seed(context.Background()))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testServer{
		Server: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		codes: codes,
	}
}

func (s *testServer) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := s.client.Post(s.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func (s *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()

	resp, err := s.client.Get(s.URL + path)
	require.NoError(t, err)
	return resp
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// signup registers an account and asserts success.
func (s *testServer) signup(t *testing.T, username, email, password, role string) {
	t.Helper()

	resp := s.postJSON(t, "/v1/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"role":     role,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// login performs the credential step and returns the captured one-time code.
func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()

	resp := s.postJSON(t, "/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})

	var body struct {
		TwoFactorRequired bool `json:"two_factor_required"`
		ExpiresIn         int  `json:"expires_in"`
	}
	decodeJSON(t, resp, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, body.TwoFactorRequired)
	require.Positive(t, body.ExpiresIn)
	require.NotEmpty(t, s.codes.code)

	return s.codes.code
}

// verify submits a code and returns the response for the caller to assert on.
func (s *testServer) verify(t *testing.T, code string) *http.Response {
	t.Helper()
	return s.postJSON(t, "/v1/auth/2fa/verify", map[string]string{"code": code})
}

// loginAndVerify walks the full two-step login and returns the API token.
func (s *testServer) loginAndVerify(t *testing.T, email, password string) string {
	t.Helper()

	code := s.login(t, email, password)
	resp := s.verify(t, code)

	var body struct {
		APIToken string `json:"api_token"`
		User     struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	decodeJSON(t, resp, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body.APIToken)

	return body.APIToken
}
