package shop_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductsRequireAuthentication(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp := srv.get(t, "/v1/products")
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProductMutationsAreAdminOnly(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.signup(t, "alice", "alice@example.com", alicePassword, "")
	srv.loginAndVerify(t, "alice@example.com", alicePassword)

	resp := srv.do(t, http.MethodPost, "/v1/products", map[string]any{
		"name":  "Stan Smith",
		"price": 110,
	}, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = srv.do(t, http.MethodDelete, "/v1/products/whatever", nil, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminProductCRUD(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.signup(t, "root", "root@example.com", adminPassword, "admin")
	srv.loginAndVerify(t, "root@example.com", adminPassword)

	resp := srv.do(t, http.MethodPost, "/v1/products", map[string]any{
		"name":        "Stan Smith",
		"price":       110,
		"description": "Iconic court sneakers",
	}, nil)
	var created struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	decodeJSON(t, resp, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, created.ID)

	resp = srv.do(t, http.MethodPut, "/v1/products/"+created.ID, map[string]any{
		"price": 95,
	}, nil)
	var updated struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	decodeJSON(t, resp, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Stan Smith", updated.Name)
	require.Equal(t, 95.0, updated.Price)

	resp = srv.do(t, http.MethodDelete, "/v1/products/"+created.ID, nil, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = srv.get(t, "/v1/products/"+created.ID)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductValidationOverHTTP(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.signup(t, "root", "root@example.com", adminPassword, "admin")
	srv.loginAndVerify(t, "root@example.com", adminPassword)

	resp := srv.do(t, http.MethodPost, "/v1/products", map[string]any{
		"name":  "",
		"price": -5,
	}, nil)
	var body struct {
		Errors []string `json:"errors"`
	}
	decodeJSON(t, resp, &body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body.Errors, "name is required")
	require.Contains(t, body.Errors, "price must be positive")
}

func TestBearerTokenAccess(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.signup(t, "root", "root@example.com", adminPassword, "admin")
	token := srv.loginAndVerify(t, "root@example.com", adminPassword)

	// A fresh client with no cookie jar, driven purely by the API token.
	bare := &http.Client{}
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/products", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := bare.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/v1/products", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err = bare.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
