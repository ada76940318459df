package shop_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	var livez struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	resp := srv.get(t, "/livez")
	decodeJSON(t, resp, &livez)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", livez.Status)
	require.Equal(t, "test", livez.Version)

	var readyz struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
		} `json:"checks"`
	}
	resp = srv.get(t, "/readyz")
	decodeJSON(t, resp, &readyz)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", readyz.Status)
	require.Equal(t, "ok", readyz.Checks.Database)
}
