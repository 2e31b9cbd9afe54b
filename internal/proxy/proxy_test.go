package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbchat/internal/models"
)

type upstreamSeen struct {
	Path  string `json:"path"`
	Query string `json:"query"`
	Host  string `json:"host"`
	XFF   string `json:"xff"`
}

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(upstreamSeen{
			Path:  r.URL.Path,
			Query: r.URL.RawQuery,
			Host:  r.Host,
			XFF:   r.Header.Get("X-Forwarded-For"),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, h http.Handler, target string) upstreamSeen {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Host = "localhost:5173"
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var seen upstreamSeen
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&seen))
	return seen
}

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		path, prefix, want string
	}{
		{"/api/chat/", "/api", "/chat/"},
		{"/api/system-prompt/", "/api/", "/system-prompt/"},
		{"/api", "/api", "/"},
		{"/api/", "/api", "/"},
		{"/other", "/api", "/other"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StripPrefix(tc.path, tc.prefix), "%s - %s", tc.path, tc.prefix)
	}
}

func TestProxy_RewritesPathAndOrigin(t *testing.T) {
	up := upstream(t)
	u, _ := url.Parse(up.URL)

	route := DefaultRoute()
	route.Target = up.URL
	h, err := New(route)
	require.NoError(t, err)

	seen := get(t, h, "/api/chat/?stream=1")
	assert.Equal(t, "/chat/", seen.Path)
	assert.Equal(t, "stream=1", seen.Query)
	assert.Equal(t, u.Host, seen.Host)
	assert.NotEmpty(t, seen.XFF)
}

func TestProxy_KeepsPathAndHostWhenDisabled(t *testing.T) {
	up := upstream(t)

	h, err := New(Route{Prefix: "/api", Target: up.URL})
	require.NoError(t, err)

	seen := get(t, h, "/api/chat/")
	assert.Equal(t, "/api/chat/", seen.Path)
	assert.Equal(t, "localhost:5173", seen.Host)
}

func TestProxy_TargetBasePath(t *testing.T) {
	up := upstream(t)

	h, err := New(Route{Prefix: "/api", Target: up.URL + "/v1", Rewrite: true, ChangeOrigin: true})
	require.NoError(t, err)

	seen := get(t, h, "/api/uploadfile/")
	assert.Equal(t, "/v1/uploadfile/", seen.Path)
}

func TestProxy_UpstreamDown(t *testing.T) {
	up := httptest.NewServer(http.NotFoundHandler())
	target := up.URL
	up.Close()

	h, err := New(Route{Prefix: "/api", Target: target, Rewrite: true, ChangeOrigin: true})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/chat/", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	body, _ := io.ReadAll(rr.Body)
	var env models.Envelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, models.CodeFailed, env.Code)
	assert.Equal(t, "Bad gateway", env.Message)
}

func TestRoute_Validate(t *testing.T) {
	tests := []struct {
		name    string
		route   Route
		wantErr bool
	}{
		{"default", DefaultRoute(), false},
		{"relative prefix", Route{Prefix: "api", Target: "http://x"}, true},
		{"bad scheme", Route{Prefix: "/api", Target: "ftp://x"}, true},
		{"no host", Route{Prefix: "/api", Target: "http://"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.route.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
