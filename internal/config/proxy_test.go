package config

import (
	"os"
	"path/filepath"
	"testing"

	"kbchat/internal/proxy"
)

func TestParseProxyRoutes(t *testing.T) {
	src := []byte(`
routes:
  - prefix: /api
    target: http://192.168.0.101:8000
    rewrite: true
    change_origin: true
  - prefix: /files
    target: https://cdn.example.com
`)

	routes, err := parseProxyRoutes(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}

	want := proxy.Route{Prefix: "/api", Target: "http://192.168.0.101:8000", Rewrite: true, ChangeOrigin: true}
	if routes[0] != want {
		t.Errorf("expected %+v, got %+v", want, routes[0])
	}
	if routes[1].Rewrite || routes[1].ChangeOrigin {
		t.Errorf("expected rewrite/change_origin to default to false, got %+v", routes[1])
	}
}

func TestParseProxyRoutes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no routes", "routes: []"},
		{"bad yaml", "routes: [prefix"},
		{"bad target", "routes:\n  - prefix: /api\n    target: not-a-url\n"},
		{"duplicate prefix", "routes:\n  - prefix: /api\n    target: http://a\n  - prefix: /api\n    target: http://b\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseProxyRoutes([]byte(tc.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestProxyRoutes_FromEnvAndFile(t *testing.T) {
	cfg := &Config{ProxyPrefix: "/backend", ProxyTarget: "http://localhost:8000"}
	routes, err := cfg.ProxyRoutes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 1 || routes[0].Prefix != "/backend" || !routes[0].Rewrite || !routes[0].ChangeOrigin {
		t.Errorf("unexpected env route: %+v", routes)
	}

	path := filepath.Join(t.TempDir(), "proxy.yaml")
	if err := os.WriteFile(path, []byte("routes:\n  - prefix: /api\n    target: http://localhost:9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.ProxyConfig = path
	routes, err = cfg.ProxyRoutes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if routes[0].Target != "http://localhost:9000" {
		t.Errorf("expected file route, got %+v", routes[0])
	}
}
