package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"kbchat/internal/proxy"
)

type proxyFile struct {
	Routes []proxy.Route `yaml:"routes"`
}

// ProxyRoutes returns the routes from PROXY_CONFIG when set, otherwise the
// single route described by PROXY_PREFIX and PROXY_TARGET.
func (c *Config) ProxyRoutes() ([]proxy.Route, error) {
	if c.ProxyConfig != "" {
		return LoadProxyRoutes(c.ProxyConfig)
	}
	route := proxy.DefaultRoute()
	route.Prefix = c.ProxyPrefix
	route.Target = c.ProxyTarget
	if err := route.Validate(); err != nil {
		return nil, err
	}
	return []proxy.Route{route}, nil
}

// LoadProxyRoutes reads a YAML file of the form
//
//	routes:
//	  - prefix: /api
//	    target: http://192.168.0.101:8000
//	    rewrite: true
//	    change_origin: true
func LoadProxyRoutes(path string) ([]proxy.Route, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read proxy config: %w", err)
	}
	return parseProxyRoutes(b)
}

func parseProxyRoutes(b []byte) ([]proxy.Route, error) {
	var f proxyFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse proxy config: %w", err)
	}
	if len(f.Routes) == 0 {
		return nil, fmt.Errorf("proxy config has no routes")
	}

	seen := make(map[string]bool, len(f.Routes))
	for _, r := range f.Routes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if seen[r.Prefix] {
			return nil, fmt.Errorf("duplicate route prefix %s", r.Prefix)
		}
		seen[r.Prefix] = true
	}
	return f.Routes, nil
}
