// Package proxy forwards development traffic from the frontend origin to the
// chat backend, the way a bundler's dev-server proxy does.
package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"kbchat/internal/models"
)

const (
	DefaultPrefix = "/api"
	DefaultTarget = "http://192.168.0.101:8000"
)

// Route sends requests under Prefix to Target. With Rewrite the prefix is
// removed from the forwarded path; with ChangeOrigin the Host header is set to
// the target's host.
type Route struct {
	Prefix       string `yaml:"prefix"`
	Target       string `yaml:"target"`
	Rewrite      bool   `yaml:"rewrite"`
	ChangeOrigin bool   `yaml:"change_origin"`
}

func DefaultRoute() Route {
	return Route{
		Prefix:       DefaultPrefix,
		Target:       DefaultTarget,
		Rewrite:      true,
		ChangeOrigin: true,
	}
}

func (r Route) Validate() error {
	if !strings.HasPrefix(r.Prefix, "/") {
		return fmt.Errorf("route prefix %q must start with /", r.Prefix)
	}
	u, err := url.Parse(r.Target)
	if err != nil {
		return fmt.Errorf("route %s: invalid target: %w", r.Prefix, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("route %s: target %q must be http or https", r.Prefix, r.Target)
	}
	if u.Host == "" {
		return errors.New("route " + r.Prefix + ": target has no host")
	}
	return nil
}

// StripPrefix removes prefix from the start of path. An emptied path becomes "/".
func StripPrefix(path, prefix string) string {
	p := strings.TrimPrefix(path, strings.TrimRight(prefix, "/"))
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// New builds the reverse proxy for route.
func New(route Route) (http.Handler, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}
	target, _ := url.Parse(route.Target)

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			if route.Rewrite {
				pr.Out.URL.Path = StripPrefix(pr.In.URL.Path, route.Prefix)
				pr.Out.URL.RawPath = ""
			}
			pr.SetURL(target)
			if !route.ChangeOrigin {
				pr.Out.Host = pr.In.Host
			}
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Printf("✗ proxy %s %s -> %s: %v", r.Method, r.URL.Path, route.Target, err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(models.Envelope{
				Code:    models.CodeFailed,
				Message: "Bad gateway",
				Data:    json.RawMessage("null"),
			})
		},
	}
	return rp, nil
}
