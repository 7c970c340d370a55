package api

import (
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

// docRoutes are served by Router() but are not part of the API contract,
// so the embedded spec does not describe them.
var docRoutes = []string{"/openapi.yaml", "/docs", "/redoc"}

func isDocRoute(route string) bool {
	for _, prefix := range docRoutes {
		if strings.HasPrefix(route, prefix) {
			return true
		}
	}
	return false
}

// specPaths pulls {METHOD PATH} pairs out of the embedded openapi.yaml.
func specPaths(t *testing.T) map[string]bool {
	t.Helper()
	var doc struct {
		Paths map[string]map[string]any `yaml:"paths"`
	}
	if err := yaml.Unmarshal(openapiSpec, &doc); err != nil {
		t.Fatalf("parsing openapi.yaml: %v", err)
	}

	routes := make(map[string]bool)
	for path, ops := range doc.Paths {
		for op := range ops {
			// "parameters" and x- extension keys are not operations.
			if strings.EqualFold(op, "parameters") || strings.HasPrefix(strings.ToLower(op), "x-") {
				continue
			}
			routes[strings.ToUpper(op)+" "+path] = true
		}
	}
	return routes
}

// TestOpenAPIDrift fails when the chi router and the embedded OpenAPI spec
// disagree: a route registered but undocumented, or a spec path that no
// longer exists. Router() only registers handlers, so a zero-value API is
// enough to walk it.
func TestOpenAPIDrift(t *testing.T) {
	specRoutes := specPaths(t)

	a := &API{}
	registered := make(map[string]bool)
	err := chi.Walk(a.Router(), func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		route = strings.TrimRight(route, "/")
		if route == "" {
			route = "/"
		}
		if isDocRoute(route) {
			return nil
		}
		// chi's {param} placeholders match the spec's notation directly.
		registered[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("walking router: %v", err)
	}

	var undocumented, stale []string
	for route := range registered {
		if !specRoutes[route] {
			undocumented = append(undocumented, route)
		}
	}
	for route := range specRoutes {
		if !registered[route] {
			stale = append(stale, route)
		}
	}
	sort.Strings(undocumented)
	sort.Strings(stale)

	for _, route := range undocumented {
		t.Errorf("route %s is registered but missing from openapi.yaml", route)
	}
	for _, route := range stale {
		t.Errorf("route %s is documented in openapi.yaml but not registered", route)
	}
}
