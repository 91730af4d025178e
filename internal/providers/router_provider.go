package providers

import (
	"net/http"
	"reviewguard/internal/structures"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

type RouterProviderInterface interface {
	Handle(method string, url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

// RouterProvider collects handlers per URL and method. Each URL becomes a
// single route so the mux never sees the same pattern twice.
type RouterProvider struct {
	urls     []string
	handlers map[string]map[string]http.Handler
}

func (rp *RouterProvider) Handle(method string, url string, handler http.Handler) {
	byMethod, ok := rp.handlers[url]
	if !ok {
		byMethod = make(map[string]http.Handler)
		rp.handlers[url] = byMethod
		rp.urls = append(rp.urls, url)
	}
	byMethod[method] = handler
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.Handle(http.MethodPost, url, handler)
}

// GetRoutes returns the routes in registration order.
func (rp *RouterProvider) GetRoutes() []structures.Route {
	routes := make([]structures.Route, 0, len(rp.urls))
	for _, url := range rp.urls {
		byMethod := make(map[string]http.Handler, len(rp.handlers[url]))
		methods := make([]string, 0, len(rp.handlers[url]))
		for m, h := range rp.handlers[url] {
			byMethod[m] = h
			methods = append(methods, m)
		}
		sort.Strings(methods)
		routes = append(routes, structures.Route{
			Url:     url,
			Methods: methods,
			Handler: methodHandler(byMethod, methods),
		})
	}
	return routes
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{handlers: make(map[string]map[string]http.Handler)}
}

var methodNotAllowedBody, _ = json.Marshal(struct {
	Error string `json:"error"`
}{Error: "method not allowed"})

func methodHandler(byMethod map[string]http.Handler, methods []string) http.Handler {
	allow := strings.Join(methods, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := byMethod[r.Method]
		if !ok {
			w.Header().Set("Allow", allow)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusMethodNotAllowed)
			_, _ = w.Write(methodNotAllowedBody)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
