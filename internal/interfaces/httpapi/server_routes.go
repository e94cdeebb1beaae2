package httpapi

import (
	"net/http"
	"strings"
)

// Routes are registered without a method so a wrong method on a known path
// gets a JSON 405 instead of falling through to the catch-all 404.
func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("/healthz", allowMethods(http.HandlerFunc(handler.Healthz), http.MethodGet))
	mux.HandleFunc("/", handler.NotFound)
}

func registerMatchReportRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("/api/fetch-data", allowMethods(http.HandlerFunc(handler.FetchData), http.MethodGet))
	mux.Handle("/api/proxy-data", allowMethods(http.HandlerFunc(handler.ProxyData), http.MethodGet))
}

func allowMethods(next http.Handler, methods ...string) http.Handler {
	allowed := make(map[string]struct{}, len(methods))
	for _, method := range methods {
		allowed[method] = struct{}{}
	}
	allowHeader := strings.Join(append(append([]string(nil), methods...), http.MethodOptions), ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := allowed[r.Method]; !ok {
			w.Header().Set("Allow", allowHeader)
			writeError(r.Context(), w, http.StatusMethodNotAllowed, "Method Not Allowed. Use "+strings.Join(methods, ", ")+".")
			return
		}
		next.ServeHTTP(w, r)
	})
}
