package platform

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

// CORS allows any origin and answers preflight requests with "ok".
func CORS(allowHeaders string) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", allowHeaders)

			// prefight request check with OPTIONS
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
				return
			}

			h.ServeHTTP(w, r)
		})
	}
}
