package middleware

import (
	"net/http"
)

// CORS answers preflight requests and sets Access-Control headers. Origins
// outside the allow-list get the first allowed origin back, so browsers
// reject the response. allowAny echoes every origin (local development).
func CORS(origins []string, allowAny bool) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	fallback := ""
	if len(origins) > 0 {
		fallback = origins[0]
	}
	allowOrigin := func(origin string) string {
		if origin == "" {
			return fallback
		}
		if _, ok := allowed[origin]; ok || allowAny {
			return origin
		}
		return fallback
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Origin", allowOrigin(r.Header.Get("Origin")))
			h.Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, Stripe-Signature")
				h.Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
