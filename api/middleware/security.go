package middleware

import (
	"net/http"
	"strings"
)

var securityHeaders = map[string]string{
	"X-DNS-Prefetch-Control":    "on",
	"Strict-Transport-Security": "max-age=63072000; includeSubDomains; preload",
	"X-Frame-Options":           "DENY",
	"X-Content-Type-Options":    "nosniff",
	"Referrer-Policy":           "strict-origin-when-cross-origin",
	"X-XSS-Protection":          "1; mode=block",
	"Permissions-Policy":        "camera=(), microphone=(), geolocation=(self), interest-cohort=()",
}

var cspDirectives = []string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://static.wixstatic.com https://lottie.host https://use.typekit.net https://connect.facebook.net https://js.stripe.com",
	"style-src 'self' 'unsafe-inline' https://use.typekit.net https://fonts.googleapis.com",
	"img-src 'self' data: blob: https://static.wixstatic.com https://*.wixstatic.com https://lottie.host",
	"font-src 'self' https://use.typekit.net https://fonts.gstatic.com",
	"frame-src 'self' https://lottie.host https://js.stripe.com https://hooks.stripe.com",
	"connect-src 'self' https://api.airtable.com https://intakeq.com https://api.pdf.co https://api.stripe.com https://www.facebook.com https://connect.facebook.net",
	"object-src 'none'",
	"base-uri 'self'",
	"form-action 'self'",
	"frame-ancestors 'none'",
}

// ContentSecurityPolicy is the policy sent on every response.
var ContentSecurityPolicy = strings.Join(cspDirectives, "; ")

// SecurityHeaders sets the fixed security header set and the CSP.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for k, v := range securityHeaders {
			h.Set(k, v)
		}
		h.Set("Content-Security-Policy", ContentSecurityPolicy)
		next.ServeHTTP(w, r)
	})
}
