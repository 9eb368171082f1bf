package middleware

import "net/http"

// SecureHeaders adds standard security headers. Microphone access is left to
// the frontend's own policy since recording happens client-side.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Permissions-Policy", "camera=(), geolocation=()")
		next.ServeHTTP(w, r)
	})
}
