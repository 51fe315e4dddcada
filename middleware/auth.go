package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"jnbvisualizer/config"
	"jnbvisualizer/handlers/auth"
)

// AdminAuth gates the admin surface. Two credentials are accepted: the raw
// admin password as a pw query parameter (so a bookmarked admin URL keeps
// working) or a Bearer session token from /admin/login.
func AdminAuth(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if pw := r.URL.Query().Get("pw"); pw != "" {
				if pw == cfg.AdminPassword {
					next.ServeHTTP(w, r)
					return
				}
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]string{"error": "unauthorized"})
				return
			}

			authHeader := r.Header.Get("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]string{"error": "unauthorized"})
				return
			}
			if _, err := auth.ParseToken(cfg, parts[1]); err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]string{"error": "invalid token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
