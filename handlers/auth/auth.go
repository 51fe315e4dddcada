// Package auth issues and validates admin session tokens. The admin surface
// is protected by a single shared password; a successful login exchanges it
// for a short-lived JWT so the password does not ride along on every
// request.
package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"jnbvisualizer/config"
)

// AdminClaims represents the custom claims for an admin session JWT.
type AdminClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// CreateToken signs a 24h admin session token.
func CreateToken(cfg *config.Config) (string, error) {
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: "admin",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates an admin session token.
func ParseToken(cfg *config.Config, tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// HandleLogin exchanges the admin password for a session token.
func HandleLogin(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid form"})
			return
		}
		if r.PostFormValue("password") != cfg.AdminPassword {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "unauthorized"})
			return
		}
		token, err := CreateToken(cfg)
		if err != nil {
			logrus.WithError(err).Error("Failed to create admin token")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "failed to create token"})
			return
		}
		render.JSON(w, r, map[string]string{"token": token})
	}
}
