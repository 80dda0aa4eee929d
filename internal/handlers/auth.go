package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Auditor records authentication events. Satisfied by *audit.Log.
type Auditor interface {
	Append(ctx context.Context, eventName, eventDetails string)
}

// AuthHandler issues JWTs for the single admin account configured at
// process start. There is no user table; the original panel ran the same
// single-operator model.
type AuthHandler struct {
	AdminUser string
	// AdminPassHash is the bcrypt hash of the configured admin password.
	AdminPassHash []byte
	Secret        []byte
	ExpireHours   int
	Audit         Auditor
}

// Login checks the admin credentials and returns a bearer token. Failed
// attempts are recorded in the audit log with the caller's address.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if input.Username != h.AdminUser ||
		bcrypt.CompareHashAndPassword(h.AdminPassHash, []byte(input.Password)) != nil {
		h.Audit.Append(r.Context(), "invalid_authentication_attempt",
			fmt.Sprintf("invalid authentication attempt from %s with username `%s`", r.RemoteAddr, input.Username))
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	expire := h.ExpireHours
	if expire <= 0 {
		expire = 24
	}
	claims := jwt.MapClaims{
		"sub": input.Username,
		"exp": time.Now().Add(time.Duration(expire) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": signed})
}
