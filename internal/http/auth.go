package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"coursehub/internal/auth"
	"coursehub/internal/crypto"
	"coursehub/internal/resource"
	"coursehub/internal/validate"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := validate.Required(
		validate.FieldValue{Name: "email", Value: req.Email},
		validate.FieldValue{Name: "password", Value: req.Password},
	); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := s.store.GetAccountByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		storageError(w, err, "", "")
		return
	}
	if crypto.CheckPassword(account.Password, req.Password) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
		IsAdmin:   account.IsAdmin,
	})
	if err != nil {
		log.Printf("issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"token": token,
		"account": map[string]any{
			"id":       account.ID,
			"name":     account.Name,
			"email":    account.Email,
			"is_admin": account.IsAdmin,
		},
	})
}

// handleLogout revokes the presented token until its natural expiry. Without
// redis, or with an unparseable token, logout is still reported as success;
// there is nothing server-side to invalidate.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if s.redis != nil {
		if claims, err := auth.ParseToken(s.cfg.JWTSecret, token); err == nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if ttl > 0 {
				if err := s.redis.Set(r.Context(), revocationKey(token), "1", ttl).Err(); err != nil {
					log.Printf("revoke token: %v", err)
					writeError(w, http.StatusInternalServerError, "Internal server error")
					return
				}
			}
		}
	}
	writeMessage(w, http.StatusOK, "Logged out")
}
