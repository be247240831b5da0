package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"coursehub/internal/crypto"
	"coursehub/internal/model"
	"coursehub/internal/repository"
	"coursehub/internal/sanitize"
	"coursehub/internal/validate"
)

type accountView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

func newAccountView(a model.Account) accountView {
	return accountView{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		IsAdmin:   a.IsAdmin,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// handleAccounts is admin-only: every path first requires a principal, then
// admin rights. GET ?verify doubles as the session check.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	claims, err := s.principal(r)
	if err != nil {
		if errors.Is(err, errUnauthenticated) {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
		} else {
			log.Printf("auth check: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	if !claims.IsAdmin {
		writeError(w, http.StatusForbidden, "Admin access required")
		return
	}

	q := r.URL.Query()
	switch r.Method {
	case http.MethodGet:
		if q.Has("verify") {
			writeData(w, http.StatusOK, map[string]any{
				"id":       claims.AccountID,
				"name":     claims.Name,
				"email":    claims.Email,
				"is_admin": claims.IsAdmin,
			})
			return
		}
		if q.Get("id") != "" {
			s.getAccount(w, r)
			return
		}
		s.listAccounts(w, r)
	case http.MethodPost:
		if q.Get("action") == "change_password" {
			s.changePassword(w, r)
			return
		}
		s.createAccount(w, r)
	case http.MethodPut:
		s.updateAccount(w, r)
	case http.MethodDelete:
		s.deleteAccount(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context(), listOptions(r))
	if err != nil {
		storageError(w, err, "", "")
		return
	}
	views := make([]accountView, len(accounts))
	for i, a := range accounts {
		views[i] = newAccountView(a)
	}
	writeList(w, views, len(views))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}
	account, err := s.store.GetAccountByID(r.Context(), id)
	if err != nil {
		storageError(w, err, "Account not found", "")
		return
	}
	writeData(w, http.StatusOK, newAccountView(*account))
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.Name = sanitize.Clean(req.Name)
	req.Email = sanitize.Clean(req.Email)
	if err := validate.Required(
		validate.FieldValue{Name: "name", Value: req.Name},
		validate.FieldValue{Name: "email", Value: req.Email},
		validate.FieldValue{Name: "password", Value: req.Password},
	); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Email("email", req.Email); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.MinLength("password", req.Password, 8); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		storageError(w, err, "", "")
		return
	}
	account, err := s.store.CreateAccount(r.Context(), req.Name, req.Email, hash)
	if err != nil {
		storageError(w, err, "", "Email already exists")
		return
	}
	writeData(w, http.StatusCreated, newAccountView(*account))
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID              int64  `json:"id"`
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "id: is required")
		return
	}
	if err := validate.Required(
		validate.FieldValue{Name: "current_password", Value: req.CurrentPassword},
		validate.FieldValue{Name: "new_password", Value: req.NewPassword},
	); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.MinLength("new_password", req.NewPassword, 8); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := s.store.GetAccountPassword(r.Context(), req.ID)
	if err != nil {
		storageError(w, err, "Account not found", "")
		return
	}
	if crypto.CheckPassword(current, req.CurrentPassword) != nil {
		writeError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		storageError(w, err, "", "")
		return
	}
	if err := s.store.SetAccountPassword(r.Context(), req.ID, hash); err != nil {
		storageError(w, err, "Account not found", "")
		return
	}
	writeMessage(w, http.StatusOK, "Password updated successfully")
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    int64   `json:"id"`
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "id: is required")
		return
	}

	var upd repository.AccountUpdate
	if req.Name != nil {
		name := sanitize.Clean(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name: is required")
			return
		}
		upd.Name = &name
	}
	if req.Email != nil {
		email := sanitize.Clean(*req.Email)
		if err := validate.Email("email", email); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		upd.Email = &email
	}

	if err := s.store.UpdateAccount(r.Context(), req.ID, upd); err != nil {
		storageError(w, err, "Account not found", "Email already exists")
		return
	}
	writeMessage(w, http.StatusOK, "Account updated successfully")
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	raw := stringID(r, "id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "id: is required")
		return
	}
	id, err := parseID(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}
	if err := s.store.DeleteAccount(r.Context(), id); err != nil {
		storageError(w, err, "Account not found", "Account was already deleted")
		return
	}
	writeMessage(w, http.StatusOK, "Account deleted successfully")
}
