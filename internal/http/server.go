// Package http exposes the four resource APIs plus auth, health and metrics
// over a chi router. Every terminal response carries the uniform envelope
// {success, data?, message?, total?}.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"coursehub/internal/auth"
	"coursehub/internal/config"
	"coursehub/internal/crypto"
	"coursehub/internal/repository"
	"coursehub/internal/resource"
	"coursehub/internal/validate"
)

type Server struct {
	cfg   config.Config
	store *repository.Store
	redis *redis.Client
}

// NewServer wires the handlers. redis may be nil; token revocation is then
// disabled and logout becomes a client-side concern.
func NewServer(cfg config.Config, store *repository.Store, rdb *redis.Client) *Server {
	return &Server{cfg: cfg, store: store, redis: rdb}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/logout", s.handleLogout)

	// Family endpoints dispatch on method and the resource query parameter
	// themselves, so they register for every method.
	r.HandleFunc("/api/accounts", s.handleAccounts)
	r.HandleFunc("/api/assignments", s.handleAssignments)
	r.HandleFunc("/api/discussion", s.handleDiscussion)
	r.HandleFunc("/api/weekly", s.handleWeekly)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Total   *int   `json:"total,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, envelope{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, data any, total int) {
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: data, Total: &total})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, envelope{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, envelope{Success: false, Message: message})
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

// storageError maps repository errors onto the envelope. notFound and
// conflict are the resource-specific messages; everything unexpected is
// logged and hidden behind a 500.
func storageError(w http.ResponseWriter, err error, notFound, conflict string) {
	var verr *validate.ValidationError
	switch {
	case errors.Is(err, resource.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, resource.ErrConflict):
		writeError(w, http.StatusConflict, conflict)
	case errors.Is(err, resource.ErrNoFields):
		writeError(w, http.StatusBadRequest, "No fields to update")
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	default:
		log.Printf("storage error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

var errUnauthenticated = errors.New("not authenticated")

// principal parses the bearer token and, when redis is configured, rejects
// tokens revoked by logout.
func (s *Server) principal(r *http.Request) (*auth.Claims, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, errUnauthenticated
	}
	claims, err := auth.ParseToken(s.cfg.JWTSecret, token)
	if err != nil {
		return nil, errUnauthenticated
	}
	if s.redis != nil {
		n, err := s.redis.Exists(r.Context(), revocationKey(token)).Result()
		if err != nil {
			return nil, fmt.Errorf("revocation check: %w", err)
		}
		if n > 0 {
			return nil, errUnauthenticated
		}
	}
	return claims, nil
}

func revocationKey(token string) string {
	return "revoked:" + crypto.HashToken(token)
}

func listOptions(r *http.Request) resource.ListOptions {
	q := r.URL.Query()
	return resource.ListOptions{
		Search: strings.TrimSpace(q.Get("search")),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	}
}

// stringID resolves an identifier from the query string or, failing that,
// the request body. The query value wins. Numeric body values are accepted
// because clients send ids both ways.
func stringID(r *http.Request, key string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	var body map[string]any
	if err := decodeJSON(r, &body); err != nil {
		return ""
	}
	switch v := body[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

func parseID(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}
