package inbox

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// contactRequest is the body a widget posts in remote mode.
type contactRequest struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// RegisterRoutes mounts the inbox API routes. Anyone may post a
// submission; reading them back requires "Authorization: Bearer <token>",
// and with an empty token the read routes refuse every request. fwd may
// be nil; otherwise every stored submission is forwarded in the
// background.
func RegisterRoutes(r chi.Router, store *Store, fwd *Forwarder, token string) {
	r.Route("/api/contact", func(r chi.Router) {
		r.Post("/", handleCreate(store, fwd))
		r.Group(func(r chi.Router) {
			r.Use(requireToken(token))
			r.Get("/", handleList(store))
			r.Get("/{id}", handleGetByID(store))
		})
	})
}

func requireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeError(w, http.StatusForbidden, "reading the inbox over HTTP is disabled; use qrchat inbox list")
				return
			}
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleCreate(store *Store, fwd *Forwarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		sub := Submission{
			InstanceID: r.URL.Query().Get("instance"),
			Name:       strings.TrimSpace(req.Name),
			Email:      strings.TrimSpace(req.Email),
			Message:    strings.TrimSpace(req.Message),
			Origin:     r.Header.Get("Origin"),
			UserAgent:  r.UserAgent(),
		}
		if sub.Name == "" || sub.Email == "" || sub.Message == "" {
			writeError(w, http.StatusBadRequest, "message, name and email are required")
			return
		}

		created, err := store.Create(r.Context(), sub)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if fwd != nil {
			ctx := context.WithoutCancel(r.Context())
			go fwd.Forward(ctx, *created)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{InstanceID: r.URL.Query().Get("instance")}
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Offset = n
			}
		}

		subs, err := store.List(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if subs == nil {
			subs = []Submission{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(subs)
	}
}

func handleGetByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := store.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if sub == nil {
			writeError(w, http.StatusNotFound, "submission not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sub)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
