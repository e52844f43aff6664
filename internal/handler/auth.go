package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/gradesheet/internal/model"
	"github.com/pavelanni/gradesheet/internal/store"
)

const csrfCookieName = "csrf_token"

func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// setCSRFCookie issues a fresh token and stores it in the request context.
func (h *Handler) setCSRFCookie(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	token, err := generateCSRFToken()
	if err != nil {
		slog.Error("failed to generate CSRF token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return r, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     h.cookiePath(),
		HttpOnly: false,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return r.WithContext(model.ContextWithCSRFToken(r.Context(), token)), true
}

func (h *Handler) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			r, ok := h.setCSRFCookie(w, r)
			if ok {
				next.ServeHTTP(w, r)
			}
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" {
			slog.Warn("CSRF cookie missing")
			http.Error(w, "csrf token missing", http.StatusForbidden)
			return
		}

		formToken := r.FormValue("csrf_token")
		if formToken == "" {
			slog.Warn("CSRF form token missing")
			http.Error(w, "csrf token missing", http.StatusForbidden)
			return
		}

		if len(formToken) != len(cookie.Value) || subtle.ConstantTimeCompare([]byte(formToken), []byte(cookie.Value)) != 1 {
			slog.Warn("CSRF token mismatch")
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}

		r, ok := h.setCSRFCookie(w, r)
		if ok {
			next.ServeHTTP(w, r)
		}
	})
}

// requireAdmin checks HTTP basic auth against the admin password hash kept
// in the metadata table. Without a stored hash every request is refused.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hash, err := h.store.GetMetadata(store.AdminPasswordHashKey)
		if err != nil {
			slog.Error("failed to read admin password", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if hash == "" {
			http.Error(w, "configuration changes are disabled: no admin password set", http.StatusForbidden)
			return
		}

		user, password, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(h.config.AdminUser)) != 1 ||
			bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="gradesheet"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
