package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	domain "philagro/backend/internal/domain/auth"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	maxBodyBytes       = 1 << 20
	maxPreferenceBytes = 4 << 10
)

var preferenceKey = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		if err := s.deps.Health(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, envelope{
				Error:   "unavailable",
				Message: "database unreachable",
				Data:    map[string]string{"status": "degraded"},
			})
			return
		}
	}
	writeData(w, http.StatusOK, map[string]string{"status": "ok"}, "")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	user, err := s.deps.Auth.Register(r.Context(), payload.Email, payload.Password, payload.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, map[string]any{"user": user}, "registration successful")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email         string `json:"email"`
		Password      string `json:"password"`
		RequestedRole string `json:"requestedRole"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	// Every login starts a fresh context so an identifier issued before
	// authentication never carries the new identity.
	contextID := s.deps.Sessions.NewContextID()
	store := s.deps.Sessions.Open(contextID)

	sess, err := s.deps.Auth.Login(r.Context(), store, domain.Credentials{
		Email:         payload.Email,
		Password:      payload.Password,
		RequestedRole: payload.RequestedRole,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	token, err := s.deps.Auth.IssueToken(contextID)
	if err == nil {
		err = s.deps.Sessions.Track(r.Context(), sess.ID, contextID)
	}
	if err != nil {
		if clearErr := store.Clear(r.Context()); clearErr != nil {
			s.logger.Warn("discard session after failed login", zap.Error(clearErr))
		}
		s.writeServiceError(w, r, err)
		return
	}
	s.setSessionCookie(w, token)
	if previous := requestSessionFrom(r.Context()); previous != nil {
		s.retireContext(r.Context(), previous)
	}

	writeData(w, http.StatusOK, map[string]any{
		"session": sess,
		"token":   token,
	}, "login successful")
}

// retireContext drops a browser context replaced by a new login.
func (s *Server) retireContext(ctx context.Context, rs *requestSession) {
	if err := rs.store.Clear(ctx); err != nil {
		s.logger.Warn("clear replaced session", zap.String("context_id", rs.contextID), zap.Error(err))
	}
	if rs.session != nil {
		if err := s.deps.Sessions.Untrack(ctx, rs.session.ID, rs.contextID); err != nil {
			s.logger.Warn("untrack replaced session", zap.String("context_id", rs.contextID), zap.Error(err))
		}
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if rs := requestSessionFrom(r.Context()); rs != nil {
		if err := s.deps.Auth.Logout(r.Context(), rs.store); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if rs.session != nil {
			if err := s.deps.Sessions.Untrack(r.Context(), rs.session.ID, rs.contextID); err != nil {
				s.logger.Warn("untrack session", zap.String("context_id", rs.contextID), zap.Error(err))
			}
		}
	}
	s.clearSessionCookie(w)
	writeData(w, http.StatusOK, nil, "logged out")
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{"session": currentSession(r.Context())}, "")
}

// handleAccess evaluates a requirement without enforcing it.
func (s *Server) handleAccess(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := domain.Requirement{
		Permission: domain.Permission(strings.TrimSpace(query.Get("permission"))),
		Role:       domain.Role(strings.TrimSpace(query.Get("role"))),
	}
	outcome := domain.Guard(currentSession(r.Context()), req)
	s.deps.Metrics.ObserveDecision(outcome)
	writeData(w, http.StatusOK, map[string]any{"outcome": outcome}, "")
}

func (s *Server) handleRolePermissions(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(chi.URLParam(r, "role"))
	writeData(w, http.StatusOK, map[string]any{
		"role":        role,
		"known":       role.Known(),
		"permissions": domain.ResolvePermissions(role).Slice(),
	}, "")
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	sess := currentSession(r.Context())
	if err := s.deps.Auth.ChangePassword(r.Context(), sess.ID, payload.CurrentPassword, payload.NewPassword); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, nil, "password updated")
}

// handleGetPreference reads a value kept for the lifetime of the session, such
// as the association or mill a user is working on.
func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !preferenceKey.MatchString(key) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid preference key")
		return
	}

	value, ok, err := requestSessionFrom(r.Context()).store.Scoped(r.Context(), key)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "preference not set")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"key": key, "value": value}, "")
}

func (s *Server) handlePutPreference(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !preferenceKey.MatchString(key) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid preference key")
		return
	}
	var payload struct {
		Value string `json:"value"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if len(payload.Value) > maxPreferenceBytes {
		writeError(w, http.StatusBadRequest, codeBadRequest, "preference value too large")
		return
	}

	if err := requestSessionFrom(r.Context()).store.SetScoped(r.Context(), key, payload.Value); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"key": key, "value": payload.Value}, "preference saved")
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// decodeJSON reads a JSON body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, codeBadRequest, "request body is required")
			return false
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON payload")
		return false
	}
	return true
}
