package httpserver

import (
	"net/http"

	userusecase "philagro/backend/internal/usecase/user"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	users, err := s.deps.Users.List(r.Context(), userusecase.Filter{
		UserType: query.Get("userType"),
		Status:   query.Get("status"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"users": users}, "")
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
		UserType string `json:"userType"`
		Status   string `json:"status"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	user, err := s.deps.Users.Create(r.Context(), currentSession(r.Context()), userusecase.CreateInput{
		Email:    payload.Email,
		Name:     payload.Name,
		Password: payload.Password,
		UserType: payload.UserType,
		Status:   payload.Status,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"user": user}, "user created")
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.deps.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"user": user}, "")
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    *string `json:"email"`
		Name     *string `json:"name"`
		UserType *string `json:"userType"`
		Status   *string `json:"status"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	user, err := s.deps.Users.Update(r.Context(), currentSession(r.Context()), chi.URLParam(r, "id"), userusecase.UpdateInput{
		Email:    payload.Email,
		Name:     payload.Name,
		UserType: payload.UserType,
		Status:   payload.Status,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"user": user}, "user updated")
}

func (s *Server) handleSetUserStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	user, err := s.deps.Users.SetStatus(r.Context(), currentSession(r.Context()), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"user": user}, "status updated")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Users.Delete(r.Context(), currentSession(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
