package httpserver

import (
	"net/http"
	"time"

	domain "philagro/backend/internal/domain/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes(allowedOrigins []string) {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.withLogging)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	// An empty origin list makes the cors package allow every origin, so
	// cross-origin access stays off unless origins are configured.
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", s.handleHealth)
	if s.deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Get("/access", s.handleAccess)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAccess(domain.Requirement{}))
				r.Get("/session", s.handleSession)
				r.Get("/roles/{role}/permissions", s.handleRolePermissions)
			})
		})

		r.Route("/users/me", func(r chi.Router) {
			r.Use(s.requireAccess(domain.Requirement{}))
			r.Post("/password", s.handleChangePassword)
			r.Get("/preferences/{key}", s.handleGetPreference)
			r.Put("/preferences/{key}", s.handlePutPreference)
		})

		r.Route("/admin/users", func(r chi.Router) {
			r.Use(s.requireAccess(domain.Requirement{Permission: domain.PermissionUserManagement}))
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Get("/{id}", s.handleGetUser)
			r.Patch("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeleteUser)
			r.Put("/{id}/status", s.handleSetUserStatus)
		})

		r.Route("/price-lists", func(r chi.Router) {
			read := s.requireAccess(domain.Requirement{Permission: domain.PermissionPriceLists})
			write := s.requireAccess(domain.Requirement{Role: domain.RoleAdministrator})

			r.With(read).Get("/", s.handleListPrices)
			r.With(read).Get("/{id}", s.handleGetPrice)
			r.With(write).Post("/", s.handleCreatePrice)
			r.With(write).Patch("/{id}", s.handleUpdatePrice)
			r.With(write).Delete("/{id}", s.handleDeletePrice)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMethodNotAllowed(w)
	})
}
