package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	domain "philagro/backend/internal/domain/auth"
	"philagro/backend/internal/usecase/session"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const sessionCookieName = "philagro_session"

type contextKey string

const sessionContextKey contextKey = "session"

// requestSession is the browser context resolved for one request.
type requestSession struct {
	contextID string
	store     *session.Store
	session   *domain.Session
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)
		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", recorder.size),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// withSession resolves the browser context named by the session cookie or a
// bearer token and restores its session. Requests without a valid token pass
// through with no session attached.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		contextID, err := s.deps.Auth.ContextFromToken(token)
		if err != nil {
			s.logger.Debug("ignoring invalid session token",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		store := s.deps.Sessions.Open(contextID)
		sess, err := store.Restore(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		rs := &requestSession{contextID: contextID, store: store, session: sess}
		ctx := context.WithValue(r.Context(), sessionContextKey, rs)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAccess guards next with req. Denied requests never reach next.
func (s *Server) requireAccess(req domain.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			outcome := domain.Guard(currentSession(r.Context()), req)
			s.deps.Metrics.ObserveDecision(outcome)
			if !outcome.Allowed() {
				s.logger.Debug("access denied",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.String("decision", string(outcome.Decision)),
					zap.String("reason", string(outcome.Reason)),
					zap.String("required", outcome.Required),
					zap.String("actual", outcome.Actual),
				)
				writeDenied(w, outcome)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestSessionFrom(ctx context.Context) *requestSession {
	rs, _ := ctx.Value(sessionContextKey).(*requestSession)
	return rs
}

func currentSession(ctx context.Context) *domain.Session {
	if rs := requestSessionFrom(ctx); rs != nil {
		return rs.session
	}
	return nil
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
