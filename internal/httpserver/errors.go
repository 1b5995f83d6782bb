package httpserver

import (
	"errors"
	"net/http"

	domain "philagro/backend/internal/domain/auth"
	pricedomain "philagro/backend/internal/domain/pricelist"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// writeServiceError maps service errors onto status codes. Anything not
// recognised is logged and reported as a generic internal error.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeErrorData(w, http.StatusBadRequest, codeValidation, verr.Error(), map[string]any{"fields": verr.Fields})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrAccountDisabled):
		writeError(w, http.StatusForbidden, codeAccountDisabled, domain.ErrAccountDisabled.Error())
	case errors.Is(err, domain.ErrPrivilegedProfile):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, domain.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, err.Error())
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, pricedomain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailExists), errors.Is(err, pricedomain.ErrDuplicate):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrPasswordUnchanged):
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
	default:
		s.logger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "an internal error occurred")
	}
}
