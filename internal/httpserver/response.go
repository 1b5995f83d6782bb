package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	domain "philagro/backend/internal/domain/auth"
)

// envelope is the shape of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error codes placed in envelope.Error.
const (
	codeBadRequest         = "bad_request"
	codeValidation         = "validation_failed"
	codeInvalidCredentials = "invalid_credentials"
	codeAccountDisabled    = "account_disabled"
	codeUnauthenticated    = "unauthenticated"
	codeForbidden          = "forbidden"
	codeNotFound           = "not_found"
	codeConflict           = "conflict"
	codeMethodNotAllowed   = "method_not_allowed"
	codeInternal           = "internal_error"
)

// loginPath is where unauthenticated callers are sent.
const loginPath = "/login"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Error: code, Message: message})
}

func writeErrorData(w http.ResponseWriter, status int, code, message string, data any) {
	writeJSON(w, status, envelope{Error: code, Message: message, Data: data})
}

func writeMethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
}

// writeDenied turns a non-allowed guard outcome into a response.
func writeDenied(w http.ResponseWriter, outcome domain.Outcome) {
	switch outcome.Decision {
	case domain.DecisionUnauthenticated:
		writeErrorData(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required", map[string]any{
			"outcome":  outcome,
			"redirect": loginPath,
		})
	default:
		writeErrorData(w, http.StatusForbidden, codeForbidden,
			fmt.Sprintf("%s %q required", outcome.Reason, outcome.Required),
			map[string]any{"outcome": outcome},
		)
	}
}
