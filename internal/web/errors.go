package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler or middleware encounters an error
//  2. Calls respondError(w, r, err)
//  3. The status is chosen by statusFor from the wrapped sentinel
//  4. Error is mapped via core.MapError to a user-friendly message
//  5. Technical error is logged with request and session ids for correlation
//  6. The message is returned as JSON, or as an HTML alert for page requests

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/gridsheet/internal/core"
	"github.com/JonMunkholm/gridsheet/internal/exchange"
	"github.com/JonMunkholm/gridsheet/internal/logging"
	"github.com/JonMunkholm/gridsheet/internal/session"
	"github.com/JonMunkholm/gridsheet/internal/web/templates"
)

// errBadRequest marks request bodies and parameters that could not be
// decoded. MapError falls through to ERR000 for it.
var errBadRequest = errors.New("bad request")

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// newErrorResponse maps err to the body sent to clients.
func newErrorResponse(err error) ErrorResponse {
	msg := core.MapError(err)
	return ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
}

// respondError logs the technical error server-side and writes a
// user-friendly response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := newErrorResponse(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", body.Code,
	}
	// Errors without a mapped message are unexpected whatever their status.
	if status >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		writeJSON(w, status, body)
		return
	}
	renderErrorAlert(w, r, body, status)
}

// renderErrorAlert writes the error as an HTML fragment for page requests.
func renderErrorAlert(w http.ResponseWriter, r *http.Request, body ErrorResponse, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	if err := templates.ErrorAlert(body.Message, body.Action, body.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("failed to render error alert", "error", err)
	}
}

// statusFor picks the HTTP status for err by its wrapped sentinel.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, core.ErrRowNotFound),
		errors.Is(err, core.ErrFieldNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateFieldKey):
		return http.StatusConflict
	case errors.Is(err, core.ErrProtectedColumn):
		return http.StatusForbidden
	case errors.Is(err, session.ErrTooManySessions),
		errors.Is(err, exchange.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, exchange.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, exchange.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrInvalidLabel),
		errors.Is(err, core.ErrNoActiveEdit),
		errors.Is(err, core.ErrInvalidFilterExpr),
		errors.Is(err, core.ErrUnknownMenuAction),
		errors.Is(err, core.ErrIndexOutOfRange),
		errors.Is(err, session.ErrUnknownCommand),
		errors.Is(err, session.ErrMenuClosed),
		errors.Is(err, exchange.ErrInvalidFile),
		errors.Is(err, exchange.ErrEmptyFile),
		errors.Is(err, exchange.ErrNoFile),
		errors.Is(err, exchange.ErrTooManyRows),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
