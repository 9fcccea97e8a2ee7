package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JonMunkholm/gridsheet/internal/core"
	"github.com/JonMunkholm/gridsheet/internal/exchange"
	"github.com/JonMunkholm/gridsheet/internal/logging"
	"github.com/JonMunkholm/gridsheet/internal/session"
	"github.com/JonMunkholm/gridsheet/internal/web/templates"
)

// sessionCookie carries the page's session id between reloads.
const sessionCookie = "grid_session"

// maxCommandBody bounds a JSON command body.
const maxCommandBody = 1 << 20

// multipartOverhead allows for form boundaries and headers around the file.
const multipartOverhead = 64 << 10

// sessionResponse is returned when a session is created or fetched.
type sessionResponse struct {
	ID         string           `json:"id"`
	Created    time.Time        `json:"created"`
	Projection *core.Projection `json:"projection"`
}

// importResponse is the result of an import plus the refreshed view.
type importResponse struct {
	*exchange.ImportResult
	Projection *core.Projection `json:"projection"`
}

// statusResponse reports server load.
type statusResponse struct {
	Sessions int                    `json:"sessions"`
	Imports  exchange.LimiterStatus `json:"imports"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus reports active sessions and import slots.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Sessions: s.sessions.Len(),
		Imports:  s.imports.Status(),
	})
}

// handleCreateSession starts a new grid session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		respondError(w, r, err)
		return
	}
	p, err := sess.Project()
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(logging.ContextWithSessionID(r.Context(), sess.ID())).Info("session created")
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID(), Created: sess.Created(), Projection: p})
}

// handleGetSession returns the current projection of a session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	p, err := sess.Project()
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID(), Created: sess.Created(), Projection: p})
}

// handleDeleteSession ends a session and disconnects its sockets.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.sessions.Delete(sess.ID()); err != nil {
		respondError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("session deleted")
	w.WriteHeader(http.StatusNoContent)
}

// handleCommand applies one JSON command to the session.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var cmd session.Command
	dec := json.NewDecoder(io.LimitReader(r.Body, maxCommandBody))
	if err := dec.Decode(&cmd); err != nil {
		respondError(w, r, fmt.Errorf("%w: decode command: %v", errBadRequest, err))
		return
	}

	res, err := sess.Apply(cmd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	logging.WithFields(r.Context(), "command", cmd.Type, "changed", res.Changed).Debug("command applied")
	writeJSON(w, http.StatusOK, res)
}

// handleExport streams the grid as CSV or XLSX.
//
// Query parameters:
//   - format: "csv" (default) or "xlsx"
//   - scope: "view" (default) exports the current view, "all" every row and column
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	format := exchange.FormatCSV
	if f := r.URL.Query().Get("format"); f != "" {
		var err error
		if format, err = exchange.ParseFormat(f); err != nil {
			respondError(w, r, err)
			return
		}
	}
	scope := exchange.ParseScope(r.URL.Query().Get("scope"))

	// Render into memory first so a failure still produces an error response.
	var buf bytes.Buffer
	err := sess.Read(func(g *core.Grid, spec core.ViewSpec) error {
		return exchange.Export(&buf, g, spec, format, scope)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exchange.Filename(format, s.now())))
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
	}
}

// handleImport appends rows from an uploaded CSV or XLSX file.
//
// The multipart form carries the file under "file". An optional "format"
// field overrides detection from the file name.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	logger := logging.FromContext(r.Context())

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, exchange.ErrFileTooLarge)
			return
		}
		respondError(w, r, fmt.Errorf("%w: %v", exchange.ErrInvalidFile, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, exchange.ErrNoFile)
		return
	}
	defer file.Close()

	var format exchange.Format
	if f := r.FormValue("format"); f != "" {
		format, err = exchange.ParseFormat(f)
	} else {
		format, err = exchange.DetectFormat(header.Filename)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.imports.Acquire(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	defer s.imports.Release()

	opts := exchange.Options{MaxFileSize: maxSize, MaxRows: s.cfg.Import.MaxRows}
	var result *exchange.ImportResult
	err = sess.Update(func(g *core.Grid) error {
		var importErr error
		result, importErr = exchange.Import(r.Context(), g, file, format, opts)
		return importErr
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	p, err := sess.Project()
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.Info("import complete",
		"filename", header.Filename,
		"format", result.Format,
		"rows", result.Rows,
		"added_columns", len(result.AddedColumns),
		"skipped_rows", result.SkippedRows,
		"duration_ms", result.Duration.Milliseconds(),
	)
	writeJSON(w, http.StatusOK, importResponse{ImportResult: result, Projection: p})
}

// handleGridPage renders the editor page. The session id is kept in a
// cookie; a missing or expired session is replaced with a new one.
func (s *Server) handleGridPage(w http.ResponseWriter, r *http.Request) {
	var sess *session.Session
	if c, err := r.Cookie(sessionCookie); err == nil {
		sess, _ = s.sessions.Get(c.Value)
	}
	if sess == nil {
		var err error
		if sess, err = s.sessions.Create(); err != nil {
			respondError(w, r, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			MaxAge:   int(s.cfg.Session.TTL.Seconds()),
		})
	}

	p, err := sess.Project()
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.GridPage(sess.ID(), p).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render grid page", "error", err)
	}
}
