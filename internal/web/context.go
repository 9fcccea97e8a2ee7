package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/gridsheet/internal/logging"
	"github.com/JonMunkholm/gridsheet/internal/session"
)

type ctxKey int

const sessionKey ctxKey = iota

// withSession resolves the {sessionID} URL parameter and stores the session
// in the request context. Unknown or expired ids end the request with 404.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		ctx := logging.ContextWithSessionID(r.Context(), id)
		r = r.WithContext(ctx)

		sess, err := s.sessions.Get(id)
		if err != nil {
			respondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithSession(ctx, sess)))
	})
}

func contextWithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// sessionFrom returns the session stored by withSession.
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}
