package http

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"worklog/internal/core"
	"worklog/internal/log"
	"worklog/internal/session"
)

// SessionCookie names the cookie that binds a browser to its grid.
const SessionCookie = "worklog_session"

// currentSession returns the caller's session, creating one and setting the
// cookie when the browser has none or its session expired.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	id := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess, created, err := s.sessions.GetOrCreate(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if created || sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil,
		})
	}
	return sess, nil
}

// writeError maps domain errors to HTMX error responses and logs the rest.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error, fields log.LogFields) {
	switch {
	case errors.Is(err, session.ErrRowNotFound):
		NotFoundError("Row not found, reload the grid.").
			TriggerGridChanged().
			Write(w)
	case errors.Is(err, session.ErrUnknownColumn):
		UnprocessableEntityError("Unknown column.").Write(w)
	default:
		s.events.LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op, fields)
		InternalServerError("Something went wrong, please retry.").
			TriggerErrorNotification("Something went wrong, please retry.").
			Write(w)
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"hours": core.FormatHours,
		"ago": func(t time.Time) string {
			return humanize.Time(t)
		},
	}
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
