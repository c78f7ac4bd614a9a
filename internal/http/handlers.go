package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"worklog/internal/log"
	"worklog/internal/services"
	"worklog/internal/session"
)

// SaveSuccessMessage is shown after the week was written.
const SaveSuccessMessage = "Work time data saved successfully!"

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	})
}

// handleReady checks templates and that the store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if weeks, err := s.worklog.Weeks(ctx); err != nil {
		checks["store"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = map[string]any{"weeks": len(weeks), "status": "ok"}
	}

	checks["sessions"] = map[string]any{"active": s.sessions.Len(), "status": "ok"}
	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.ActiveClients(), "status": "ok"}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()

	metrics := []struct {
		name, kind, help string
		value            any
	}{
		{"http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests},
		{"http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ServerErrors},
		{"weeks_saved_total", "counter", "Weeks written to the store", atomic.LoadInt64(&s.appMetrics.weeksSaved)},
		{"week_save_failures_total", "counter", "Failed week saves", atomic.LoadInt64(&s.appMetrics.saveFailures)},
		{"grid_cell_edits_total", "counter", "Grid cells edited", atomic.LoadInt64(&s.appMetrics.cellEdits)},
		{"grid_rows_added_total", "counter", "Grid rows added", atomic.LoadInt64(&s.appMetrics.rowsAdded)},
		{"grid_rows_deleted_total", "counter", "Grid rows deleted", atomic.LoadInt64(&s.appMetrics.rowsDeleted)},
		{"sessions_active", "gauge", "Live editing sessions", s.sessions.Len()},
		{"rate_limit_hits_total", "counter", "Total rate limit hits", s.rateLimiter.Hits()},
		{"active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", s.rateLimiter.ActiveClients()},
		{"suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests},
		{"uptime_seconds", "gauge", "Application uptime in seconds", int64(time.Since(s.appMetrics.uptime).Seconds())},
	}

	w.WriteHeader(http.StatusOK)
	for _, m := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", m.name, m.help, m.name, m.kind, m.name, m.value)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	sess, err := s.currentSession(w, r)
	if err != nil {
		s.writeError(w, r, log.OpLoad, err, nil)
		return
	}

	dates := sess.Week.DateStrings()
	data := pageView{
		Title:  "Work Time Tracking",
		Key:    sess.Key.String(),
		Dates:  dates,
		Grid:   newGridView(sess),
		Charts: s.sessionCharts(sess),
	}
	data.Existing = s.existing(r.Context(), sess)

	s.render(w, r, "index.html", data)
}

// handleAddEntry appends a blank row for the posted date. The date is not
// checked against the week.
func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	date := sanitizeInput(r.PostForm.Get("date"))
	if date == "" {
		BadRequestError("Missing date").Write(w)
		return
	}
	sess, err := s.currentSession(w, r)
	if err != nil {
		s.writeError(w, r, log.OpAddRow, err, nil)
		return
	}
	row := sess.AddRow(date)
	atomic.AddInt64(&s.appMetrics.rowsAdded, 1)
	s.logger.DebugContext(r.Context(), "Grid row added",
		log.FieldSessionID, sess.ID, log.FieldRowID, row.ID, "date", date)
	s.renderGrid(w, r, sess)
}

func (s *Server) handleInsertRow(w http.ResponseWriter, r *http.Request) {
	sess, err := s.currentSession(w, r)
	if err != nil {
		s.writeError(w, r, log.OpAddRow, err, nil)
		return
	}
	sess.InsertRow()
	atomic.AddInt64(&s.appMetrics.rowsAdded, 1)
	s.renderGrid(w, r, sess)
}

// handleUpdateCell applies one inline edit. The grid keeps its own DOM, so
// only the charts are told to refresh.
func (s *Server) handleUpdateCell(w http.ResponseWriter, r *http.Request) {
	edit, resp := ParseCellEdit(r)
	if resp != nil {
		resp.Write(w)
		return
	}
	sess, err := s.currentSession(w, r)
	if err != nil {
		s.writeError(w, r, log.OpEditCell, err, nil)
		return
	}
	if _, err := sess.UpdateCell(edit.RowID, edit.Column, edit.Value); err != nil {
		s.writeError(w, r, log.OpEditCell, err, log.NewFields().WithCell(edit.RowID, edit.Column))
		return
	}
	atomic.AddInt64(&s.appMetrics.cellEdits, 1)
	s.events.LogCellEdited(r.Context(), sess.ID, edit.RowID, edit.Column)
	NewHTMXResponse().TriggerGridChanged().Write(w)
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	sess, err := s.currentSession(w, r)
	if err != nil {
		s.writeError(w, r, log.OpDelete, err, nil)
		return
	}
	rowID := r.PathValue("id")
	if err := sess.DeleteRow(rowID); err != nil {
		s.writeError(w, r, log.OpDelete, err, log.NewFields().WithCell(rowID, ""))
		return
	}
	atomic.AddInt64(&s.appMetrics.rowsDeleted, 1)
	s.renderGrid(w, r, sess)
}

// handleSave writes the session's rows over the stored week.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, err := s.currentSession(w, r)
	if err != nil {
		s.writeError(w, r, log.OpSave, err, nil)
		return
	}

	res, err := s.worklog.Save(r.Context(), sess.Key, sess.WorkLogRows())
	if err != nil {
		atomic.AddInt64(&s.appMetrics.saveFailures, 1)
		s.events.LogError(r.Context(), "Failed to save week", err, log.ComponentWorklog, log.OpSave,
			log.NewFields().WithSession(sess.ID).WithWeek(sess.Key.String(), len(sess.Rows())))
		InternalServerError("Error saving work time data").
			TriggerErrorNotification("Error saving work time data").
			Write(w)
		return
	}

	sess.MarkSaved(res.SavedAt)
	atomic.AddInt64(&s.appMetrics.weeksSaved, 1)
	s.events.LogWeekSaved(r.Context(), sess.ID, res.Key.String(), res.Rows, res.TotalHours)

	NewHTMXResponse().
		TriggerWeekSaved(res.Key.String()).
		TriggerSuccessNotification(SaveSuccessMessage).
		BodyHTML(`<div class="success">` + SaveSuccessMessage + `</div>`).
		Write(w)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	sess, err := s.currentSession(w, r)
	if err != nil {
		s.writeError(w, r, log.OpRender, err, nil)
		return
	}
	s.render(w, r, "grid", newGridView(sess))
}

// handleCharts draws the charts from the unsaved session rows.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	sess, err := s.currentSession(w, r)
	if err != nil {
		s.writeError(w, r, log.OpRender, err, nil)
		return
	}
	s.render(w, r, "charts", s.sessionCharts(sess))
}

// handleExisting lists what the store holds for the session's week.
func (s *Server) handleExisting(w http.ResponseWriter, r *http.Request) {
	sess, err := s.currentSession(w, r)
	if err != nil {
		s.writeError(w, r, log.OpRender, err, nil)
		return
	}
	s.render(w, r, "existing", s.existing(r.Context(), sess))
}

func (s *Server) sessionCharts(sess *session.Session) chartsView {
	rep := services.BuildReport(sess.Key, sess.WorkLogRows(), sess.Week.DateStrings(),
		s.worklog.Capacity(), time.Time{}, false)
	return newChartsView(rep)
}

// existing never fails the page; a store error is shown in the panel.
func (s *Server) existing(ctx context.Context, sess *session.Session) existingView {
	rep, err := s.worklog.Report(ctx, sess.Key, sess.Week.DateStrings())
	if err != nil {
		s.events.LogError(ctx, "Failed to load stored week", err, log.ComponentStorage, log.OpLoad,
			log.NewFields().WithWeek(sess.Key.String(), 0))
		return existingView{Key: sess.Key.String(), Error: "Could not load saved data."}
	}
	return newExistingView(rep)
}

func (s *Server) renderGrid(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var buf bytes.Buffer
	if err := s.execute(&buf, "grid", newGridView(sess)); err != nil {
		s.writeError(w, r, log.OpRender, err, nil)
		return
	}
	NewHTMXResponse().TriggerGridChanged().BodyHTML(buf.String()).Write(w)
}

// render executes name into a buffer so a template error never leaves a
// half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.execute(&buf, name, data); err != nil {
		s.writeError(w, r, log.OpRender, err, nil)
		return
	}
	NewHTMXResponse().BodyHTML(buf.String()).Write(w)
}

func (s *Server) execute(buf *bytes.Buffer, name string, data any) error {
	if s.templates == nil {
		return fmt.Errorf("execute %s: templates not loaded", name)
	}
	if err := s.templates.ExecuteTemplate(buf, name, data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	return nil
}
