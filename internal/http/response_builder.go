// Package http serves the work log page and the HTMX partials that edit,
// save and chart the current week.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// Event names the page listens for.
const (
	EventGridChanged = "grid:changed"
	EventWeekSaved   = "week:saved"
	eventNotify      = "show-notification"
)

// NotificationType selects the toast style on the page.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// HTMXResponseBuilder assembles a partial: status, HTML body and the
// HX-Trigger events the grid, charts and saved-week panel react to.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	html       bool
}

// NewHTMXResponse starts a 200 response with no body and no events.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger sets event name in HX-Trigger with data as its detail.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerGridChanged tells the charts to redraw from the session rows.
func (b *HTMXResponseBuilder) TriggerGridChanged() *HTMXResponseBuilder {
	return b.Trigger(EventGridChanged, struct{}{})
}

// TriggerWeekSaved tells the existing data panel to reload weekKey.
func (b *HTMXResponseBuilder) TriggerWeekSaved(weekKey string) *HTMXResponseBuilder {
	return b.Trigger(EventWeekSaved, map[string]string{"week": weekKey})
}

func (b *HTMXResponseBuilder) TriggerNotification(kind NotificationType, message string, durationMs int) *HTMXResponseBuilder {
	return b.Trigger(eventNotify, map[string]any{
		"type":     string(kind),
		"message":  message,
		"duration": durationMs,
	})
}

// TriggerSuccessNotification shows message as a success toast for 3s.
func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, message, 3000)
}

// TriggerErrorNotification shows message as an error toast for 5s.
func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationError, message, 5000)
}

// BodyHTML sets an already rendered HTML fragment as the body.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.html = true
	b.body = []byte(html)
	return b
}

func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	if b.html {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if len(b.triggers) > 0 {
		if events, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(events))
		}
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse renders message, escaped, in the error div the grid shows
// above the table.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func PayloadTooLargeError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusRequestEntityTooLarge, message)
}

func UnprocessableEntityError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}
