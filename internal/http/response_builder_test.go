package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func triggers(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	raw := w.Header().Get("HX-Trigger")
	if raw == "" {
		t.Fatal("HX-Trigger header not set")
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v (%s)", err, raw)
	}
	return got
}

func TestSavedWeekResponse(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerWeekSaved("2025_M10_W42").
		TriggerSuccessNotification(SaveSuccessMessage).
		BodyHTML(`<div class="success">` + SaveSuccessMessage + `</div>`).
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if !strings.Contains(w.Body.String(), SaveSuccessMessage) {
		t.Errorf("Body = %q, want success message", w.Body.String())
	}

	got := triggers(t, w)
	if string(got[EventWeekSaved]) != `{"week":"2025_M10_W42"}` {
		t.Errorf("%s = %s", EventWeekSaved, got[EventWeekSaved])
	}
	var note struct {
		Type     string `json:"type"`
		Message  string `json:"message"`
		Duration int    `json:"duration"`
	}
	if err := json.Unmarshal(got["show-notification"], &note); err != nil {
		t.Fatalf("show-notification: %v", err)
	}
	if note.Type != "success" || note.Message != SaveSuccessMessage || note.Duration != 3000 {
		t.Errorf("notification = %+v", note)
	}
	if _, ok := got[EventGridChanged]; ok {
		t.Errorf("saving should not redraw the grid charts")
	}
}

func TestCellEditResponse(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().TriggerGridChanged().Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Body = %q, want empty so the edited cell keeps focus", w.Body.String())
	}
	if got := triggers(t, w); string(got[EventGridChanged]) != `{}` {
		t.Errorf("%s = %s", EventGridChanged, got[EventGridChanged])
	}
}

func TestPartialWithoutEventsHasNoTriggerHeader(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().BodyHTML("<table></table>").Write(w)

	if got := w.Header().Get("HX-Trigger"); got != "" {
		t.Errorf("HX-Trigger = %q, want empty", got)
	}
}

func TestGridErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		builder    *HTMXResponseBuilder
		wantStatus int
		wantBody   string
	}{
		{"malformed edit", BadRequestError("Invalid request format"), http.StatusBadRequest, `<div class="error">Invalid request format</div>`},
		{"stale row", NotFoundError("Row not found, reload the grid."), http.StatusNotFound, `<div class="error">Row not found, reload the grid.</div>`},
		{"oversized edit", PayloadTooLargeError("Value too large"), http.StatusRequestEntityTooLarge, `<div class="error">Value too large</div>`},
		{"unknown column", UnprocessableEntityError("Unknown column."), http.StatusUnprocessableEntity, `<div class="error">Unknown column.</div>`},
		{"save failed", InternalServerError("Error saving work time data"), http.StatusInternalServerError, `<div class="error">Error saving work time data</div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("Body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestFailedSaveNotifiesAsError(t *testing.T) {
	w := httptest.NewRecorder()

	InternalServerError("Error saving work time data").
		TriggerErrorNotification("Error saving work time data").
		Write(w)

	got := string(triggers(t, w)["show-notification"])
	if !strings.Contains(got, `"type":"error"`) || !strings.Contains(got, `"duration":5000`) {
		t.Errorf("show-notification = %s", got)
	}
}

func TestErrorResponse_EscapesHTML(t *testing.T) {
	w := httptest.NewRecorder()

	BadRequestError("<script>alert('xss')</script>").Write(w)

	body := w.Body.String()
	if strings.Contains(body, "<script>") {
		t.Error("Error response did not escape HTML")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("Error response did not properly escape HTML entities")
	}
}
