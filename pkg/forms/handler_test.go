package forms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-formbind/pkg/components"
	"github.com/goliatone/go-formbind/pkg/schema"
)

func newTestHandler(t *testing.T, calls *int, opts ...HandlerOption) *Handler {
	t.Helper()
	form := New(components.DefaultAssociations()).Form()
	return NewHandler(form, func(*http.Request) Config {
		return Config{
			Schema: schema.Schema{
				"name": {Rule: schema.String().Required().MinLen(2)},
			},
			OnSubmit: func(context.Context, Values) error {
				if calls != nil {
					*calls++
				}
				return nil
			},
			Attrs: Attrs{Action: "/signup", Method: "POST"},
		}
	}, opts...)
}

func TestHandler_GetRendersForm(t *testing.T) {
	handler := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signup", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<form class="formbind-form"`) || !strings.Contains(body, `name="name"`) {
		t.Fatalf("unexpected body:\n%s", body)
	}
}

func TestHandler_ValidPostRunsSuccessHandler(t *testing.T) {
	calls := 0
	done := false
	handler := newTestHandler(t, &calls, WithSuccessHandler(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			done = true
			w.WriteHeader(http.StatusCreated)
		})))

	form := url.Values{"name": {"Alice"}}
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if !done || calls != 1 {
		t.Fatalf("success=%v callback calls=%d, want true/1", done, calls)
	}
}

func TestHandler_InvalidPostRerendersWith422(t *testing.T) {
	calls := 0
	handler := newTestHandler(t, &calls)

	form := url.Values{"name": {"A"}}
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("callback ran %d times, want 0", calls)
	}
	if !strings.Contains(rec.Body.String(), `role="alert"`) {
		t.Fatalf("re-render missing error chrome:\n%s", rec.Body.String())
	}
}

func TestHandler_JSONSubmission(t *testing.T) {
	calls := 0
	handler := newTestHandler(t, &calls, WithSuccessHandler(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})))

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"name":"Alice"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("callback ran %d times, want 1", calls)
	}
}

func TestHandler_MalformedJSONIsBadRequest(t *testing.T) {
	handler := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/signup", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, POST" {
		t.Fatalf("Allow = %q", allow)
	}
}
