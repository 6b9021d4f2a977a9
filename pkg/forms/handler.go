package forms

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

const maxSubmissionBytes = 1 << 20

// Handler serves a form over HTTP: GET renders it, POST validates the
// submission and either re-renders with field errors (422) or hands off to
// the success handler.
type Handler struct {
	form *Form
	// Config builds the per-request render configuration. Called once per
	// request so values like CSRF tokens can vary.
	config func(*http.Request) Config
	// OnSuccess runs after a valid submission whose callback returned nil.
	// When nil, the handler re-renders the form with a fresh controller
	// state and status 200.
	onSuccess http.Handler
	// OnError maps internal failures to a response. When nil, a plain 500.
	onError func(http.ResponseWriter, *http.Request, error)
}

// NewHandler wires a form into net/http. config must not be nil.
func NewHandler(form *Form, config func(*http.Request) Config, opts ...HandlerOption) *Handler {
	h := &Handler{form: form, config: config}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// HandlerOption customises a Handler.
type HandlerOption func(*Handler)

// WithSuccessHandler sets the handler invoked after a valid submission.
func WithSuccessHandler(next http.Handler) HandlerOption {
	return func(h *Handler) { h.onSuccess = next }
}

// WithErrorHandler sets the internal-error responder.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(h *Handler) { h.onError = fn }
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, r, http.StatusOK)
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int) {
	var buf bytes.Buffer
	if err := h.form.Render(r.Context(), &buf, h.config(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	// Render first so Submit always sees the schema this request uses.
	cfg := h.config(r)
	if err := h.form.Render(r.Context(), io.Discard, cfg); err != nil {
		h.fail(w, r, err)
		return
	}

	ok, err := h.decodeAndSubmit(r)
	if err != nil {
		if isClientError(err) {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		h.fail(w, r, err)
		return
	}
	if !ok {
		h.render(w, r, http.StatusUnprocessableEntity)
		return
	}

	if h.onSuccess != nil {
		h.onSuccess.ServeHTTP(w, r)
		return
	}
	h.render(w, r, http.StatusOK)
}

func (h *Handler) decodeAndSubmit(r *http.Request) (bool, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var values map[string]any
		body := http.MaxBytesReader(nil, r.Body, maxSubmissionBytes)
		if err := json.NewDecoder(body).Decode(&values); err != nil {
			return false, &clientError{err}
		}
		return h.form.SubmitValues(r.Context(), values)
	}

	if err := r.ParseForm(); err != nil {
		return false, &clientError{err}
	}
	return h.form.Submit(r.Context(), r.PostForm)
}

type clientError struct{ err error }

func (e *clientError) Error() string { return e.err.Error() }
func (e *clientError) Unwrap() error { return e.err }

func isClientError(err error) bool {
	var ce *clientError
	return errors.As(err, &ce)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if h.onError != nil {
		h.onError(w, r, err)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
