package httpx

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/threepoint/internal/platform/requestctx"
	apperrors "github.com/louisbranch/threepoint/internal/services/estimator/platform/errors"
)

func TestChainAppliesMiddlewareInOrder(t *testing.T) {
	t.Parallel()

	called := ""
	mw1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called += "1"
			next.ServeHTTP(w, r)
		})
	}
	mw2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called += "2"
			next.ServeHTTP(w, r)
		})
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called += "h"
		w.WriteHeader(http.StatusNoContent)
	}), mw1, mw2)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if called != "12h" {
		t.Fatalf("call order = %q, want %q", called, "12h")
	}
}

func TestChainHandlesNilHandlerAndMiddleware(t *testing.T) {
	t.Parallel()

	h := Chain(nil, nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/no-route", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestRequireMethodRejectsUnexpectedMethod(t *testing.T) {
	t.Parallel()

	h := RequireMethod(http.MethodGet)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
	if got := rr.Header().Get("Allow"); got != http.MethodGet {
		t.Fatalf("Allow = %q, want %q", got, http.MethodGet)
	}
}

func TestRequestIDAddsHeaderWhenMissing(t *testing.T) {
	t.Parallel()

	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatalf("expected request header to include request id")
		}
		if requestctx.RequestIDFromContext(r.Context()) == "" {
			t.Fatalf("expected request context to include request id")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected response to include request id")
	}
}

func TestRequestIDPreservesIncomingHeader(t *testing.T) {
	t.Parallel()

	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := requestctx.RequestIDFromContext(r.Context()); got != "req-123" {
			t.Fatalf("context request id = %q, want %q", got, "req-123")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("response request id = %q, want %q", got, "req-123")
	}
}

func TestRecoverPanicReturnsInternalServerError(t *testing.T) {
	t.Parallel()

	h := RecoverPanic()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestRecoverPanicLogsRequestContext(t *testing.T) {
	prevWriter := log.Writer()
	defer log.SetOutput(prevWriter)
	var buffer bytes.Buffer
	log.SetOutput(&buffer)

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(), RecoverPanic())
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("X-Request-ID", "req-123")
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	logLine := buffer.String()
	for _, marker := range []string{"panic recovered", "path=/panic", "request_id=req-123"} {
		if !strings.Contains(logLine, marker) {
			t.Fatalf("panic log missing marker %q: %q", marker, logLine)
		}
	}
}

func TestLogRequestsEmitsRequestLine(t *testing.T) {
	prevWriter := log.Writer()
	defer log.SetOutput(prevWriter)
	var buffer bytes.Buffer
	log.SetOutput(&buffer)

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), RequestID(), LogRequests("estimator"))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	req.Header.Set("X-Request-ID", "req-456")
	h.ServeHTTP(rr, req)

	logLine := buffer.String()
	for _, marker := range []string{"estimator", "method=GET", "path=/api/v1/history", "request_id=req-456"} {
		if !strings.Contains(logLine, marker) {
			t.Fatalf("request log missing marker %q: %q", marker, logLine)
		}
	}
}

func TestDecodeJSONDecodesBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":"ok"}`))
	var target struct {
		Value string `json:"value"`
	}
	if err := DecodeJSON(req, &target); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if target.Value != "ok" {
		t.Fatalf("value = %q, want %q", target.Value, "ok")
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":"ok","bogus":1}`))
	var target struct {
		Value string `json:"value"`
	}
	err := DecodeJSON(req, &target)
	if err == nil {
		t.Fatalf("expected DecodeJSON() error for unknown field")
	}
	var appErr apperrors.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperrors.KindInvalidInput {
		t.Fatalf("error kind = %v, want %v", err, apperrors.KindInvalidInput)
	}
}

func TestDecodeJSONRejectsNilRequest(t *testing.T) {
	t.Parallel()

	var target struct{}
	if err := DecodeJSON(nil, &target); err == nil {
		t.Fatalf("expected DecodeJSON(nil) error")
	}
}

func TestWriteJSONSetsContentTypeAndBody(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	err := WriteJSON(rr, http.StatusOK, struct {
		Value string `json:"value"`
	}{Value: "ok"})
	if err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q, want %q", got, "application/json; charset=utf-8")
	}
	if body := rr.Body.String(); !strings.Contains(body, "\"value\":\"ok\"") {
		t.Fatalf("body = %q, want encoded json", body)
	}
}

func TestWriteJSONErrorWrapsMessage(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	if err := WriteJSONError(rr, http.StatusBadRequest, "optimistic must be positive"); err != nil {
		t.Fatalf("WriteJSONError() error = %v", err)
	}
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if body := rr.Body.String(); !strings.Contains(body, "\"error\":\"optimistic must be positive\"") {
		t.Fatalf("body = %q, want error payload", body)
	}
}

func TestWriteErrorUsesTypedStatus(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteError(rr, apperrors.E(apperrors.KindNotFound, "history entry not found"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if body := rr.Body.String(); !strings.Contains(body, "history entry not found") {
		t.Fatalf("body = %q, want error message", body)
	}
}

func TestWriteErrorDefaultsInternalError(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("boom"))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestWriteErrorNilAndNilWriterSafety(t *testing.T) {
	t.Parallel()

	WriteError(nil, errors.New("ignored"))

	rr := httptest.NewRecorder()
	WriteError(rr, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestWriteJSONRequiresWriter(t *testing.T) {
	t.Parallel()

	if err := WriteJSON(nil, http.StatusOK, map[string]string{"ok": "true"}); err == nil {
		t.Fatalf("expected WriteJSON(nil) error")
	}
}

func TestRequestContextHandlesNilRequest(t *testing.T) {
	t.Parallel()

	if RequestContext(nil) == nil {
		t.Fatalf("expected fallback context for nil request")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if RequestContext(req) != req.Context() {
		t.Fatalf("expected request context passthrough")
	}
}
