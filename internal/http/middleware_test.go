package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSessionIdentity(t *testing.T) {
	t.Parallel()

	capture := func(got *string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*got, _ = SessionIDFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})
	}

	t.Run("issues a cookie when none is present", func(t *testing.T) {
		t.Parallel()

		var got string
		rec := httptest.NewRecorder()
		SessionIdentity(nil)(capture(&got)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if got == "" {
			t.Fatal("expected session id in context")
		}
		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != SessionCookieName || cookies[0].Value != got {
			t.Fatalf("unexpected cookies %+v", cookies)
		}
		if !cookies[0].HttpOnly {
			t.Fatal("expected HttpOnly cookie")
		}
		if rec.Header().Get(SessionHeader) != got {
			t.Fatalf("expected session header %q, got %q", got, rec.Header().Get(SessionHeader))
		}
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		t.Parallel()

		var got string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(SessionHeader, "from-header")
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
		rec := httptest.NewRecorder()
		SessionIdentity(nil)(capture(&got)).ServeHTTP(rec, req)

		if got != "from-header" {
			t.Fatalf("expected header session, got %q", got)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatal("expected no new cookie")
		}
	})

	t.Run("existing cookie is reused", func(t *testing.T) {
		t.Parallel()

		var got string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
		SessionIdentity(nil)(capture(&got)).ServeHTTP(httptest.NewRecorder(), req)

		if got != "from-cookie" {
			t.Fatalf("expected cookie session, got %q", got)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("echoes an incoming request id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()

		var hasLogger bool
		RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasLogger = LoggerFromContext(r.Context()) != nil
			w.WriteHeader(http.StatusTeapot)
		})).ServeHTTP(rec, req)

		if rec.Header().Get(RequestIDHeader) != "req-42" {
			t.Fatalf("unexpected request id %q", rec.Header().Get(RequestIDHeader))
		}
		if !hasLogger {
			t.Fatal("expected request logger in context")
		}
		if rec.Code != http.StatusTeapot {
			t.Fatalf("expected status passthrough, got %d", rec.Code)
		}
	})

	t.Run("generates a request id when absent", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Header().Get(RequestIDHeader) == "" {
			t.Fatal("expected generated request id")
		}
	})
}

func TestHandlerLoggerTagsSession(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := ContextWithSessionID(context.Background(), "caixa-1")

	handlerLogger(ctx, base, "PaymentHandler", "CheckoutAppointment", "appointment_id", "apt-1").Info("draft stored")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["session_id"] != "caixa-1" || entry["handler"] != "PaymentHandler" || entry["appointment_id"] != "apt-1" {
		t.Fatalf("unexpected attributes: %v", entry)
	}

	buf.Reset()
	handlerLogger(context.Background(), base, "PaymentHandler", "List").Info("payments listed")
	if bytes.Contains(buf.Bytes(), []byte("session_id")) {
		t.Fatalf("expected no session attribute without a session, got %q", buf.String())
	}
}
