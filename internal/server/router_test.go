package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestBasicRouter(t *testing.T) {
	t.Run("Method Patterns", func(t *testing.T) {
		r := NewBasicRouter()
		r.HandleFunc("get", "/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("pong"))
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Body.String() != "pong" {
			t.Errorf("expected pong, got %q", rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}

		if got := r.Patterns(); len(got) != 1 || got[0] != "GET /ping" {
			t.Errorf("unexpected patterns %v", got)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.HandleFunc(http.MethodGet, "/", func(http.ResponseWriter, *http.Request) { order = append(order, "handler") })
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Stub Mounted At Root", func(t *testing.T) {
		r := NewStubRouter(log.New(io.Discard))
		if got := r.Patterns(); len(got) != 1 || got[0] != "/" {
			t.Errorf("unexpected patterns %v", got)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("CORS Preflight", func(t *testing.T) {
		r := NewStubRouter(log.New(io.Discard))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/compare", nil))

		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("expected wildcard origin")
		}
		if !strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
			t.Error("expected Authorization in allowed headers")
		}
	})

	t.Run("Recoverer", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewBasicRouter()
		r.Use(Recoverer(log.New(&buf)))
		r.HandleFunc(http.MethodGet, "/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Internal server error") {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
		if !strings.Contains(buf.String(), "handler panic") {
			t.Error("expected panic to be logged")
		}
	})

	t.Run("Request Logger", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewBasicRouter()
		r.Use(RequestLogger(log.New(&buf)))
		r.HandleFunc(http.MethodGet, "/teapot", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil))

		out := buf.String()
		if !strings.Contains(out, "status=418") || !strings.Contains(out, "path=/teapot") {
			t.Errorf("unexpected log line %q", out)
		}
	})
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)

	go func() {
		done <- Serve(ctx, "127.0.0.1:0", NewStubRouter(log.New(io.Discard)), log.New(io.Discard), ready)
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for listener")
	}

	resp, err := http.Get("http://" + addr + "/api/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for shutdown")
	}
}
