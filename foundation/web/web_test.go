package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/foundation/web"
)

func Test_App(t *testing.T) {
	shutdown := make(chan os.Signal, 1)

	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(shutdown, mw("first"), mw("second"))

	app.Handle(http.MethodGet, "v1", "/echo/:name", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil {
			return err
		}
		resp := struct {
			Name    string `json:"name"`
			TraceID string `json:"trace_id"`
		}{
			Name:    web.Param(r, "name"),
			TraceID: v.TraceID,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}, mw("route"))

	app.Handle(http.MethodPost, "", "/fatal", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	})

	r := httptest.NewRequest(http.MethodGet, "/v1/echo/ledger", nil)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Should get a 200: got %d", w.Code)
	}

	var got struct {
		Name    string `json:"name"`
		TraceID string `json:"trace_id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Should decode the response: %s", err)
	}
	if got.Name != "ledger" || got.TraceID == "" {
		t.Fatalf("Should get the param and a trace id: got %+v", got)
	}

	if strings.Join(order, ",") != "first,second,route" {
		t.Fatalf("Should run middleware in order: got %v", order)
	}

	r = httptest.NewRequest(http.MethodPost, "/fatal", nil)
	app.ServeHTTP(httptest.NewRecorder(), r)

	select {
	case <-shutdown:
	default:
		t.Fatal("Should signal a shutdown on a shutdown error.")
	}
}

func Test_Decode(t *testing.T) {
	var v struct {
		Sender string `json:"sender"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"sender":"alice"}`))
	if err := web.Decode(r, &v); err != nil || v.Sender != "alice" {
		t.Fatalf("Should decode the body: %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	if err := web.Decode(r, &v); err == nil {
		t.Fatal("Should fail on a bad body.")
	}
}

func Test_HandlePreflight(t *testing.T) {
	app := web.NewApp(make(chan os.Signal, 1))

	app.Handle(http.MethodGet, "v1", "/chain", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, nil, http.StatusOK)
	})
	app.HandlePreflight(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1/chain", nil))

	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("Should answer the preflight: got %d", w.Code)
	}
}
