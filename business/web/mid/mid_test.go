package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/business/web/mid"
	"github.com/ardanlabs/powledger/foundation/web"
	"go.uber.org/zap/zaptest"
)

func Test_Errors(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()

	type table struct {
		name   string
		err    error
		status int
		msg    string
		fields map[string]string
	}

	tt := []table{
		{
			name:   "fields",
			err:    validate.FieldErrors{{Field: "sender", Err: "sender is a required field"}},
			status: http.StatusBadRequest,
			msg:    "data validation error",
			fields: map[string]string{"sender": "sender is a required field"},
		},
		{
			name:   "trusted",
			err:    errs.NewTrusted(errors.New("missing amount"), http.StatusBadRequest),
			status: http.StatusBadRequest,
			msg:    "missing amount",
		},
		{
			name:   "untrusted",
			err:    errors.New("storage exploded"),
			status: http.StatusInternalServerError,
			msg:    http.StatusText(http.StatusInternalServerError),
		},
		{
			name:   "panic",
			status: http.StatusInternalServerError,
			msg:    http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			app := web.NewApp(make(chan os.Signal, 1), mid.Logger(log), mid.Errors(log), mid.Metrics(), mid.Panics())

			app.Handle(http.MethodGet, "", "/fail", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				if tst.err == nil {
					panic("boom")
				}
				return tst.err
			})

			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

			if w.Code != tst.status {
				t.Fatalf("Test %s:\tShould get status %d: got %d", tst.name, tst.status, w.Code)
			}

			var resp errs.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Test %s:\tShould decode the response: %s", tst.name, err)
			}

			if resp.Error != tst.msg {
				t.Fatalf("Test %s:\tShould get message %q: got %q", tst.name, tst.msg, resp.Error)
			}

			for k, v := range tst.fields {
				if resp.Fields[k] != v {
					t.Fatalf("Test %s:\tShould get field %s=%q: got %q", tst.name, k, v, resp.Fields[k])
				}
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Shutdown(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()
	shutdown := make(chan os.Signal, 1)

	app := web.NewApp(shutdown, mid.Errors(log))
	app.Handle(http.MethodGet, "", "/fatal", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("chain integrity")
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fatal", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Should respond with a 500: got %d", w.Code)
	}

	select {
	case <-shutdown:
	default:
		t.Fatal("Should pass the shutdown error to the app.")
	}
}

func Test_Cors(t *testing.T) {
	app := web.NewApp(make(chan os.Signal, 1), mid.Cors("*"))
	app.Handle(http.MethodOptions, "", "/*", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, nil, http.StatusOK)
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1/chain", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Should respond with a 200: got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Should set the allowed origin: got %q", got)
	}
}
