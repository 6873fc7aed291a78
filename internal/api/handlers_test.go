package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/RishiKendai/scorerelay/internal/config"
	"github.com/RishiKendai/scorerelay/internal/relay"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type sheetsStub struct {
	server  *httptest.Server
	calls   int
	query   url.Values
	form    url.Values
	status  int
	payload string
}

func newSheetsStub(t *testing.T, status int, payload string) *sheetsStub {
	t.Helper()

	s := &sheetsStub{status: status, payload: payload}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls++
		r.ParseForm()
		s.query = r.URL.Query()
		s.form = r.PostForm
		w.WriteHeader(s.status)
		io.WriteString(w, s.payload)
	}))
	t.Cleanup(s.server.Close)
	return s
}

func testConfig() *config.Config {
	return &config.Config{
		SheetsWebhookURL:   "",
		SheetsSecret:       "s3cret",
		CORSAllowedOrigins: []string{"*"},
	}
}

func newTestHandler(cfg *config.Config) http.Handler {
	return NewHTTPHandler(cfg, relay.New(cfg.Relay()))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitScoreJSON(t *testing.T) {
	sheets := newSheetsStub(t, http.StatusOK, `{"status":"ok"}`)
	cfg := testConfig()
	cfg.SheetsWebhookURL = sheets.server.URL
	h := newTestHandler(cfg)

	req := httptest.NewRequest(http.MethodPost, SubmitScorePath,
		strings.NewReader(`{"roll":"2023CS10","snakeScore":12,"flappyScore":"4","stackScore":null}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != `{"success":true,"sheet":{"status":"ok"}}` {
		t.Errorf("Unexpected body %s", got)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Unexpected content type %q", ct)
	}
	if sheets.form.Get("snakeScore") != "12" || sheets.form.Get("flappyScore") != "4" || sheets.form.Get("stackScore") != "0" {
		t.Errorf("Unexpected upstream form %v", sheets.form)
	}
}

func TestSubmitScoreForm(t *testing.T) {
	sheets := newSheetsStub(t, http.StatusOK, `{"status":"ok"}`)
	cfg := testConfig()
	cfg.SheetsWebhookURL = sheets.server.URL
	h := newTestHandler(cfg)

	req := httptest.NewRequest(http.MethodPost, SubmitScorePath,
		strings.NewReader("roll=2023CS10&snakeScore=9"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(h, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if sheets.form.Get("roll") != "2023CS10" || sheets.form.Get("snakeScore") != "9" {
		t.Errorf("Unexpected upstream form %v", sheets.form)
	}
}

func TestSubmitScoreRejectsBadInput(t *testing.T) {
	sheets := newSheetsStub(t, http.StatusOK, `{"status":"ok"}`)
	cfg := testConfig()
	cfg.SheetsWebhookURL = sheets.server.URL
	h := newTestHandler(cfg)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantBody    string
	}{
		{"bad roll", "application/json", `{"roll":"21xx99"}`, http.StatusBadRequest, `{"error":"invalid_roll"}`},
		{"negative score", "application/json", `{"roll":"2023CS10","stackScore":-5}`, http.StatusBadRequest, `{"error":"invalid_score"}`},
		{"malformed json", "application/json", `{"roll":`, http.StatusBadRequest, `{"error":"invalid_roll"}`},
		{"plain text", "text/plain", `2023CS10`, http.StatusBadRequest, `{"error":"invalid_roll"}`},
		{"empty body", "", ``, http.StatusBadRequest, `{"error":"invalid_roll"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, SubmitScorePath, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := serve(h, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Body.String(); got != tt.wantBody {
				t.Errorf("Expected body %s, got %s", tt.wantBody, got)
			}
		})
	}

	if sheets.calls != 0 {
		t.Errorf("Expected no upstream calls, got %d", sheets.calls)
	}
}

func TestSubmitScoreUpstreamTextFailure(t *testing.T) {
	sheets := newSheetsStub(t, http.StatusInternalServerError, "Internal Error")
	cfg := testConfig()
	cfg.SheetsWebhookURL = sheets.server.URL
	h := newTestHandler(cfg)

	req := httptest.NewRequest(http.MethodPost, SubmitScorePath, strings.NewReader(`{"roll":"2023CS10"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", rec.Code)
	}
	if rec.Body.String() != "Internal Error" {
		t.Errorf("Expected raw upstream text, got %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Unexpected content type %q", ct)
	}
}

func TestLeaderboardQuery(t *testing.T) {
	sheets := newSheetsStub(t, http.StatusOK, `[{"roll":"2023CS10","snake":12}]`)
	cfg := testConfig()
	cfg.SheetsWebhookURL = sheets.server.URL
	h := newTestHandler(cfg)

	rec := serve(h, httptest.NewRequest(http.MethodGet, SubmitScorePath+"?action=leaderboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != `[{"roll":"2023CS10","snake":12}]` {
		t.Errorf("Unexpected body %s", got)
	}
	if sheets.query.Get("action") != "leaderboard" || sheets.query.Get("secret") != "s3cret" {
		t.Errorf("Unexpected upstream query %v", sheets.query)
	}
}

func TestSubmitScoreNotConfigured(t *testing.T) {
	h := newTestHandler(testConfig())

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := serve(h, httptest.NewRequest(method, SubmitScorePath, strings.NewReader(`{"roll":"2023CS10"}`)))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", method, rec.Code)
		}
		if got := rec.Body.String(); got != `{"error":"server_not_configured"}` {
			t.Errorf("%s: unexpected body %s", method, got)
		}
	}
}

func TestSubmitScoreMethodNotAllowed(t *testing.T) {
	sheets := newSheetsStub(t, http.StatusOK, `{}`)
	cfg := testConfig()
	cfg.SheetsWebhookURL = sheets.server.URL
	h := newTestHandler(cfg)

	rec := serve(h, httptest.NewRequest(http.MethodPut, SubmitScorePath, nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected status 405, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"error":"method_not_allowed"}` {
		t.Errorf("Unexpected body %s", got)
	}
}

func TestHealth(t *testing.T) {
	rec := serve(newTestHandler(testConfig()), httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"status":"healthy"}` {
		t.Errorf("Unexpected body %s", got)
	}
}
