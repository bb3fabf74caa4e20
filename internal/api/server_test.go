package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/goleak"

	"cookierisk/internal/config"
	"cookierisk/internal/cookies"
	"cookierisk/internal/dispatch"
	"cookierisk/internal/pipeline"
	"cookierisk/internal/scoring"
	"cookierisk/internal/testsupport"
)

type fixture struct {
	cfg    *config.Config
	server *Server
	http   *httptest.Server
	scorer *testsupport.Scorer
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	opts = append([]testsupport.ConfigOption{testsupport.WithCookies(
		testsupport.Cookie{Domain: ".example.com", Name: "_ga", Value: "GA1.2.1"},
		testsupport.Cookie{Domain: "example.com", Name: "pref", Value: "aab"},
	)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	source, err := cookies.NewSource(cfg)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	orch := pipeline.New(pipeline.Options{
		Store:      store,
		Source:     source,
		Dispatcher: dispatch.NewDispatcher(scoring.NewClient(), dispatch.Options{Timeout: cfg.ScoringTimeout()}),
	})
	if err := orch.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	srv := NewServer(cfg, orch, nil)
	httpSrv := httptest.NewServer(srv.Handler())
	t.Cleanup(httpSrv.Close)
	return &fixture{cfg: cfg, server: srv, http: httpSrv, scorer: testsupport.NewScorer(t, nil)}
}

func (f *fixture) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, f.http.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token := f.cfg.API.Token; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.http.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestExtractPredictFlow(t *testing.T) {
	f := newFixture(t)

	var state SessionState
	if code := f.do(t, http.MethodGet, "/api/state", nil, &state); code != http.StatusOK {
		t.Fatalf("state: %d", code)
	}
	if state.Phase != "idle" || state.Outcomes == nil {
		t.Fatalf("unexpected initial state %+v", state)
	}

	var extracted ExtractResponse
	if code := f.do(t, http.MethodPost, "/api/extract", URLRequest{URL: "https://example.com/"}, &extracted); code != http.StatusOK {
		t.Fatalf("extract: %d", code)
	}
	if extracted.Count != 2 || extracted.Status != "2 cookies extracted" {
		t.Fatalf("unexpected extract response %+v", extracted)
	}

	var batch []dispatch.Item
	if code := f.do(t, http.MethodGet, "/api/batch", nil, &batch); code != http.StatusOK || len(batch) != 2 {
		t.Fatalf("batch: %d %+v", code, batch)
	}

	var failure ErrorResponse
	if code := f.do(t, http.MethodPost, "/api/predict", nil, &failure); code != http.StatusBadRequest {
		t.Fatalf("predict without endpoint: %d", code)
	}
	if failure.Error != pipeline.StatusNoEndpoint {
		t.Fatalf("unexpected error %q", failure.Error)
	}

	if code := f.do(t, http.MethodPut, "/api/endpoint", URLRequest{URL: f.scorer.URL}, nil); code != http.StatusOK {
		t.Fatalf("endpoint: %d", code)
	}

	var predicted PredictResponse
	if code := f.do(t, http.MethodPost, "/api/predict", nil, &predicted); code != http.StatusOK {
		t.Fatalf("predict: %d", code)
	}
	if predicted.Status != pipeline.StatusPredicted || predicted.Succeeded != 2 || predicted.RunID == "" {
		t.Fatalf("unexpected predict response %+v", predicted)
	}
	first := predicted.Outcomes[0]
	if first.Name != "_ga" || first.Level == nil || *first.Level != 2 || first.Label != "average" {
		t.Fatalf("unexpected first outcome %+v", first)
	}
	if first.DisplayMessage != "Risk level: 2 (Average)" {
		t.Fatalf("unexpected display message %q", first.DisplayMessage)
	}

	if code := f.do(t, http.MethodGet, "/api/state", nil, &state); code != http.StatusOK {
		t.Fatalf("state: %d", code)
	}
	if state.Phase != "displayed" || len(state.Outcomes) != 2 {
		t.Fatalf("unexpected state after predict %+v", state)
	}
}

func TestPredictWithEditedBatch(t *testing.T) {
	f := newFixture(t)
	if code := f.do(t, http.MethodPut, "/api/endpoint", URLRequest{URL: f.scorer.URL}, nil); code != http.StatusOK {
		t.Fatalf("endpoint: %d", code)
	}

	var predicted PredictResponse
	body := `[{"name":"a","sequence":[1]},{"name":"b","sequence":[1,2,3,4,5,6]}]`
	if code := f.do(t, http.MethodPost, "/api/predict", body, &predicted); code != http.StatusOK {
		t.Fatalf("predict: %d", code)
	}
	if len(predicted.Outcomes) != 2 || *predicted.Outcomes[1].Level != 1 {
		t.Fatalf("unexpected outcomes %+v", predicted.Outcomes)
	}

	var failure ErrorResponse
	if code := f.do(t, http.MethodPost, "/api/predict", `{"not":"a list"}`, &failure); code != http.StatusBadRequest {
		t.Fatalf("bad batch: %d", code)
	}
	if failure.Error != pipeline.StatusBadInput {
		t.Fatalf("unexpected error %q", failure.Error)
	}
}

func TestExtractFailuresAreUnprocessable(t *testing.T) {
	f := newFixture(t)

	var failure ErrorResponse
	if code := f.do(t, http.MethodPost, "/api/extract", URLRequest{URL: "https://nothing.org/"}, &failure); code != http.StatusUnprocessableEntity {
		t.Fatalf("extract: %d", code)
	}
	if failure.Error != pipeline.StatusNoCookies {
		t.Fatalf("unexpected error %q", failure.Error)
	}
	if code := f.do(t, http.MethodPost, "/api/extract", `{"url":`, &failure); code != http.StatusBadRequest {
		t.Fatalf("malformed body: %d", code)
	}
}

func TestClearAndEndpointValidation(t *testing.T) {
	f := newFixture(t)
	if code := f.do(t, http.MethodPost, "/api/extract", URLRequest{URL: "https://example.com/"}, nil); code != http.StatusOK {
		t.Fatalf("extract: %d", code)
	}

	var msg MessageResponse
	if code := f.do(t, http.MethodPost, "/api/clear", nil, &msg); code != http.StatusOK || msg.Status != pipeline.StatusCleared {
		t.Fatalf("clear: %d %+v", code, msg)
	}
	var state SessionState
	f.do(t, http.MethodGet, "/api/state", nil, &state)
	if state.Pending != 0 || state.Phase != "idle" {
		t.Fatalf("unexpected state after clear %+v", state)
	}

	var failure ErrorResponse
	if code := f.do(t, http.MethodPut, "/api/endpoint", URLRequest{URL: "ftp://nope"}, &failure); code != http.StatusBadRequest {
		t.Fatalf("bad endpoint: %d", code)
	}
	var current URLRequest
	if code := f.do(t, http.MethodGet, "/api/endpoint", nil, &current); code != http.StatusOK || current.URL != "" {
		t.Fatalf("endpoint show: %d %+v", code, current)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/state"},
		{http.MethodGet, "/api/extract"},
		{http.MethodPost, "/api/batch"},
		{http.MethodGet, "/api/predict"},
		{http.MethodGet, "/api/clear"},
		{http.MethodDelete, "/api/endpoint"},
	} {
		if code := f.do(t, tc.method, tc.path, nil, nil); code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s = %d, want 405", tc.method, tc.path, code)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	handler := authMiddleware("secret", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	cases := map[string]int{
		"":              http.StatusUnauthorized,
		"Bearer wrong":  http.StatusUnauthorized,
		"Basic secret":  http.StatusUnauthorized,
		"Bearer secret": http.StatusNoContent,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("Authorization %q = %d, want %d", header, w.Code, want)
		}
	}
}

func TestServerRequiresTokenWhenConfigured(t *testing.T) {
	f := newFixture(t)
	f.cfg.API.Token = "secret"
	f.server = NewServer(f.cfg, f.server.orch, nil)
	protected := httptest.NewServer(f.server.Handler())
	defer protected.Close()

	resp, err := protected.Client().Get(protected.URL + "/api/state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestStartEnforcesSingleInstance(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := NewServer(f.cfg, f.server.orch, nil)
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop()
	if first.Addr() == "" {
		t.Fatal("expected bound address")
	}

	resp, err := http.Get("http://" + first.Addr() + "/api/state")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	second := NewServer(f.cfg, f.server.orch, nil)
	if err := second.Start(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	first.Stop()
	third := NewServer(f.cfg, f.server.orch, nil)
	if err := third.Start(ctx); err != nil {
		t.Fatalf("Start after Stop: %v", err)
	}
	third.Stop()
}

func TestStopReleasesWatcherWithoutCancel(t *testing.T) {
	f := newFixture(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	server := NewServer(f.cfg, f.server.orch, nil)
	if err := server.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	server.Stop()
	server.Stop()
	if server.Addr() != "" {
		t.Fatalf("expected no address after Stop, got %q", server.Addr())
	}
}
