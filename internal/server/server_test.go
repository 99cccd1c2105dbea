package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/agrimrv-lite/internal/auth"
	"github.com/jonathan/agrimrv-lite/internal/config"
	"github.com/jonathan/agrimrv-lite/internal/proofs"
	"github.com/jonathan/agrimrv-lite/internal/server/ratelimit"
	"github.com/jonathan/agrimrv-lite/internal/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test-secret-key-for-testing-only"

// testServer wraps a Server built from fixtures, an in-memory account store
// and a manual clock.
type testServer struct {
	*Server
	clock *submission.ManualClock
	store *auth.MemoryStore
}

type testOption func(*Options, *Deps)

func withRateLimit(cfg *ratelimit.Config) testOption {
	return func(_ *Options, d *Deps) { d.RateLimit = cfg }
}

func withPinger(p func(ctx context.Context) error) testOption {
	return func(_ *Options, d *Deps) { d.Pinger = p }
}

func withVerifier(v submission.Verifier) testOption {
	return func(_ *Options, d *Deps) { d.Verifier = v }
}

func newTestServer(t *testing.T, opts ...testOption) *testServer {
	t.Helper()

	source, err := proofs.NewFixtureSource()
	require.NoError(t, err)

	store := auth.NewMemoryStore()
	clock := submission.NewManualClock()

	o := Options{
		RecordingDuration: 3 * time.Second,
		VerificationDelay: 2 * time.Second,
		Clock:             clock,
	}
	d := Deps{
		Source:    source,
		Provider:  auth.NewUserService(store, &config.PasswordConfig{BcryptCost: config.MinBcryptCost}, zap.NewNop()),
		Tokens:    auth.NewJWTService(&config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 24}),
		RateLimit: &ratelimit.Config{Enabled: false},
	}
	for _, opt := range opts {
		opt(&o, &d)
	}

	s, err := NewWithDeps(o, d)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return &testServer{Server: s, clock: clock, store: store}
}

// browser sends requests straight to the handler and keeps cookies between them.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (ts *testServer) browser(t *testing.T) *browser {
	return &browser{t: t, handler: ts.Handler(), cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	resp := rec.Result()
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, values url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postFormJSON(path string, values url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return b.do(req)
}

// page fetches path and parses the HTML.
func (b *browser) page(path string) *goquery.Document {
	b.t.Helper()
	resp := b.get(path)
	require.Equal(b.t, http.StatusOK, resp.StatusCode, "GET %s", path)
	return parseHTML(b.t, resp)
}

func parseHTML(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

type toast struct {
	Title       string
	Description string
	Destructive bool
}

func toasts(doc *goquery.Document) []toast {
	var out []toast
	doc.Find(".toast").Each(func(_ int, s *goquery.Selection) {
		out = append(out, toast{
			Title:       strings.TrimSpace(s.Find(".toast-title").Text()),
			Description: strings.TrimSpace(s.Find(".toast-description").Text()),
			Destructive: s.HasClass("toast-destructive"),
		})
	})
	return out
}

func isDisabled(s *goquery.Selection) bool {
	_, ok := s.Attr("disabled")
	return ok
}

func TestNewWithDeps_RequiresCollaborators(t *testing.T) {
	_, err := NewWithDeps(Options{}, Deps{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	b := ts.browser(t)

	resp := b.get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestHealth_StoreUnavailable(t *testing.T) {
	ts := newTestServer(t, withPinger(func(context.Context) error {
		return errors.New("connection refused")
	}))
	b := ts.browser(t)

	resp := b.get("/health")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestVisitorCookieIssuedOnce(t *testing.T) {
	ts := newTestServer(t)
	b := ts.browser(t)

	resp := b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, b.cookies, "agrimrv_visitor")
	first := b.cookies["agrimrv_visitor"].Value

	resp = b.get("/proofs")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Cookies(), "known visitor gets no new cookie")
	assert.Equal(t, first, b.cookies["agrimrv_visitor"].Value)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, withRateLimit(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/api/", Method: http.MethodGet, Limit: 2, Window: time.Minute},
		},
	}))
	b := ts.browser(t)

	for i := 0; i < 2; i++ {
		resp := b.get("/api/routes")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	}

	// /api/proofs shares the /api/ bucket
	resp := b.get("/api/proofs")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	// Health is never limited
	resp = b.get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWithLogging_RecordsStatus(t *testing.T) {
	ts := newTestServer(t)

	handler := ts.withLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		io.WriteString(w, "short and stout") //nolint:errcheck
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/dashboard", "/dashboard"},
		{"/farmer-input", "/farmer-input"},
		{"", "/"},
		{"https://evil.example", "/"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, localPath(tt.in))
		})
	}
}

func TestFlowStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, flowStatus(submission.ErrNothingToSubmit))
	assert.Equal(t, http.StatusConflict, flowStatus(submission.ErrBusy))
	assert.Equal(t, http.StatusGone, flowStatus(submission.ErrClosed))
	assert.Equal(t, http.StatusInternalServerError, flowStatus(errors.New("boom")))
}

func TestNew_WithoutDatabase(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	s, err := New(context.Background(), config.Default(), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	b := &browser{t: t, handler: s.Handler(), cookies: make(map[string]*http.Cookie)}
	resp := b.postForm("/register", url.Values{"email": {"demo@example.com"}, "password": {"secret1"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 4, b.page("/proofs").Find("tr.proof-row").Length())
}

func TestNew_InvalidEnvironment(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"short JWT secret", map[string]string{"JWT_SECRET": "short"}},
		{"bcrypt cost", map[string]string{"BCRYPT_COST": "4"}},
		{"rate limit", map[string]string{"RATE_LIMIT_DEFAULT_LIMIT": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", testJWTSecret)
			t.Setenv("BCRYPT_COST", "10")
			t.Setenv("RATE_LIMIT_ENABLED", "true")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := New(context.Background(), config.Default(), zap.NewNop())
			assert.Error(t, err)
		})
	}
}
