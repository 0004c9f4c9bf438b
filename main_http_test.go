package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func newTestServer(t *testing.T) (*App, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := &App{
		Dicts:          testDictionaries(),
		Engines:        make(map[string]*Engine),
		SessionDir:     t.TempDir(),
		CookieMaxAge:   time.Hour,
		SessionTimeout: time.Hour,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		LimiterMap:     make(map[string]*rate.Limiter),
		StartTime:      time.Now(),
	}

	router := gin.New()
	router.LoadHTMLGlob("templates/*.html")
	registerRoutes(router, app)
	return app, router
}

func doRequest(router *gin.Engine, method, path, form string, cookies []*http.Cookie, htmx bool) *httptest.ResponseRecorder {
	var req *http.Request
	if form != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookies(t *testing.T, router *gin.Engine) []*http.Cookie {
	t.Helper()
	w := doRequest(router, http.MethodGet, RouteHome, "", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return []*http.Cookie{c}
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestPublicRoutes(t *testing.T) {
	_, router := newTestServer(t)
	for _, path := range []string{RouteHome, RouteGameState, RouteStats, "/healthz"} {
		if w := doRequest(router, http.MethodGet, path, "", nil, false); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}

func TestHomePageRendersBoard(t *testing.T) {
	_, router := newTestServer(t)
	w := doRequest(router, http.MethodGet, RouteHome, "", nil, false)

	body := w.Body.String()
	for _, want := range []string{"game-board", "guess-grid", pageTitle} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
}

func TestSessionCookieIsUUID(t *testing.T) {
	_, router := newTestServer(t)
	cookies := sessionCookies(t, router)
	if _, err := uuid.Parse(cookies[0].Value); err != nil {
		t.Errorf("session cookie %q is not a UUID: %v", cookies[0].Value, err)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
}

// TestGuessFlow wins the daily game through the HTTP surface and checks the
// HTMX effect header plus the statistics endpoint afterwards.
func TestGuessFlow(t *testing.T) {
	_, router := newTestServer(t)
	cookies := sessionCookies(t, router)

	w := doRequest(router, http.MethodPost, RouteGuess, "guess="+TestWordCrane, cookies, true)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /guess = %d", w.Code)
	}
	trigger := w.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "game-effects") || !strings.Contains(trigger, EffectShowSuccess) {
		t.Errorf("HX-Trigger = %q, want game-effects with a success alert", trigger)
	}
	if !strings.Contains(w.Body.String(), StatusCorrect) {
		t.Error("winning row not scored in the rendered fragment")
	}

	stats := doRequest(router, http.MethodGet, RouteStats, "", cookies, false)
	if stats.Code != http.StatusOK || !strings.Contains(stats.Body.String(), `"totalGames":1`) {
		t.Errorf("GET /stats = %d body=%s", stats.Code, stats.Body.String())
	}
}

// TestGuessRejectionTrigger submits a short guess and expects the jiggle and
// alert effects in the HX-Trigger payload, with no guess committed.
func TestGuessRejectionTrigger(t *testing.T) {
	_, router := newTestServer(t)
	cookies := sessionCookies(t, router)

	doRequest(router, http.MethodPost, RouteKey, "key=C", cookies, true)
	w := doRequest(router, http.MethodPost, RouteGuess, "", cookies, true)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /guess = %d", w.Code)
	}
	trigger := w.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, EffectRowJiggle) || !strings.Contains(trigger, MsgNotEnoughLetters) {
		t.Errorf("HX-Trigger = %q", trigger)
	}
}

func TestSwitchModeEndpoint(t *testing.T) {
	_, router := newTestServer(t)
	cookies := sessionCookies(t, router)

	w := doRequest(router, http.MethodPost, RouteSwitchMode, "mode=random", cookies, true)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /switch-mode = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `data-mode="random"`) {
		t.Error("board did not switch to random mode")
	}

	w = doRequest(router, http.MethodPost, RouteSwitchMode, "mode=sideways", cookies, true)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `data-mode="random"`) {
		t.Error("unknown mode should leave the active session alone")
	}
}

func TestSettingsEndpoint(t *testing.T) {
	_, router := newTestServer(t)
	cookies := sessionCookies(t, router)

	w := doRequest(router, http.MethodPost, RouteSettings, "theme=dark&highContrast=on", cookies, true)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /settings = %d", w.Code)
	}

	home := doRequest(router, http.MethodGet, RouteHome, "", cookies, false)
	body := home.Body.String()
	if !strings.Contains(body, `class="dark high-contrast"`) {
		t.Errorf("page did not pick up theme preferences")
	}
}

func TestHealthzPayload(t *testing.T) {
	_, router := newTestServer(t)
	w := doRequest(router, http.MethodGet, "/healthz", "", nil, false)

	body := w.Body.String()
	for _, want := range []string{`"status":"ok"`, `"words_loaded":1`, `"random_words":2`} {
		if !strings.Contains(body, want) {
			t.Errorf("healthz body missing %s: %s", want, body)
		}
	}
}

// TestRateLimit exhausts a small burst and expects 429 with the HTMX
// rate-limit trigger.
func TestRateLimit(t *testing.T) {
	app, router := newTestServer(t)
	app.RateLimitRPS = 1
	app.RateLimitBurst = 2
	cookies := sessionCookies(t, router)

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = doRequest(router, http.MethodPost, RouteKey, "key=C", cookies, true)
		codes = append(codes, last.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("status codes = %v", codes)
	}
	if got := last.Header().Get("HX-Trigger"); got != "rate-limit-exceeded" {
		t.Errorf("HX-Trigger = %q", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(requestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get("X-Request-Id")
	if _, err := uuid.Parse(generated); err != nil {
		t.Errorf("generated request ID %q is not a UUID", generated)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "caller-supplied")
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-Id"); got != "caller-supplied" {
		t.Errorf("request ID not preserved: %q", got)
	}
}
