package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"
)

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	logInfo("Starting Doctor Whordle in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	dicts, err := loadDictionaries()
	if err != nil {
		logFatal("Failed to load dictionaries: %v", err)
	}
	logInfo("Loaded %d daily answers, %d random answers",
		len(dicts[ModeDaily].Answers), len(dicts[ModeRandom].Answers))

	app := &App{
		Dicts:          dicts,
		Engines:        make(map[string]*Engine),
		SessionDir:     "data/sessions",
		IsProduction:   isProduction,
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 30*24*time.Hour),
		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 30*24*time.Hour),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		LimiterMap:     make(map[string]*rate.Limiter),
		StartTime:      time.Now(),
	}

	go app.sessionCleanupLoop()

	router := gin.Default()
	router.Use(requestIDMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
		ginGzip.WithExcludedPaths([]string{"/static/fonts"})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(func(c *gin.Context) {
		applyCacheHeaders(c, app.IsProduction)
	})

	if isProduction && dirExists("dist") {
		logInfo("Serving assets from dist/ directory")
		router.LoadHTMLGlob("dist/templates/*.html")
		router.Static("/static", "./dist/static")
	} else {
		logInfo("Serving development assets from source directories")
		router.LoadHTMLGlob("templates/*.html")
		router.Static("/static", "./static")
	}

	registerRoutes(router, app)
	startServer(router)
}

// loadDictionaries loads both modes' answer and accepted-guess lists.
func loadDictionaries() (map[GameMode]*Dictionary, error) {
	daily, err := loadDictionary(ModeDaily, "data/words.json", "data/accepted_words.txt")
	if err != nil {
		return nil, err
	}
	random, err := loadDictionary(ModeRandom, "data/random_words.json", "data/accepted_random_words.txt")
	if err != nil {
		return nil, err
	}
	return map[GameMode]*Dictionary{ModeDaily: daily, ModeRandom: random}, nil
}

// registerRoutes wires the handler set; mutating routes are rate limited.
func registerRoutes(router *gin.Engine, app *App) {
	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteGameState, app.gameStateHandler)
	router.GET(RouteStats, app.statsHandler)
	router.GET("/healthz", app.healthzHandler)

	limited := app.rateLimitMiddleware()
	router.POST(RouteKey, limited, app.keyHandler)
	router.POST(RouteDelete, limited, app.deleteHandler)
	router.POST(RouteGuess, limited, app.guessHandler)
	router.POST(RouteSwitchMode, limited, app.switchModeHandler)
	router.POST(RouteNewWord, limited, app.newWordHandler)
	router.POST(RouteGameDate, limited, app.gameDateHandler)
	router.POST(RouteSettings, limited, app.settingsHandler)
}

// sessionCleanupLoop periodically sweeps expired session directories and
// evicts their in-memory engines.
func (app *App) sessionCleanupLoop() {
	interval := getEnvDuration("SESSION_CLEANUP_INTERVAL", time.Hour)
	for {
		if err := cleanupOldSessions(app.SessionDir, app.SessionTimeout); err != nil {
			logWarn("Session cleanup failed: %v", err)
		}
		app.evictStaleEngines()
		time.Sleep(interval)
	}
}

// evictStaleEngines drops engines whose backing directory was cleaned away.
func (app *App) evictStaleEngines() {
	app.EngineMutex.Lock()
	defer app.EngineMutex.Unlock()
	for sessionID := range app.Engines {
		if !dirExists(app.SessionDir + "/" + sessionID) {
			delete(app.Engines, sessionID)
		}
	}
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}

// applyCacheHeaders keeps dynamic responses uncacheable and lets static
// assets cache briefly in production.
func applyCacheHeaders(c *gin.Context, production bool) {
	if production && strings.HasPrefix(c.Request.URL.Path, "/static/") {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(getEnvDuration("STATIC_CACHE_AGE", 5*time.Minute)),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}
