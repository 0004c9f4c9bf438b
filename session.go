package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// App carries the loaded dictionaries and the per-browser engine registry.
type App struct {
	Dicts        map[GameMode]*Dictionary
	Engines      map[string]*Engine
	EngineMutex  sync.RWMutex
	SessionDir   string
	IsProduction bool

	CookieMaxAge   time.Duration
	SessionTimeout time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	LimiterMap     map[string]*rate.Limiter
	LimiterMutex   sync.Mutex
	StartTime      time.Time
}

// getOrCreateSession retrieves the session ID from the cookie or creates a
// new one. Anything that is not a UUID is replaced, so slot stores can trust
// the ID.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil {
		sessionID = ""
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// getEngine retrieves or constructs the engine for a session. Construction
// loads persisted state from the session's slot store; if the store cannot
// be created the engine runs on an in-memory store for this process life.
func (app *App) getEngine(c *gin.Context) *Engine {
	sessionID := app.getOrCreateSession(c)

	app.EngineMutex.RLock()
	engine, exists := app.Engines[sessionID]
	app.EngineMutex.RUnlock()
	if exists {
		return engine
	}

	store, err := sessionSlotStore(app.SessionDir, sessionID)
	if err != nil {
		logWarn("Failed to open slot store for session %s, using memory store: %v", sessionID, err)
		store = newMemorySlotStore()
	}
	engine = NewEngine(app.Dicts, store, time.Now(), nil)

	app.EngineMutex.Lock()
	if racing, ok := app.Engines[sessionID]; ok {
		engine = racing
	} else {
		app.Engines[sessionID] = engine
		logInfo("Created engine for session: %s", sessionID)
	}
	app.EngineMutex.Unlock()
	return engine
}
