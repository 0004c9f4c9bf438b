package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const pageTitle = "Doctor Whordle"

// renderGame answers a game request: effects ride the HX-Trigger header for
// HTMX requests and are embedded as JSON for full page loads, then the board
// is rendered from a fresh engine snapshot.
func (app *App) renderGame(c *gin.Context, engine *Engine, effects []Effect) {
	effects = append(engine.TakePending(), effects...)

	effectsJSON := "[]"
	if len(effects) > 0 {
		if b, err := json.Marshal(effects); err == nil {
			effectsJSON = string(b)
		} else {
			logWarn("Failed to marshal effects payload: %v", err)
		}
	}

	view := engine.Snapshot()
	data := gin.H{
		"view":          view,
		"stats":         engine.Stats(),
		"effects":       effectsJSON,
		"gameDateLabel": view.GameDate.Format("2 January 2006"),
	}

	if c.GetHeader("HX-Request") == "true" {
		if len(effects) > 0 {
			if b, err := json.Marshal(gin.H{"game-effects": effects}); err == nil {
				c.Header("HX-Trigger", string(b))
			} else {
				logWarn("Failed to marshal HX-Trigger payload: %v", err)
			}
		}
		c.HTML(http.StatusOK, "game-content", data)
		return
	}
	data["title"] = pageTitle
	c.HTML(http.StatusOK, "index.html", data)
}

// homeHandler renders the main game page for the current session.
func (app *App) homeHandler(c *gin.Context) {
	engine := app.getEngine(c)
	app.renderGame(c, engine, nil)
}

// gameStateHandler renders the current game board as an HTML fragment.
func (app *App) gameStateHandler(c *gin.Context) {
	engine := app.getEngine(c)
	app.renderGame(c, engine, nil)
}

// keyHandler appends one typed letter to the in-flight guess.
func (app *App) keyHandler(c *gin.Context) {
	engine := app.getEngine(c)
	engine.AppendChar(c.PostForm("key"))
	app.renderGame(c, engine, nil)
}

// deleteHandler removes the last letter of the in-flight guess.
func (app *App) deleteHandler(c *gin.Context) {
	engine := app.getEngine(c)
	engine.DeleteChar()
	app.renderGame(c, engine, nil)
}

// guessHandler submits the in-flight guess. A non-empty "guess" form value
// replaces the in-flight input first, so non-JS form posts still work.
func (app *App) guessHandler(c *gin.Context) {
	engine := app.getEngine(c)

	if word := normalizeGuess(c.PostForm("guess")); word != "" {
		cfg := engine.Snapshot().Config
		for i := 0; i < cfg.WordLength; i++ {
			engine.DeleteChar()
		}
		for _, letter := range splitGraphemes(word) {
			engine.AppendChar(letter)
		}
	}

	effects := engine.SubmitGuess()
	app.renderGame(c, engine, effects)
}

// switchModeHandler flips between the daily and random sessions.
func (app *App) switchModeHandler(c *gin.Context) {
	engine := app.getEngine(c)
	switch GameMode(c.PostForm("mode")) {
	case ModeRandom:
		engine.SwitchMode(ModeRandom)
	case ModeDaily:
		engine.SwitchMode(ModeDaily)
	default:
		logWarn("Ignoring unknown game mode: %q", c.PostForm("mode"))
	}
	app.renderGame(c, engine, nil)
}

// newWordHandler draws a fresh random-mode word on explicit request.
func (app *App) newWordHandler(c *gin.Context) {
	engine := app.getEngine(c)
	engine.ResetRandomSession()
	app.renderGame(c, engine, nil)
}

// gameDateHandler travels to another day's puzzle.
func (app *App) gameDateHandler(c *gin.Context) {
	engine := app.getEngine(c)
	var effects []Effect
	if raw := c.PostForm("date"); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			logWarn("Ignoring unparseable game date %q: %v", raw, err)
		} else {
			effects = engine.SetGameDate(date)
		}
	}
	app.renderGame(c, engine, effects)
}

// settingsHandler applies preference toggles. Only fields present in the
// form are touched; a rejected hard-mode toggle comes back as an alert.
func (app *App) settingsHandler(c *gin.Context) {
	engine := app.getEngine(c)
	var effects []Effect

	if v := c.PostForm("hardMode"); v != "" {
		effects = append(effects, engine.SetHardMode(v == "on")...)
	}
	if v := c.PostForm("theme"); v != "" {
		engine.SetDarkMode(v == PrefDark)
	}
	if v := c.PostForm("highContrast"); v != "" {
		engine.SetHighContrast(v == "on")
	}
	app.renderGame(c, engine, effects)
}

// statsHandler returns the cumulative statistics as JSON.
func (app *App) statsHandler(c *gin.Context) {
	engine := app.getEngine(c)
	c.JSON(http.StatusOK, engine.Stats())
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"env":            map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"words_loaded":   len(app.Dicts[ModeDaily].Answers),
		"random_words":   len(app.Dicts[ModeRandom].Answers),
		"accepted_words": len(app.Dicts[ModeDaily].AcceptedSet),
		"uptime":         formatUptime(uptime),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
