package main

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Engine owns both mode sessions for one player, the statistics and the
// preference flags, and mediates every read and write to persistence. All
// operations run synchronously to completion; anything deferred (alerts, the
// reveal window, opening the stats view) is returned as Effect values for
// the presentation layer to schedule.
type Engine struct {
	mu    sync.Mutex
	dicts map[GameMode]*Dictionary
	store SlotStore
	now   func() time.Time

	mode         GameMode
	sessions     map[GameMode]*Session
	gameDate     time.Time
	isLatestDate bool
	stats        GameStats
	prefs        Prefs
	themeChosen  bool
	firstVisit   bool

	revealDeadline time.Time
	pending        []Effect
}

// NewEngine builds an engine for the given game date (clamped into the valid
// range), reconciling each mode's session against its persisted slot. A
// stored record is adopted only when its solution still matches; a loaded
// completed loss re-emits its reveal alert so a page reload still informs
// the player.
func NewEngine(dicts map[GameMode]*Dictionary, store SlotStore, requestedDate time.Time, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	e := &Engine{
		dicts:    dicts,
		store:    store,
		now:      now,
		mode:     ModeDaily,
		sessions: make(map[GameMode]*Session),
	}
	e.loadPrefs()
	e.loadStats()

	e.gameDate = clampGameDate(requestedDate, now())
	e.isLatestDate = sameDay(e.gameDate, now())

	e.sessions[ModeDaily] = e.newDailySession()
	e.sessions[ModeRandom] = e.newRandomSession()
	var stored StoredGameState
	found, _ := store.Get(SlotDailyGame, &stored)
	e.firstVisit = !found
	e.pending = append(e.pending, e.loadSession(ModeDaily)...)
	e.pending = append(e.pending, e.loadSession(ModeRandom)...)
	return e
}

func (e *Engine) newDailySession() *Session {
	entry := e.dicts[ModeDaily].AnswerAt(dailyIndex(e.gameDate))
	return &Session{Mode: ModeDaily, TargetWord: entry.Word, Explanation: entry.Explanation}
}

func (e *Engine) newRandomSession() *Session {
	dict := e.dicts[ModeRandom]
	entry := dict.AnswerAt(dict.RandomIndex())
	return &Session{Mode: ModeRandom, TargetWord: entry.Word, Explanation: entry.Explanation}
}

// slotFor maps a mode to its persistence slot. Random mode has its own slot;
// daily games split between the latest slot and the shared archive slot.
func (e *Engine) slotFor(mode GameMode) string {
	if mode == ModeRandom {
		return SlotRandomGame
	}
	if e.isLatestDate {
		return SlotDailyGame
	}
	return SlotArchiveGame
}

// loadSession reconciles one mode's fresh session with its persisted slot.
func (e *Engine) loadSession(mode GameMode) []Effect {
	s := e.sessions[mode]
	var stored StoredGameState
	found, err := e.store.Get(e.slotFor(mode), &stored)
	if err != nil {
		logWarn("Failed to read %s slot, starting empty: %v", mode, err)
		return nil
	}
	if !found {
		return nil
	}

	if mode == ModeRandom {
		// The random word survives reloads: a valid stored solution is
		// adopted as the target rather than discarded.
		if !e.dicts[ModeRandom].ContainsAnswer(stored.Solution) {
			return nil
		}
		s.TargetWord = stored.Solution
		s.Explanation = e.dicts[ModeRandom].ExplanationFor(stored.Solution)
	} else if stored.Solution != s.TargetWord {
		logInfo("Stored %s game is for a different solution, discarding", mode)
		return nil
	}

	s.Guesses = append([]string(nil), stored.Guesses...)
	s.IsWon = slices.Contains(s.Guesses, s.TargetWord)
	s.IsLost = !s.IsWon && len(s.Guesses) >= modeConfigs[mode].Challenges
	if s.IsLost {
		return []Effect{{
			Kind:       EffectShowError,
			Message:    correctWordMessage(s.TargetWord, s.Explanation),
			DurationMs: AlertTimeMs,
		}}
	}
	return nil
}

func (e *Engine) loadPrefs() {
	var gameMode, theme, contrast string
	if found, _ := e.store.Get(SlotGameMode, &gameMode); found {
		e.prefs.HardMode = gameMode == PrefHard
	}
	if found, _ := e.store.Get(SlotTheme, &theme); found {
		e.prefs.DarkMode = theme == PrefDark
		e.themeChosen = true
	}
	found, _ := e.store.Get(SlotHighContrast, &contrast)
	e.prefs.HighContrast = found && contrast == "1"
}

func (e *Engine) loadStats() {
	var stored GameStats
	if found, _ := e.store.Get(SlotStats, &stored); found && len(stored.WinDistribution) == DailyChallenges {
		e.stats = stored
		return
	}
	e.stats = newGameStats()
}

// persist writes the active guesses and solution for a mode. Called after
// every mutation of Guesses, never for CurrentInput-only changes.
func (e *Engine) persist(mode GameMode) {
	s := e.sessions[mode]
	state := StoredGameState{Guesses: append([]string(nil), s.Guesses...), Solution: s.TargetWord}
	if err := e.store.Put(e.slotFor(mode), state); err != nil {
		logWarn("Failed to persist %s game: %v", mode, err)
	}
}

// tick expires the advisory reveal flag; every operation goes through it.
func (e *Engine) tick() {
	if e.sessions[e.mode].IsRevealing && e.now().After(e.revealDeadline) {
		e.sessions[e.mode].IsRevealing = false
	}
}

// TakePending drains effects produced outside a direct operation, such as a
// completed loss rediscovered while loading persisted state.
func (e *Engine) TakePending() []Effect {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.pending
	e.pending = nil
	return out
}

// AppendChar adds one grapheme to the in-flight guess. A no-op when the
// session is terminal, the row is full, or the guess budget is spent.
func (e *Engine) AppendChar(ch string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tick()

	s := e.sessions[e.mode]
	cfg := modeConfigs[e.mode]
	if s.Terminal() || unicodeLength(ch) != 1 {
		return
	}
	if unicodeLength(s.CurrentInput)+1 > cfg.WordLength || len(s.Guesses) >= cfg.Challenges {
		return
	}
	s.CurrentInput += normalizeGuess(ch)
}

// DeleteChar removes the last grapheme of the in-flight guess.
func (e *Engine) DeleteChar() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tick()

	s := e.sessions[e.mode]
	if s.Terminal() {
		return
	}
	s.CurrentInput = trimLastGrapheme(s.CurrentInput)
}

// SubmitGuess validates and applies the in-flight guess. Validation failures
// leave the session untouched and return jiggle/alert effects. On success
// the guess is committed, persisted, and win/loss transitions (including the
// statistics fold for latest-day daily games) happen before returning.
func (e *Engine) SubmitGuess() []Effect {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tick()

	s := e.sessions[e.mode]
	cfg := modeConfigs[e.mode]
	if s.Terminal() {
		return nil
	}

	if unicodeLength(s.CurrentInput) != cfg.WordLength {
		return rejectionEffects(MsgNotEnoughLetters)
	}
	if !e.dicts[e.mode].IsValidGuess(s.CurrentInput) {
		return rejectionEffects(MsgWordNotFound)
	}
	if e.prefs.HardMode {
		if msg := firstUnusedReveal(s.CurrentInput, s.Guesses, s.TargetWord); msg != "" {
			return rejectionEffects(msg)
		}
	}

	guess := s.CurrentInput
	s.Guesses = append(s.Guesses, guess)
	s.CurrentInput = ""
	s.IsRevealing = true
	revealMs := RevealTimeMs * cfg.WordLength
	e.revealDeadline = e.now().Add(time.Duration(revealMs) * time.Millisecond)
	e.persist(e.mode)

	effects := []Effect{{Kind: EffectReveal, DurationMs: revealMs}}

	if guess == s.TargetWord {
		s.IsWon = true
		if e.mode == ModeDaily && e.isLatestDate {
			e.stats = addCompletedGame(e.stats, len(s.Guesses), true)
			e.persistStats()
		}
		win := Effect{
			Kind:       EffectShowSuccess,
			Message:    s.Explanation,
			DelayMs:    revealMs,
			DurationMs: AlertTimeMs,
		}
		if e.mode == ModeDaily {
			win.OnClose = EffectOpenStats
		}
		return append(effects, win)
	}

	if len(s.Guesses) == cfg.Challenges {
		s.IsLost = true
		if e.mode == ModeDaily && e.isLatestDate {
			e.stats = addCompletedGame(e.stats, cfg.Challenges, false)
			e.persistStats()
		}
		effects = append(effects, Effect{
			Kind:       EffectShowError,
			Message:    correctWordMessage(s.TargetWord, s.Explanation),
			DelayMs:    revealMs + 1,
			DurationMs: AlertTimeMs,
		})
		if e.mode == ModeDaily {
			effects = append(effects, Effect{
				Kind:    EffectOpenStats,
				DelayMs: (cfg.WordLength + 1) * RevealTimeMs,
			})
		}
	}
	return effects
}

func (e *Engine) persistStats() {
	if err := e.store.Put(SlotStats, e.stats); err != nil {
		logWarn("Failed to persist stats: %v", err)
	}
}

// SwitchMode flips the active session. Both sessions stay in memory, so
// switching back restores prior progress without touching persistence.
func (e *Engine) SwitchMode(mode GameMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := modeConfigs[mode]; !ok {
		return
	}
	e.mode = mode
}

// ResetRandomSession draws a fresh random answer and clears that session.
// Reselection only ever happens here, never automatically.
func (e *Engine) ResetRandomSession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions[ModeRandom] = e.newRandomSession()
	e.persist(ModeRandom)
}

// SetGameDate travels to another day's puzzle. The date is clamped into
// [epoch, today]; past days load from the shared archive slot and never feed
// statistics.
func (e *Engine) SetGameDate(requested time.Time) []Effect {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.gameDate = clampGameDate(requested, e.now())
	e.isLatestDate = sameDay(e.gameDate, e.now())
	e.sessions[ModeDaily] = e.newDailySession()
	return e.loadSession(ModeDaily)
}

// SetHardMode toggles hard mode. Enabling mid-game is rejected through the
// same alert channel as guess validation; disabling is always allowed.
func (e *Engine) SetHardMode(on bool) []Effect {
	e.mu.Lock()
	defer e.mu.Unlock()

	if on && !e.prefs.HardMode && len(e.sessions[ModeDaily].Guesses) > 0 {
		return []Effect{{Kind: EffectShowError, Message: MsgHardModeLocked, DurationMs: AlertTimeMs}}
	}
	e.prefs.HardMode = on
	value := PrefNormal
	if on {
		value = PrefHard
	}
	if err := e.store.Put(SlotGameMode, value); err != nil {
		logWarn("Failed to persist hard mode preference: %v", err)
	}
	return nil
}

// SetDarkMode stores the theme preference; the flag is opaque to the engine.
// Until the player chooses, the client's color-scheme preference decides.
func (e *Engine) SetDarkMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefs.DarkMode = on
	e.themeChosen = true
	value := PrefLight
	if on {
		value = PrefDark
	}
	if err := e.store.Put(SlotTheme, value); err != nil {
		logWarn("Failed to persist theme preference: %v", err)
	}
}

// SetHighContrast stores the high-contrast marker: present means enabled.
func (e *Engine) SetHighContrast(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefs.HighContrast = on
	var err error
	if on {
		err = e.store.Put(SlotHighContrast, "1")
	} else {
		err = e.store.Delete(SlotHighContrast)
	}
	if err != nil {
		logWarn("Failed to persist high contrast preference: %v", err)
	}
}

// Stats returns a copy of the accumulated statistics.
func (e *Engine) Stats() GameStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	stats := e.stats
	stats.WinDistribution = append([]int(nil), stats.WinDistribution...)
	return stats
}

// EngineView is the render snapshot handed to templates. It never carries
// the target word for an unfinished session.
type EngineView struct {
	Mode         GameMode
	Config       ModeConfig
	Rows         [][]GuessResult
	Guesses      []string
	CurrentInput string
	IsWon        bool
	IsLost       bool
	IsRevealing  bool
	RevealedWord string
	GameDate     time.Time
	IsLatestDate bool
	HardMode     bool
	DarkMode     bool
	ThemeChosen  bool
	HighContrast bool
	FirstVisit   bool
}

// Snapshot builds the render view for the active session.
func (e *Engine) Snapshot() EngineView {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tick()

	s := e.sessions[e.mode]
	cfg := modeConfigs[e.mode]
	view := EngineView{
		Mode:         e.mode,
		Config:       cfg,
		Guesses:      append([]string(nil), s.Guesses...),
		CurrentInput: s.CurrentInput,
		IsWon:        s.IsWon,
		IsLost:       s.IsLost,
		IsRevealing:  s.IsRevealing,
		GameDate:     e.gameDate,
		IsLatestDate: e.isLatestDate,
		HardMode:     e.prefs.HardMode,
		DarkMode:     e.prefs.DarkMode,
		ThemeChosen:  e.themeChosen,
		HighContrast: e.prefs.HighContrast,
		FirstVisit:   e.firstVisit,
	}
	if s.Terminal() {
		view.RevealedWord = s.TargetWord
	}
	view.Rows = boardRows(s, cfg)
	return view
}

// boardRows shapes the session into a full challenges x wordLength grid:
// scored rows for submitted guesses, the in-flight input row, then blanks.
func boardRows(s *Session, cfg ModeConfig) [][]GuessResult {
	rows := lo.Map(s.Guesses, func(guess string, _ int) []GuessResult {
		return checkGuess(guess, s.TargetWord)
	})
	if len(rows) < cfg.Challenges && !s.Terminal() {
		current := lo.Map(splitGraphemes(s.CurrentInput), func(letter string, _ int) GuessResult {
			return GuessResult{Letter: letter}
		})
		for len(current) < cfg.WordLength {
			current = append(current, GuessResult{})
		}
		rows = append(rows, current)
	}
	for len(rows) < cfg.Challenges {
		rows = append(rows, lo.Times(cfg.WordLength, func(_ int) GuessResult { return GuessResult{} }))
	}
	return rows
}

// correctWordMessage is the end-of-round reveal shown on a loss.
func correctWordMessage(solution, explanation string) string {
	return fmt.Sprintf("The word was %s. %s", solution, explanation)
}

// rejectionEffects is the shared failure shape for guess validation: jiggle
// the row and show the message, clearing the jiggle when the alert closes.
func rejectionEffects(message string) []Effect {
	return []Effect{
		{Kind: EffectRowJiggle},
		{Kind: EffectShowError, Message: message, DurationMs: AlertTimeMs, OnClose: EffectClearRowJiggle},
	}
}
