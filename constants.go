package main

// Board dimensions per game mode. The daily and random dictionaries are
// authored to these lengths; loadDictionary drops anything that disagrees.
const (
	DailyWordLength  = 5
	DailyChallenges  = 6
	RandomWordLength = 6
	RandomChallenges = 6
)

// Letter evaluation statuses.
const (
	StatusCorrect = "correct"
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Client pacing, in milliseconds. The reveal window is RevealTimeMs per tile;
// alerts triggered by a finished row wait for the whole row to flip.
const (
	RevealTimeMs = 350
	AlertTimeMs  = 2000
)

// Persistence slot names, one JSON file per slot inside a session directory.
// Every past date shares the single archive slot.
const (
	SlotDailyGame    = "gameState"
	SlotRandomGame   = "randomGameState"
	SlotArchiveGame  = "archiveGameState"
	SlotStats        = "gameStats"
	SlotGameMode     = "gameMode"
	SlotTheme        = "theme"
	SlotHighContrast = "highContrast"
)

// Stored preference values.
const (
	PrefHard   = "hard"
	PrefNormal = "normal"
	PrefDark   = "dark"
	PrefLight  = "light"
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHome       = "/"
	RouteKey        = "/key"
	RouteDelete     = "/delete"
	RouteGuess      = "/guess"
	RouteGameState  = "/game-state"
	RouteSwitchMode = "/switch-mode"
	RouteNewWord    = "/new-word"
	RouteGameDate   = "/game-date"
	RouteSettings   = "/settings"
	RouteStats      = "/stats"
)

// User-facing message constants
const (
	MsgNotEnoughLetters = "Not enough letters"
	MsgWordNotFound     = "Word not found"
	MsgHardModeLocked   = "Hard Mode can only be enabled at the start of a round"
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)

type contextKey string
