package main

// GameMode selects which board dimensions, dictionary and persistence slot
// are active. Both modes exist side by side in every Engine.
type GameMode string

const (
	ModeDaily  GameMode = "daily"
	ModeRandom GameMode = "random"
)

// ModeConfig holds the board dimensions for one mode.
type ModeConfig struct {
	WordLength int
	Challenges int
}

var modeConfigs = map[GameMode]ModeConfig{
	ModeDaily:  {WordLength: DailyWordLength, Challenges: DailyChallenges},
	ModeRandom: {WordLength: RandomWordLength, Challenges: RandomChallenges},
}

// WordEntry pairs an answer with the explanation shown when a round ends.
type WordEntry struct {
	Word        string `json:"word"`
	Explanation string `json:"explanation"`
}

// WordList represents the JSON structure for loading answer words
type WordList struct {
	Words []WordEntry `json:"words"`
}

// Session is the in-memory state of one mode's game. IsWon and IsLost are
// mutually exclusive; once either is set the session is terminal.
type Session struct {
	Mode         GameMode
	TargetWord   string
	Explanation  string
	Guesses      []string
	CurrentInput string
	IsWon        bool
	IsLost       bool
	IsRevealing  bool // advisory flip-animation window, never a correctness gate
}

// Terminal reports whether the session accepts no further guesses.
func (s *Session) Terminal() bool {
	return s.IsWon || s.IsLost
}

// StoredGameState is the persisted form of a session: just the guesses and
// the solution they were made against. A stored record whose solution does
// not match the freshly computed target is discarded on load.
type StoredGameState struct {
	Guesses  []string `json:"guesses"`
	Solution string   `json:"solution"`
}

// GameStats accumulates completed daily games on the latest date.
type GameStats struct {
	WinDistribution []int   `json:"winDistribution"`
	GamesFailed     int     `json:"gamesFailed"`
	CurrentStreak   int     `json:"currentStreak"`
	BestStreak      int     `json:"bestStreak"`
	TotalGames      int     `json:"totalGames"`
	SuccessRate     float64 `json:"successRate"`
}

// Prefs are the process-wide toggle flags, loaded at engine construction and
// saved on change. Dark and high-contrast are opaque to the engine.
type Prefs struct {
	HardMode     bool
	DarkMode     bool
	HighContrast bool
}

// Effect kinds emitted by engine operations. The engine never schedules
// timers itself; the presentation layer executes these requests.
const (
	EffectShowError      = "showError"
	EffectShowSuccess    = "showSuccess"
	EffectOpenStats      = "openStatsModal"
	EffectRowJiggle      = "rowJiggle"
	EffectClearRowJiggle = "clearRowJiggle"
	EffectReveal         = "reveal"
)

// Effect is a deferred side-effect request returned by an engine operation.
type Effect struct {
	Kind       string `json:"kind"`
	Message    string `json:"message,omitempty"`
	DelayMs    int    `json:"delayMs,omitempty"`
	DurationMs int    `json:"durationMs,omitempty"`
	OnClose    string `json:"onClose,omitempty"` // follow-up effect kind fired when the alert closes
}

// GuessResult represents a single letter's evaluation for rendering
type GuessResult struct {
	Letter string `json:"letter"`
	Status string `json:"status"`
}
