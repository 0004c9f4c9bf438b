package main

import (
	"bufio"
	"crypto/rand"
	"encoding/json"
	"math"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/rivo/uniseg"
	"github.com/samber/lo"
)

// The first day a daily word existed. Requested game dates are clamped into
// [whordleEpoch, today] before an answer is derived.
var whordleEpoch = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.Local)

// Dictionary holds one mode's ordered answer list and accepted-guess set.
// Loaded once at process start, never mutated.
type Dictionary struct {
	Mode        GameMode
	Config      ModeConfig
	Answers     []WordEntry
	AcceptedSet map[string]struct{}
	explanation map[string]string
}

// loadDictionary reads the answer list and accepted-guess list for a mode.
// Answers with the wrong grapheme length are dropped with a warning, and all
// answers are folded into the accepted set so they are always playable.
func loadDictionary(mode GameMode, wordsPath, acceptedPath string) (*Dictionary, error) {
	cfg := modeConfigs[mode]

	data, err := os.ReadFile(wordsPath)
	if err != nil {
		return nil, err
	}
	var wl WordList
	if err := json.Unmarshal(data, &wl); err != nil {
		return nil, err
	}
	answers := lo.FilterMap(wl.Words, func(entry WordEntry, _ int) (WordEntry, bool) {
		entry.Word = normalizeGuess(entry.Word)
		if unicodeLength(entry.Word) != cfg.WordLength {
			logWarn("Skipping %s answer %q: not %d letters", mode, entry.Word, cfg.WordLength)
			return entry, false
		}
		return entry, true
	})

	accepted, err := loadAcceptedList(acceptedPath)
	if err != nil {
		return nil, err
	}
	for _, entry := range answers {
		accepted[entry.Word] = struct{}{}
	}

	return &Dictionary{
		Mode:        mode,
		Config:      cfg,
		Answers:     answers,
		AcceptedSet: accepted,
		explanation: lo.Associate(answers, func(entry WordEntry) (string, string) {
			return entry.Word, entry.Explanation
		}),
	}, nil
}

// loadAcceptedList reads a plain-text word list, one word per line.
func loadAcceptedList(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	accepted := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := normalizeGuess(scanner.Text())
		if w != "" {
			accepted[w] = struct{}{}
		}
	}
	return accepted, scanner.Err()
}

// IsValidGuess returns true if the normalized word is playable in this mode.
func (d *Dictionary) IsValidGuess(word string) bool {
	_, ok := d.AcceptedSet[normalizeGuess(word)]
	return ok
}

// ExplanationFor returns the explanation text for an answer word.
func (d *Dictionary) ExplanationFor(word string) string {
	if word == "" {
		return ""
	}
	text, ok := d.explanation[word]
	if !ok {
		logWarn("Explanation not found for word: %s", word)
		return ""
	}
	return text
}

// AnswerAt returns the answer entry for an index, wrapping modulo the list.
func (d *Dictionary) AnswerAt(index int) WordEntry {
	return d.Answers[((index % len(d.Answers)) + len(d.Answers)) % len(d.Answers)]
}

// RandomIndex draws a uniform answer index. Falls back to 0 if the entropy
// source fails, matching how word selection degrades elsewhere in the app.
func (d *Dictionary) RandomIndex() int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(d.Answers))))
	if err != nil {
		logWarn("Error generating random answer index: %v, using fallback", err)
		return 0
	}
	return int(n.Int64())
}

// ContainsAnswer reports whether word is one of this mode's answers.
func (d *Dictionary) ContainsAnswer(word string) bool {
	_, ok := d.explanation[word]
	return ok
}

// dailyIndex maps a calendar date to an answer index: whole days elapsed
// since the epoch date, both taken at local midnight. Rounding absorbs the
// off-by-an-hour midnights that DST transitions produce.
func dailyIndex(date time.Time) int {
	return int(math.Round(startOfDay(date).Sub(whordleEpoch).Hours() / 24))
}

// clampGameDate forces a requested date into the valid range [epoch, today].
func clampGameDate(requested, today time.Time) time.Time {
	d := startOfDay(requested)
	if d.Before(whordleEpoch) {
		return whordleEpoch
	}
	if d.After(startOfDay(today)) {
		return startOfDay(today)
	}
	return d
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return startOfDay(a).Equal(startOfDay(b))
}

// normalizeGuess trims and uppercases a guess string for comparison.
func normalizeGuess(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// unicodeLength counts graphemes, not bytes or runes, so multi-codepoint
// letters count as one.
func unicodeLength(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// splitGraphemes splits a word into its grapheme clusters.
func splitGraphemes(s string) []string {
	var out []string
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, cluster)
	}
	return out
}

// trimLastGrapheme removes the final grapheme cluster without ever splitting
// a multi-codepoint character.
func trimLastGrapheme(s string) string {
	clusters := splitGraphemes(s)
	if len(clusters) == 0 {
		return s
	}
	return strings.Join(clusters[:len(clusters)-1], "")
}
