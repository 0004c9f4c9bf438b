package main

import "fmt"

// checkGuess compares a guess to the target word and returns per-letter
// results using the standard two-pass algorithm.
//
// Pass 1 marks exact matches correct and counts the remaining target
// letters. Pass 2 resolves present/absent for the rest, decrementing counts
// so repeated letters are never over-credited. Both words are compared
// grapheme by grapheme.
func checkGuess(guess, target string) []GuessResult {
	guessLetters := splitGraphemes(guess)
	targetLetters := splitGraphemes(target)
	result := make([]GuessResult, len(guessLetters))

	remaining := make(map[string]int)
	for i, letter := range guessLetters {
		result[i].Letter = letter
		if i < len(targetLetters) && letter == targetLetters[i] {
			result[i].Status = StatusCorrect
		}
	}
	for i, letter := range targetLetters {
		if i >= len(result) || result[i].Status != StatusCorrect {
			remaining[letter]++
		}
	}
	for i := range result {
		if result[i].Status == StatusCorrect {
			continue
		}
		if remaining[result[i].Letter] > 0 {
			result[i].Status = StatusPresent
			remaining[result[i].Letter]--
		} else {
			result[i].Status = StatusAbsent
		}
	}
	return result
}

// wrongSpotMessage and notContainedMessage name the letter a hard-mode
// candidate mishandles; positions are reported 1-based.
func wrongSpotMessage(letter string, position int) string {
	return fmt.Sprintf("Must use %s in position %d", letter, position)
}

func notContainedMessage(letter string) string {
	return fmt.Sprintf("Guess must contain %s", letter)
}

// firstUnusedReveal enforces hard mode: every letter revealed correct or
// present by any prior guess must reappear in the candidate, position
// consistent for correct letters. Returns the first violation message, or ""
// when the candidate honors all revealed information. Violations are
// reported lowest position first, then in reveal order, so repeated
// submissions produce the same message.
func firstUnusedReveal(candidate string, prior []string, target string) string {
	if len(prior) == 0 {
		return ""
	}
	candidateLetters := splitGraphemes(candidate)
	wordLength := unicodeLength(target)

	pinned := make([]string, wordLength)
	var requiredOrder []string
	required := make(map[string]int)
	for _, guess := range prior {
		seen := make(map[string]int)
		for i, res := range checkGuess(guess, target) {
			if res.Status != StatusCorrect && res.Status != StatusPresent {
				continue
			}
			if res.Status == StatusCorrect && i < wordLength {
				pinned[i] = res.Letter
			}
			if _, known := required[res.Letter]; !known {
				requiredOrder = append(requiredOrder, res.Letter)
			}
			seen[res.Letter]++
		}
		for letter, count := range seen {
			if count > required[letter] {
				required[letter] = count
			}
		}
	}

	for i, letter := range pinned {
		if letter == "" {
			continue
		}
		if i >= len(candidateLetters) || candidateLetters[i] != letter {
			return wrongSpotMessage(letter, i+1)
		}
	}

	available := make(map[string]int)
	for _, letter := range candidateLetters {
		available[letter]++
	}
	for _, letter := range requiredOrder {
		if available[letter] < required[letter] {
			return notContainedMessage(letter)
		}
	}
	return ""
}
