package main

import "math"

// newGameStats returns empty statistics sized to the daily challenge budget.
func newGameStats() GameStats {
	return GameStats{WinDistribution: make([]int, DailyChallenges)}
}

// addCompletedGame folds one finished daily game into the statistics and
// returns the updated copy. guessesUsed is the number of guesses the round
// consumed (1-based); on a loss it equals the challenge budget. The caller
// persists the result.
func addCompletedGame(stats GameStats, guessesUsed int, won bool) GameStats {
	if len(stats.WinDistribution) < DailyChallenges {
		dist := make([]int, DailyChallenges)
		copy(dist, stats.WinDistribution)
		stats.WinDistribution = dist
	} else {
		stats.WinDistribution = append([]int(nil), stats.WinDistribution...)
	}

	stats.TotalGames++
	if won && guessesUsed >= 1 && guessesUsed <= DailyChallenges {
		stats.WinDistribution[guessesUsed-1]++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.BestStreak {
			stats.BestStreak = stats.CurrentStreak
		}
	} else {
		stats.GamesFailed++
		stats.CurrentStreak = 0
	}

	stats.SuccessRate = successRate(stats)
	return stats
}

// successRate is the rounded percentage of wins, always in [0,100].
func successRate(stats GameStats) float64 {
	if stats.TotalGames == 0 {
		return 0
	}
	won := stats.TotalGames - stats.GamesFailed
	return math.Round(float64(won) / float64(stats.TotalGames) * 100)
}
