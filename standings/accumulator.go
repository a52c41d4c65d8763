package standings

import (
	"math"

	"github.com/Dosada05/league-system/models"
)

// Accumulate folds one sample into a running average over gamesBefore games.
func Accumulate(current float64, gamesBefore int, sample float64) float64 {
	if gamesBefore <= 0 {
		return sample
	}
	n := float64(gamesBefore)
	return (current*n + sample) / (n + 1)
}

// Sample is what one completed fixture contributes to the competition stats.
type Sample struct {
	Outcome     Outcome
	Goals       int
	YellowCards int
	RedCards    int
}

func (s Sample) indicator(o Outcome) float64 {
	if s.Outcome == o {
		return 1
	}
	return 0
}

// RecordStats returns stats with the sample applied. gamesBefore is the number
// of completed fixtures in the competition before this one.
//
// When the stored counts agree with gamesBefore the counts are incremented and
// the fractions recomputed from them. Otherwise (documents that predate raw
// counts) the stored fractions are blended and the counts rebuilt from them.
func RecordStats(stats models.CompetitionAggregateStats, gamesBefore int, s Sample) models.CompetitionAggregateStats {
	if gamesBefore < 0 {
		gamesBefore = 0
	}
	if stats.Games != gamesBefore {
		return recordLegacy(stats, gamesBefore, s)
	}

	stats.Games++
	switch s.Outcome {
	case OutcomeHomeWin:
		stats.HomeWins++
	case OutcomeAwayWin:
		stats.AwayWins++
	default:
		stats.Draws++
	}
	stats.TotalGoals += s.Goals
	stats.YellowCards += s.YellowCards
	stats.RedCards += s.RedCards
	return deriveFractions(stats)
}

func recordLegacy(stats models.CompetitionAggregateStats, gamesBefore int, s Sample) models.CompetitionAggregateStats {
	out := models.CompetitionAggregateStats{
		HomeWinsPercentage: Accumulate(stats.HomeWinsPercentage, gamesBefore, s.indicator(OutcomeHomeWin)),
		AwayWinsPercentage: Accumulate(stats.AwayWinsPercentage, gamesBefore, s.indicator(OutcomeAwayWin)),
		DrawsPercentage:    Accumulate(stats.DrawsPercentage, gamesBefore, s.indicator(OutcomeDraw)),
		GoalsAvg:           Accumulate(stats.GoalsAvg, gamesBefore, float64(s.Goals)),
		YellowCardsAvg:     Accumulate(stats.YellowCardsAvg, gamesBefore, float64(s.YellowCards)),
		RedCardsAvg:        Accumulate(stats.RedCardsAvg, gamesBefore, float64(s.RedCards)),
	}
	out.Games = gamesBefore + 1
	games := float64(out.Games)
	out.HomeWins = int(math.Round(out.HomeWinsPercentage * games))
	out.AwayWins = int(math.Round(out.AwayWinsPercentage * games))
	// ничьи выводятся из остатка, чтобы исходы в сумме давали Games
	out.Draws = out.Games - out.HomeWins - out.AwayWins
	if out.Draws < 0 {
		out.AwayWins += out.Draws
		out.Draws = 0
	}
	out.TotalGoals = int(math.Round(out.GoalsAvg * games))
	out.YellowCards = int(math.Round(out.YellowCardsAvg * games))
	out.RedCards = int(math.Round(out.RedCardsAvg * games))
	return out
}

func deriveFractions(stats models.CompetitionAggregateStats) models.CompetitionAggregateStats {
	if stats.Games == 0 {
		stats.HomeWinsPercentage, stats.AwayWinsPercentage, stats.DrawsPercentage = 0, 0, 0
		stats.GoalsAvg, stats.YellowCardsAvg, stats.RedCardsAvg = 0, 0, 0
		return stats
	}
	games := float64(stats.Games)
	stats.HomeWinsPercentage = float64(stats.HomeWins) / games
	stats.AwayWinsPercentage = float64(stats.AwayWins) / games
	stats.DrawsPercentage = float64(stats.Draws) / games
	stats.GoalsAvg = float64(stats.TotalGoals) / games
	stats.YellowCardsAvg = float64(stats.YellowCards) / games
	stats.RedCardsAvg = float64(stats.RedCards) / games
	return stats
}

// View rounds the stats for presentation. Percentages are scaled to 0..100.
func View(stats models.CompetitionAggregateStats) models.StatsView {
	return models.StatsView{
		Games:              stats.Games,
		HomeWinsPercentage: round2(stats.HomeWinsPercentage * 100),
		AwayWinsPercentage: round2(stats.AwayWinsPercentage * 100),
		DrawsPercentage:    round2(stats.DrawsPercentage * 100),
		GoalsAvg:           round2(stats.GoalsAvg),
		YellowCardsAvg:     round2(stats.YellowCardsAvg),
		RedCardsAvg:        round2(stats.RedCardsAvg),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
