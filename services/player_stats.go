package services

import (
	"sort"

	"github.com/Dosada05/league-system/models"
)

// playerDeltas собирает приращения личной статистики игроков по завершённому матчу.
func playerDeltas(f *models.Fixture, competitionID string) []models.PlayerStatDelta {
	acc := make(map[string]map[models.PlayerStat]int)
	add := func(playerID string, stat models.PlayerStat) {
		if playerID == "" {
			return
		}
		if acc[playerID] == nil {
			acc[playerID] = make(map[models.PlayerStat]int)
		}
		acc[playerID][stat]++
	}

	for _, p := range f.HomeLineup.Starting {
		add(p.PlayerID, models.PlayerStatAppearances)
	}
	for _, p := range f.AwayLineup.Starting {
		add(p.PlayerID, models.PlayerStatAppearances)
	}

	for _, e := range f.Events {
		switch e.Type {
		case models.MatchEventGoal:
			add(e.PlayerID, models.PlayerStatGoals)
		case models.MatchEventAssist:
			add(e.PlayerID, models.PlayerStatAssists)
		case models.MatchEventYellowCard:
			add(e.PlayerID, models.PlayerStatYellowCards)
		case models.MatchEventRedCard:
			add(e.PlayerID, models.PlayerStatRedCards)
		case models.MatchEventSubstitution:
			if acc[e.PlayerID][models.PlayerStatAppearances] == 0 {
				add(e.PlayerID, models.PlayerStatAppearances)
			}
		}
	}

	if f.Result != nil {
		if f.Result.AwayScore == 0 {
			add(startingGoalkeeper(f.HomeLineup), models.PlayerStatCleanSheets)
		}
		if f.Result.HomeScore == 0 {
			add(startingGoalkeeper(f.AwayLineup), models.PlayerStatCleanSheets)
		}
	}

	ids := make([]string, 0, len(acc))
	for id := range acc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.PlayerStatDelta, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.PlayerStatDelta{PlayerID: id, CompetitionID: competitionID, Deltas: acc[id]})
	}
	return out
}

func startingGoalkeeper(l models.Lineup) string {
	for _, p := range l.Starting {
		if p.Position == models.PositionGoalkeeper {
			return p.PlayerID
		}
	}
	return ""
}

// cardCounts берёт карточки из статистики матча, а если её нет - считает по событиям.
func cardCounts(f *models.Fixture) (yellow, red int) {
	if f.Statistics != nil {
		y, yok := sumStat(f.Statistics, models.StatYellowCards)
		r, rok := sumStat(f.Statistics, models.StatRedCards)
		if yok || rok {
			return y, r
		}
	}
	for _, e := range f.Events {
		switch e.Type {
		case models.MatchEventYellowCard:
			yellow++
		case models.MatchEventRedCard:
			red++
		}
	}
	return yellow, red
}

func sumStat(s *models.FixtureStatistics, key string) (int, bool) {
	h, hok := s.Home[key]
	a, aok := s.Away[key]
	return h + a, hok || aok
}

func mergeStatistics(current, incoming *models.FixtureStatistics) *models.FixtureStatistics {
	if incoming == nil {
		return current
	}
	out := &models.FixtureStatistics{Home: make(map[string]int), Away: make(map[string]int)}
	if current != nil {
		for k, v := range current.Home {
			out.Home[k] = v
		}
		for k, v := range current.Away {
			out.Away[k] = v
		}
	}
	for k, v := range incoming.Home {
		out.Home[k] = v
	}
	for k, v := range incoming.Away {
		out.Away[k] = v
	}
	return out
}
