package models

type PlayerStat string

const (
	PlayerStatAppearances PlayerStat = "appearances"
	PlayerStatGoals       PlayerStat = "goals"
	PlayerStatAssists     PlayerStat = "assists"
	PlayerStatYellowCards PlayerStat = "yellow_cards"
	PlayerStatRedCards    PlayerStat = "red_cards"
	PlayerStatCleanSheets PlayerStat = "clean_sheets"
)

// PlayerStatDelta - приращения статистики одного игрока за один матч.
type PlayerStatDelta struct {
	PlayerID      string             `json:"player_id"`
	CompetitionID string             `json:"competition_id"` // пусто для товарищеских матчей
	Deltas        map[PlayerStat]int `json:"deltas"`
}
