package models

import "time"

type FixtureStatus string

const (
	FixtureStatusScheduled FixtureStatus = "scheduled"
	FixtureStatusLive      FixtureStatus = "live"
	FixtureStatusCompleted FixtureStatus = "completed"
	FixtureStatusPostponed FixtureStatus = "postponed"
)

type MatchEventType string

const (
	MatchEventGoal         MatchEventType = "goal"
	MatchEventOwnGoal      MatchEventType = "own_goal"
	MatchEventAssist       MatchEventType = "assist"
	MatchEventYellowCard   MatchEventType = "yellow_card"
	MatchEventRedCard      MatchEventType = "red_card"
	MatchEventSubstitution MatchEventType = "substitution"
)

// PositionGoalkeeper помечает вратаря в заявке на матч.
const PositionGoalkeeper = "GK"

// Ключи статистики матча, которые учитываются в агрегатах соревнования.
const (
	StatYellowCards = "yellow_cards"
	StatRedCards    = "red_cards"
)

type FixtureResult struct {
	HomeScore         int  `json:"home_score"`
	AwayScore         int  `json:"away_score"`
	HomePenalty       *int `json:"home_penalty,omitempty"`
	AwayPenalty       *int `json:"away_penalty,omitempty"`
	IsPenaltyShootout bool `json:"is_penalty_shootout,omitempty"`
}

// HasPenalties reports whether both penalty scores are present.
func (r FixtureResult) HasPenalties() bool {
	return r.HomePenalty != nil && r.AwayPenalty != nil
}

type MatchEvent struct {
	Type            MatchEventType `json:"type"`
	PlayerID        string         `json:"player_id"`
	TeamID          string         `json:"team_id"`
	Minute          int            `json:"minute"`
	RelatedPlayerID *string        `json:"related_player_id,omitempty"` // для замены: игрок, покинувший поле
}

type LineupPlayer struct {
	PlayerID string `json:"player_id"`
	Position string `json:"position"`
}

type Lineup struct {
	Starting    []LineupPlayer `json:"starting"`
	Substitutes []LineupPlayer `json:"substitutes"`
}

// FixtureStatistics хранит произвольные счётчики по сторонам (удары, угловые, карточки).
type FixtureStatistics struct {
	Home map[string]int `json:"home"`
	Away map[string]int `json:"away"`
}

type Fixture struct {
	ID            string             `json:"id" db:"id"`
	CompetitionID *string            `json:"competition_id,omitempty" db:"competition_id"` // nil = товарищеский матч
	HomeTeamID    string             `json:"home_team_id" db:"home_team_id"`
	AwayTeamID    string             `json:"away_team_id" db:"away_team_id"`
	Status        FixtureStatus      `json:"status" db:"status"`
	KickoffAt     time.Time          `json:"kickoff_at" db:"kickoff_at"`
	Result        *FixtureResult     `json:"result,omitempty" db:"result"`
	Events        []MatchEvent       `json:"events" db:"events"`
	HomeLineup    Lineup             `json:"home_lineup" db:"home_lineup"`
	AwayLineup    Lineup             `json:"away_lineup" db:"away_lineup"`
	Statistics    *FixtureStatistics `json:"statistics,omitempty" db:"statistics"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" db:"updated_at"`
}

func (f *Fixture) IsFriendly() bool {
	return f.CompetitionID == nil || *f.CompetitionID == ""
}

func (f *Fixture) IsCompleted() bool {
	return f.Status == FixtureStatusCompleted
}
